// Package notifier contains the notifier domain module
package notifier

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	httpDelivery "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/delivery/http"
	telegramDelivery "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/delivery/telegram"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/deps"
	kafkaRepo "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/repository/kafka"
	sqliteRepo "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/repository/sqlite"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/usecase/business"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure/database"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure/http/server"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure/telegram"
)

// Module provides notifier domain components for fx dependency injection
var Module = fx.Module("notifier",
	// Repository
	fx.Provide(sqliteRepo.NewSubscriptionRepository),
	fx.Provide(sqliteRepo.NewBlacklistRepository),
	fx.Provide(kafkaRepo.NewProducer),

	// UseCase
	fx.Provide(business.NewSubscriptionStore),
	fx.Provide(business.NewBlacklistGate),
	fx.Provide(business.NewAnnouncer),

	// Delivery - Telegram
	fx.Provide(telegramDelivery.NewHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Delivery - HTTP
	fx.Provide(provideHealthHandler),
	fx.Provide(httpDelivery.NewRouter),

	fx.Invoke(registerRoutes),
	fx.Invoke(registerLifecycle),
)

// provideHealthHandler binds the health check to the database
func provideHealthHandler(db *gorm.DB, logger zerolog.Logger) *httpDelivery.HealthHandler {
	return httpDelivery.NewHealthHandler(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, logger)
}

// registerRoutes registers Telegram commands and HTTP routes
func registerRoutes(
	tgRouter *telegramDelivery.Router,
	bot *telegram.Bot,
	httpRouter *httpDelivery.Router,
	srv *server.Server,
) {
	tgRouter.RegisterRoutes(bot.Raw())
	httpRouter.RegisterRoutes(srv.Router)
}

// registerLifecycle drains scheduled announcements before the producer and
// the database are closed
func registerLifecycle(
	lc fx.Lifecycle,
	announcer *business.Announcer,
	producer deps.EventProducer,
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := announcer.Wait(ctx); err != nil {
				logger.Warn().Err(err).Msg("Stopped before every spawn announcement finished")
			}
			return producer.Close()
		},
	})
}
