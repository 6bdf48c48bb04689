// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/config"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, metrics, database, http, telegram bot)
		infrastructure.Module,

		// Domain (subscriptions, blacklist, spawn fan-out)
		domain.Module,
	)
}
