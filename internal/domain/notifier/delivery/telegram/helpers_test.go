package telegram

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/config"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/deps"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/dto"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/entities"
	kafkaRepo "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/repository/kafka"
	sqliteRepo "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/repository/sqlite"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/usecase/business"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure/database"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure/metrics"
)

type sentMessage struct {
	ChatID   string
	Text     string
	MediaRef string
}

// recordingSender records every outbound message
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (s *recordingSender) SendMessage(ctx context.Context, chatID, text string) error {
	return s.SendMessageWithMedia(ctx, chatID, text, "")
}

func (s *recordingSender) SendMessageWithMedia(_ context.Context, chatID, text, mediaRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{ChatID: chatID, Text: text, MediaRef: mediaRef})
	return nil
}

func (s *recordingSender) to(chatID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, msg := range s.sent {
		if msg.ChatID == chatID {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *recordingSender) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}

// mapResolver resolves channels from a fixed table; unknown channels have no guild
type mapResolver map[string]string

func (r mapResolver) ResolveGuild(_ context.Context, channelID string) string {
	if guild, ok := r[channelID]; ok {
		return guild
	}
	return entities.NoGuild
}

// countingSubscriptions counts reads and can be switched to fail
type countingSubscriptions struct {
	deps.SubscriptionRepository

	mu    sync.Mutex
	reads int
	err   error
}

func (c *countingSubscriptions) read() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	return c.err
}

func (c *countingSubscriptions) Create(ctx context.Context, sub *entities.Subscription) error {
	c.mu.Lock()
	err := c.err
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.SubscriptionRepository.Create(ctx, sub)
}

func (c *countingSubscriptions) ListPokemon(ctx context.Context, userID, guildID string) ([]string, error) {
	if err := c.read(); err != nil {
		return nil, err
	}
	return c.SubscriptionRepository.ListPokemon(ctx, userID, guildID)
}

func (c *countingSubscriptions) ListSubscribers(ctx context.Context, guildID, pokemon string) ([]string, error) {
	if err := c.read(); err != nil {
		return nil, err
	}
	return c.SubscriptionRepository.ListSubscribers(ctx, guildID, pokemon)
}

func (c *countingSubscriptions) GuildStats(ctx context.Context, guildID string) (*entities.GuildStats, error) {
	if err := c.read(); err != nil {
		return nil, err
	}
	return c.SubscriptionRepository.GuildStats(ctx, guildID)
}

func (c *countingSubscriptions) readCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

var errDatabaseLocked = errors.New("database is locked")

const (
	guildOne    = "-1001"
	guildTwo    = "-1002"
	channelOne  = "-1001"
	channelTwo  = "-1002"
	privateChat = "777"
	adminID     = "1"
)

type harness struct {
	subs      *countingSubscriptions
	sender    *recordingSender
	announcer *business.Announcer
	router    *Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "subs.sqlite"))
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	m := metrics.GetDefaultMetrics()
	logger := zerolog.Nop()
	cfg := &config.NotifierConfig{
		CommandPrefix: "p!",
		SpawnDelay:    0,
		AdminUsers:    []string{adminID, "@Oak"},
	}

	h := &harness{
		subs:   &countingSubscriptions{SubscriptionRepository: sqliteRepo.NewSubscriptionRepository(db)},
		sender: &recordingSender{},
	}
	producer := kafkaRepo.NoopProducer{}
	store := business.NewSubscriptionStore(h.subs, producer, m, logger)
	gate := business.NewBlacklistGate(sqliteRepo.NewBlacklistRepository(db), m, logger)
	h.announcer = business.NewAnnouncer(store, gate, h.sender, producer, m, logger)

	resolver := mapResolver{channelOne: guildOne, channelTwo: guildTwo}
	handlers := NewHandlers(store, gate, h.announcer, resolver, h.sender, cfg, logger)
	h.router = NewRouter(cfg, handlers, h.sender, m, logger)

	return h
}

// run dispatches a command typed by userID in channelID
func (h *harness) run(t *testing.T, userID, userName, channelID, command string, args ...string) {
	t.Helper()
	h.router.Dispatch(context.Background(), &dto.Invocation{
		UserID:      userID,
		UserName:    userName,
		ChannelID:   channelID,
		ChannelName: "Pallet Town",
		Command:     command,
		Args:        args,
	})
}

// settle waits for every scheduled announcement
func (h *harness) settle(t *testing.T) {
	t.Helper()
	require.NoError(t, h.announcer.Wait(context.Background()))
}
