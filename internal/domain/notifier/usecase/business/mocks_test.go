package business

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/entities"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure/metrics"
)

// mockSubscriptionRepository is an in-memory deps.SubscriptionRepository
type mockSubscriptionRepository struct {
	mu    sync.Mutex
	rows  []entities.Subscription
	reads int
	err   error
}

func (m *mockSubscriptionRepository) Create(_ context.Context, sub *entities.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, *sub)
	return nil
}

func (m *mockSubscriptionRepository) Delete(_ context.Context, sub *entities.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row != *sub {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	return nil
}

func (m *mockSubscriptionRepository) ListPokemon(_ context.Context, userID, guildID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, row := range m.rows {
		if row.UserID == userID && row.GuildID == guildID && !seen[row.Pokemon] {
			seen[row.Pokemon] = true
			out = append(out, row.Pokemon)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *mockSubscriptionRepository) ListSubscribers(_ context.Context, guildID, pokemon string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]string, 0)
	for _, row := range m.rows {
		if row.GuildID == guildID && row.Pokemon == pokemon {
			out = append(out, row.UserID)
		}
	}
	return out, nil
}

func (m *mockSubscriptionRepository) GuildStats(_ context.Context, guildID string) (*entities.GuildStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	users := map[string]bool{}
	pokemon := map[string]bool{}
	stats := &entities.GuildStats{}
	for _, row := range m.rows {
		if row.GuildID != guildID {
			continue
		}
		users[row.UserID] = true
		pokemon[row.Pokemon] = true
		stats.TotalSubscriptions++
	}
	stats.Trainers = int64(len(users))
	stats.Pokemon = int64(len(pokemon))
	return stats, nil
}

func (m *mockSubscriptionRepository) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// mockBlacklistRepository is an in-memory deps.BlacklistRepository
type mockBlacklistRepository struct {
	mu    sync.Mutex
	names []string
	reads int
	err   error
}

func (m *mockBlacklistRepository) Create(_ context.Context, userName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.names = append(m.names, userName)
	return nil
}

func (m *mockBlacklistRepository) Delete(_ context.Context, userName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	kept := m.names[:0]
	for _, name := range m.names {
		if name != userName {
			kept = append(kept, name)
		}
	}
	m.names = kept
	return nil
}

func (m *mockBlacklistRepository) Exists(_ context.Context, userName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return false, m.err
	}
	for _, name := range m.names {
		if name == userName {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBlacklistRepository) ListUserNames(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, name := range m.names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

type sentMessage struct {
	ChatID   string
	Text     string
	MediaRef string
}

// mockSender records outbound messages and fails for chat ids in failFor
type mockSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]error
}

func (m *mockSender) SendMessage(ctx context.Context, chatID, text string) error {
	return m.SendMessageWithMedia(ctx, chatID, text, "")
}

func (m *mockSender) SendMessageWithMedia(_ context.Context, chatID, text, mediaRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor[chatID]; err != nil {
		return err
	}
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text, MediaRef: mediaRef})
	return nil
}

func (m *mockSender) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, msg := range m.sent {
		out[i] = msg.ChatID
	}
	return out
}

func (m *mockSender) messages() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

// mockProducer counts published events
type mockProducer struct {
	mu      sync.Mutex
	created int
	deleted int
	spawns  int
	err     error
}

func (m *mockProducer) SendSubscriptionCreated(context.Context, *entities.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
	return m.err
}

func (m *mockProducer) SendSubscriptionDeleted(context.Context, *entities.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted++
	return m.err
}

func (m *mockProducer) SendSpawnAnnounced(context.Context, *entities.Spawn, int, int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spawns++
	return m.err
}

func (m *mockProducer) Close() error { return nil }

type fixture struct {
	subs      *mockSubscriptionRepository
	blacklist *mockBlacklistRepository
	sender    *mockSender
	producer  *mockProducer
	store     *SubscriptionStore
	gate      *BlacklistGate
	announcer *Announcer
}

func newFixture() *fixture {
	f := &fixture{
		subs:      &mockSubscriptionRepository{},
		blacklist: &mockBlacklistRepository{},
		sender:    &mockSender{failFor: map[string]error{}},
		producer:  &mockProducer{},
	}
	m := metrics.GetDefaultMetrics()
	logger := zerolog.Nop()

	f.store = NewSubscriptionStore(f.subs, f.producer, m, logger)
	f.gate = NewBlacklistGate(f.blacklist, m, logger)
	f.announcer = NewAnnouncer(f.store, f.gate, f.sender, f.producer, m, logger)
	return f
}
