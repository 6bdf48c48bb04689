package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/config"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/consts"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/entities"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure/metrics"
)

func newMockProducer(t *testing.T) *mocks.SyncProducer {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	return mocks.NewSyncProducer(t, cfg)
}

func eventChecker(check func(e Event)) mocks.ValueChecker {
	return func(val []byte) error {
		var e Event
		if err := json.Unmarshal(val, &e); err != nil {
			return err
		}
		check(e)
		return nil
	}
}

func TestNewProducer_NoBrokersDisablesPublishing(t *testing.T) {
	p, err := NewProducer(&config.KafkaConfig{Topic: "pokemon.events"}, metrics.GetDefaultMetrics(), zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, NoopProducer{}, p)

	assert.NoError(t, p.SendSubscriptionCreated(context.Background(), &entities.Subscription{}))
	assert.NoError(t, p.Close())
}

func TestProducer_SendSubscriptionCreated(t *testing.T) {
	mock := newMockProducer(t)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(eventChecker(func(e Event) {
		assert.Equal(t, consts.EventSubscriptionCreated, e.Type)
		assert.Equal(t, "u1", e.UserID)
		assert.Equal(t, "g1", e.GuildID)
		assert.Equal(t, "PIKACHU", e.Pokemon)
		assert.False(t, e.OccurredAt.IsZero())
	}))

	p := NewProducerWithClient(mock, "pokemon.events", metrics.GetDefaultMetrics(), zerolog.Nop())

	err := p.SendSubscriptionCreated(context.Background(), &entities.Subscription{UserID: "u1", GuildID: "g1", Pokemon: "PIKACHU"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestProducer_SendSubscriptionDeleted(t *testing.T) {
	mock := newMockProducer(t)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(eventChecker(func(e Event) {
		assert.Equal(t, consts.EventSubscriptionDeleted, e.Type)
	}))

	p := NewProducerWithClient(mock, "pokemon.events", metrics.GetDefaultMetrics(), zerolog.Nop())

	require.NoError(t, p.SendSubscriptionDeleted(context.Background(), &entities.Subscription{UserID: "u1", GuildID: "g1", Pokemon: "EEVEE"}))
	require.NoError(t, p.Close())
}

func TestProducer_SendSpawnAnnounced(t *testing.T) {
	mock := newMockProducer(t)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(eventChecker(func(e Event) {
		assert.Equal(t, consts.EventSpawnAnnounced, e.Type)
		assert.Equal(t, "spawn-1", e.SpawnID)
		assert.Equal(t, "park", e.ChannelName)
		assert.True(t, e.HasMedia)
		assert.Equal(t, 3, e.Delivered)
		assert.Equal(t, 1, e.Failed)
	}))

	p := NewProducerWithClient(mock, "pokemon.events", metrics.GetDefaultMetrics(), zerolog.Nop())

	spawn := &entities.Spawn{ID: "spawn-1", UserID: "u1", GuildID: "g1", ChannelName: "park", Pokemon: "MEW", MediaRef: "file"}
	require.NoError(t, p.SendSpawnAnnounced(context.Background(), spawn, 3, 1))
	require.NoError(t, p.Close())
}

func TestProducer_SendFailure(t *testing.T) {
	mock := newMockProducer(t)
	sendErr := errors.New("leader not available")
	mock.ExpectSendMessageAndFail(sendErr)

	p := NewProducerWithClient(mock, "pokemon.events", metrics.GetDefaultMetrics(), zerolog.Nop())

	err := p.SendSubscriptionCreated(context.Background(), &entities.Subscription{UserID: "u1", GuildID: "g1", Pokemon: "MEW"})
	assert.ErrorIs(t, err, sendErr)
	require.NoError(t, p.Close())
}

func TestProducer_CancelledContextSkipsSend(t *testing.T) {
	mock := newMockProducer(t)
	p := NewProducerWithClient(mock, "pokemon.events", metrics.GetDefaultMetrics(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.SendSubscriptionCreated(ctx, &entities.Subscription{UserID: "u1", GuildID: "g1", Pokemon: "MEW"})
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, p.Close())
}
