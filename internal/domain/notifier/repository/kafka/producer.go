// Package kafka contains Kafka repository implementations
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/config"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/consts"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/deps"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/entities"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure/metrics"
)

// Event is the envelope of every published message
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`

	UserID  string `json:"user_id"`
	GuildID string `json:"guild_id"`
	Pokemon string `json:"pokemon"`

	// Spawn fields
	SpawnID     string `json:"spawn_id,omitempty"`
	ChannelID   string `json:"channel_id,omitempty"`
	ChannelName string `json:"channel_name,omitempty"`
	HasMedia    bool   `json:"has_media,omitempty"`
	Delivered   int    `json:"delivered,omitempty"`
	Failed      int    `json:"failed,omitempty"`
}

// Producer implements deps.EventProducer on a sarama SyncProducer
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewProducer creates the event producer. Without brokers events are dropped.
func NewProducer(cfg *config.KafkaConfig, m *metrics.Metrics, logger zerolog.Logger) (deps.EventProducer, error) {
	if len(cfg.Brokers) == 0 {
		logger.Info().Msg("Kafka brokers not configured, event publishing disabled")
		return NoopProducer{}, nil
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("Kafka producer initialized successfully")

	return NewProducerWithClient(producer, cfg.Topic, m, logger), nil
}

// NewProducerWithClient wraps an existing sarama producer
func NewProducerWithClient(producer sarama.SyncProducer, topic string, m *metrics.Metrics, logger zerolog.Logger) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		metrics:  m,
		logger:   logger.With().Str("component", "kafka-producer").Logger(),
	}
}

// SendSubscriptionCreated sends subscription created event to Kafka
func (p *Producer) SendSubscriptionCreated(ctx context.Context, sub *entities.Subscription) error {
	return p.sendEvent(ctx, sub.GuildID, &Event{
		Type:       consts.EventSubscriptionCreated,
		OccurredAt: time.Now().UTC(),
		UserID:     sub.UserID,
		GuildID:    sub.GuildID,
		Pokemon:    sub.Pokemon,
	})
}

// SendSubscriptionDeleted sends subscription deleted event to Kafka
func (p *Producer) SendSubscriptionDeleted(ctx context.Context, sub *entities.Subscription) error {
	return p.sendEvent(ctx, sub.GuildID, &Event{
		Type:       consts.EventSubscriptionDeleted,
		OccurredAt: time.Now().UTC(),
		UserID:     sub.UserID,
		GuildID:    sub.GuildID,
		Pokemon:    sub.Pokemon,
	})
}

// SendSpawnAnnounced sends spawn announced event to Kafka
func (p *Producer) SendSpawnAnnounced(ctx context.Context, spawn *entities.Spawn, delivered, failed int) error {
	return p.sendEvent(ctx, spawn.GuildID, &Event{
		Type:        consts.EventSpawnAnnounced,
		OccurredAt:  time.Now().UTC(),
		UserID:      spawn.UserID,
		GuildID:     spawn.GuildID,
		Pokemon:     spawn.Pokemon,
		SpawnID:     spawn.ID,
		ChannelID:   spawn.ChannelID,
		ChannelName: spawn.ChannelName,
		HasMedia:    spawn.MediaRef != "",
		Delivered:   delivered,
		Failed:      failed,
	})
}

// sendEvent publishes event keyed by guild so a guild's events stay ordered
func (p *Producer) sendEvent(ctx context.Context, key string, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		p.metrics.RecordEventError(event.Type)
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(jsonData),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.metrics.RecordEventError(event.Type)
		p.logger.Error().Err(err).Str("event_type", event.Type).Msg("Failed to send Kafka message")
		return err
	}

	p.metrics.RecordEvent()
	p.logger.Debug().
		Str("event_type", event.Type).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Kafka message sent successfully")

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}

// NoopProducer drops every event
type NoopProducer struct{}

func (NoopProducer) SendSubscriptionCreated(context.Context, *entities.Subscription) error {
	return nil
}

func (NoopProducer) SendSubscriptionDeleted(context.Context, *entities.Subscription) error {
	return nil
}

func (NoopProducer) SendSpawnAnnounced(context.Context, *entities.Spawn, int, int) error {
	return nil
}

func (NoopProducer) Close() error { return nil }
