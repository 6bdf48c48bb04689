// Package business contains business logic for the notifier domain
package business

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/deps"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/entities"
	notifiererrors "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/errors"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure/metrics"
	pkgerrors "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/pkg/errors"
)

// SubscriptionStore owns the (user, guild, pokemon) relation.
// Every pokemon name is normalized before it reaches the repository.
type SubscriptionStore struct {
	repo     deps.SubscriptionRepository
	producer deps.EventProducer
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewSubscriptionStore creates a new SubscriptionStore
func NewSubscriptionStore(
	repo deps.SubscriptionRepository,
	producer deps.EventProducer,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SubscriptionStore {
	return &SubscriptionStore{
		repo:     repo,
		producer: producer,
		metrics:  m,
		logger:   logger.With().Str("component", "subscription-store").Logger(),
	}
}

// Subscribe adds a subscription and returns the canonical pokemon name.
// Subscribing twice stores a second row.
func (s *SubscriptionStore) Subscribe(ctx context.Context, userID, guildID, pokemon string) (string, error) {
	sub, err := newSubscription(userID, guildID, pokemon)
	if err != nil {
		return "", err
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		s.metrics.RecordPersistenceError("subscribe")
		return "", pkgerrors.NewPersistenceError("failed to subscribe", err)
	}

	s.metrics.RecordSubscription()
	s.logger.Info().
		Str("user_id", sub.UserID).
		Str("guild_id", sub.GuildID).
		Str("pokemon", sub.Pokemon).
		Msg("User subscribed")

	if err := s.producer.SendSubscriptionCreated(ctx, sub); err != nil {
		s.logger.Warn().Err(err).Str("pokemon", sub.Pokemon).Msg("Failed to publish subscription created event")
	}

	return sub.Pokemon, nil
}

// Unsubscribe removes every row of the exact tuple.
// Removing an absent subscription succeeds.
func (s *SubscriptionStore) Unsubscribe(ctx context.Context, userID, guildID, pokemon string) (string, error) {
	sub, err := newSubscription(userID, guildID, pokemon)
	if err != nil {
		return "", err
	}

	if err := s.repo.Delete(ctx, sub); err != nil {
		s.metrics.RecordPersistenceError("unsubscribe")
		return "", pkgerrors.NewPersistenceError("failed to unsubscribe", err)
	}

	s.metrics.RecordUnsubscription()
	s.logger.Info().
		Str("user_id", sub.UserID).
		Str("guild_id", sub.GuildID).
		Str("pokemon", sub.Pokemon).
		Msg("User unsubscribed")

	if err := s.producer.SendSubscriptionDeleted(ctx, sub); err != nil {
		s.logger.Warn().Err(err).Str("pokemon", sub.Pokemon).Msg("Failed to publish subscription deleted event")
	}

	return sub.Pokemon, nil
}

// ListSubscriptions returns the pokemon a user follows in a guild
func (s *SubscriptionStore) ListSubscriptions(ctx context.Context, userID, guildID string) ([]string, error) {
	if userID == "" {
		return nil, notifiererrors.ErrUserRequired
	}

	pokemon, err := s.repo.ListPokemon(ctx, userID, normalizeGuild(guildID))
	if err != nil {
		s.metrics.RecordPersistenceError("list_subscriptions")
		return nil, pkgerrors.NewPersistenceError("failed to list subscriptions", err)
	}

	return pokemon, nil
}

// ResolveAudience returns the users subscribed to pokemon in a guild,
// one entry per stored row
func (s *SubscriptionStore) ResolveAudience(ctx context.Context, guildID, pokemon string) ([]string, error) {
	name := entities.NormalizePokemon(pokemon)
	if name == "" {
		return nil, notifiererrors.ErrPokemonRequired
	}

	users, err := s.repo.ListSubscribers(ctx, normalizeGuild(guildID), name)
	if err != nil {
		s.metrics.RecordPersistenceError("resolve_audience")
		return nil, pkgerrors.NewPersistenceError("failed to resolve audience", err)
	}

	return users, nil
}

// GuildStats counts trainers, pokemon and rows of a guild.
// A guild without rows yields zero counts.
func (s *SubscriptionStore) GuildStats(ctx context.Context, guildID string) (*entities.GuildStats, error) {
	stats, err := s.repo.GuildStats(ctx, normalizeGuild(guildID))
	if err != nil {
		s.metrics.RecordPersistenceError("guild_stats")
		return nil, pkgerrors.NewPersistenceError("failed to get stats", err)
	}

	if stats == nil {
		stats = &entities.GuildStats{}
	}

	return stats, nil
}

func newSubscription(userID, guildID, pokemon string) (*entities.Subscription, error) {
	if userID == "" {
		return nil, notifiererrors.ErrUserRequired
	}

	name := entities.NormalizePokemon(pokemon)
	if name == "" {
		return nil, notifiererrors.ErrPokemonRequired
	}

	return &entities.Subscription{
		UserID:  userID,
		GuildID: normalizeGuild(guildID),
		Pokemon: name,
	}, nil
}

// normalizeGuild maps an empty guild id onto the NoGuild partition
func normalizeGuild(guildID string) string {
	if guildID == "" {
		return entities.NoGuild
	}
	return guildID
}
