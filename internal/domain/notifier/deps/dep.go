// Package deps contains interface definitions for the notifier domain dependencies
package deps

import (
	"context"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/entities"
)

// SubscriptionRepository defines data access for the (user, guild, pokemon) relation.
// Pokemon names arrive already normalized.
type SubscriptionRepository interface {
	// Create inserts one subscription row
	Create(ctx context.Context, sub *entities.Subscription) error

	// Delete removes every row matching the exact tuple
	Delete(ctx context.Context, sub *entities.Subscription) error

	// ListPokemon returns the distinct pokemon a user follows in a guild
	ListPokemon(ctx context.Context, userID, guildID string) ([]string, error)

	// ListSubscribers returns one user id per matching row
	ListSubscribers(ctx context.Context, guildID, pokemon string) ([]string, error)

	// GuildStats aggregates the rows of a guild
	GuildStats(ctx context.Context, guildID string) (*entities.GuildStats, error)
}

// BlacklistRepository defines data access for blocked user names
type BlacklistRepository interface {
	// Create inserts one blacklist row
	Create(ctx context.Context, userName string) error

	// Delete removes every row with the user name
	Delete(ctx context.Context, userName string) error

	// Exists reports whether at least one row has the user name
	Exists(ctx context.Context, userName string) (bool, error)

	// ListUserNames returns the distinct blocked user names
	ListUserNames(ctx context.Context) ([]string, error)
}

// Sender delivers outbound messages. Recipients are chat ids: a user id for
// a direct message, a group id for a channel reply.
type Sender interface {
	// SendMessage sends a text message
	SendMessage(ctx context.Context, chatID, text string) error

	// SendMessageWithMedia sends a message carrying a media reference
	SendMessageWithMedia(ctx context.Context, chatID, text, mediaRef string) error
}

// GuildResolver maps a channel to its guild. Failures resolve to entities.NoGuild.
type GuildResolver interface {
	ResolveGuild(ctx context.Context, channelID string) string
}

// EventProducer publishes domain events. Publishing is best effort.
type EventProducer interface {
	// SendSubscriptionCreated sends subscription created event
	SendSubscriptionCreated(ctx context.Context, sub *entities.Subscription) error

	// SendSubscriptionDeleted sends subscription deleted event
	SendSubscriptionDeleted(ctx context.Context, sub *entities.Subscription) error

	// SendSpawnAnnounced sends spawn announced event with the delivery outcome
	SendSpawnAnnounced(ctx context.Context, spawn *entities.Spawn, delivered, failed int) error

	// Close closes the producer
	Close() error
}
