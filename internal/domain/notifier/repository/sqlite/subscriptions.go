// Package sqlite contains gorm repositories backed by the SQLite database
package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/deps"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/entities"
)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) deps.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *entities.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, sub *entities.Subscription) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND guild_id = ? AND pokemon = ?", sub.UserID, sub.GuildID, sub.Pokemon).
		Delete(&entities.Subscription{}).Error
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) ListPokemon(ctx context.Context, userID, guildID string) ([]string, error) {
	pokemon := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		Distinct("pokemon").
		Order("pokemon").
		Pluck("pokemon", &pokemon).Error
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return pokemon, nil
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, guildID, pokemon string) ([]string, error) {
	users := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("guild_id = ? AND pokemon = ?", guildID, pokemon).
		Pluck("user_id", &users).Error
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return users, nil
}

func (r *subscriptionRepository) GuildStats(ctx context.Context, guildID string) (*entities.GuildStats, error) {
	var stats entities.GuildStats
	err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Select("COUNT(DISTINCT user_id) AS trainers, COUNT(DISTINCT pokemon) AS pokemon, COUNT(*) AS total_subs").
		Where("guild_id = ?", guildID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("guild stats: %w", err)
	}
	return &stats, nil
}
