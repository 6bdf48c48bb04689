package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/deps"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/entities"
)

type blacklistRepository struct {
	db *gorm.DB
}

// NewBlacklistRepository creates a new blacklist repository
func NewBlacklistRepository(db *gorm.DB) deps.BlacklistRepository {
	return &blacklistRepository{db: db}
}

func (r *blacklistRepository) Create(ctx context.Context, userName string) error {
	if err := r.db.WithContext(ctx).Create(&entities.BlacklistEntry{UserName: userName}).Error; err != nil {
		return fmt.Errorf("insert blacklist entry: %w", err)
	}
	return nil
}

func (r *blacklistRepository) Delete(ctx context.Context, userName string) error {
	err := r.db.WithContext(ctx).
		Where("user_name = ?", userName).
		Delete(&entities.BlacklistEntry{}).Error
	if err != nil {
		return fmt.Errorf("delete blacklist entry: %w", err)
	}
	return nil
}

func (r *blacklistRepository) Exists(ctx context.Context, userName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.BlacklistEntry{}).
		Where("user_name = ?", userName).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return count > 0, nil
}

func (r *blacklistRepository) ListUserNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&entities.BlacklistEntry{}).
		Distinct("user_name").
		Order("user_name").
		Pluck("user_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list blacklist: %w", err)
	}
	return names, nil
}
