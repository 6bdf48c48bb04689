package business

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/deps"
	notifiererrors "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/errors"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure/metrics"
	pkgerrors "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/pkg/errors"
)

// BlacklistGate keeps the set of user names that may not announce spawns.
// It does not check who calls it; admin checks belong to the command layer.
type BlacklistGate struct {
	repo    deps.BlacklistRepository
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewBlacklistGate creates a new BlacklistGate
func NewBlacklistGate(repo deps.BlacklistRepository, m *metrics.Metrics, logger zerolog.Logger) *BlacklistGate {
	return &BlacklistGate{
		repo:    repo,
		metrics: m,
		logger:  logger.With().Str("component", "blacklist-gate").Logger(),
	}
}

// Block adds userName to the blacklist
func (g *BlacklistGate) Block(ctx context.Context, userName string) error {
	if userName == "" {
		return notifiererrors.ErrNameRequired
	}

	if err := g.repo.Create(ctx, userName); err != nil {
		g.metrics.RecordPersistenceError("block")
		return pkgerrors.NewPersistenceError("failed to block user", err)
	}

	g.logger.Info().Str("user_name", userName).Msg("User blacklisted")
	return nil
}

// Unblock removes every blacklist entry of userName
func (g *BlacklistGate) Unblock(ctx context.Context, userName string) error {
	if userName == "" {
		return notifiererrors.ErrNameRequired
	}

	if err := g.repo.Delete(ctx, userName); err != nil {
		g.metrics.RecordPersistenceError("unblock")
		return pkgerrors.NewPersistenceError("failed to unblock user", err)
	}

	g.logger.Info().Str("user_name", userName).Msg("User removed from blacklist")
	return nil
}

// IsBlocked reports whether userName is blacklisted. An empty name is never blocked.
func (g *BlacklistGate) IsBlocked(ctx context.Context, userName string) (bool, error) {
	if userName == "" {
		return false, nil
	}

	blocked, err := g.repo.Exists(ctx, userName)
	if err != nil {
		g.metrics.RecordPersistenceError("is_blocked")
		return false, pkgerrors.NewPersistenceError("failed to check blacklist", err)
	}

	return blocked, nil
}

// ListBlocked returns the distinct blacklisted user names
func (g *BlacklistGate) ListBlocked(ctx context.Context) ([]string, error) {
	names, err := g.repo.ListUserNames(ctx)
	if err != nil {
		g.metrics.RecordPersistenceError("list_blocked")
		return nil, pkgerrors.NewPersistenceError("failed to list blacklist", err)
	}
	return names, nil
}
