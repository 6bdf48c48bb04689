package business

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/deps"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/dto"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/entities"
	notifiererrors "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/errors"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure/metrics"
)

// Announcement is a scheduled fan-out. Counters are valid once Done is closed.
type Announcement struct {
	Spawn entities.Spawn

	done      chan struct{}
	audience  int
	delivered int
	failed    int
	err       error
}

// Done is closed after every delivery has been attempted
func (a *Announcement) Done() <-chan struct{} {
	return a.done
}

// Audience returns the number of resolved subscriber rows
func (a *Announcement) Audience() int { return a.audience }

// Delivered returns the number of notifications sent
func (a *Announcement) Delivered() int { return a.delivered }

// Failed returns the number of notifications that could not be sent
func (a *Announcement) Failed() int { return a.failed }

// Err returns the error that stopped the fan-out before any delivery, if any
func (a *Announcement) Err() error { return a.err }

// Announcer fans a spawn out to every subscriber of a guild
type Announcer struct {
	store    *SubscriptionStore
	gate     *BlacklistGate
	sender   deps.Sender
	producer deps.EventProducer
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	wg sync.WaitGroup
}

// NewAnnouncer creates a new Announcer
func NewAnnouncer(
	store *SubscriptionStore,
	gate *BlacklistGate,
	sender deps.Sender,
	producer deps.EventProducer,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Announcer {
	return &Announcer{
		store:    store,
		gate:     gate,
		sender:   sender,
		producer: producer,
		metrics:  m,
		logger:   logger.With().Str("component", "announcer").Logger(),
	}
}

// Announce checks the blacklist and schedules the fan-out. It returns as soon
// as the fan-out is scheduled; the fan-out itself outlives ctx and cannot be
// cancelled.
func (a *Announcer) Announce(ctx context.Context, req *dto.AnnounceRequest) (*Announcement, error) {
	pokemon := entities.NormalizePokemon(req.Pokemon)
	if pokemon == "" {
		return nil, notifiererrors.ErrPokemonRequired
	}

	if !entities.HasGuild(req.GuildID) {
		return nil, notifiererrors.ErrNoGuild
	}

	blocked, err := a.isBlocked(ctx, req)
	if err != nil {
		a.metrics.RecordAnnouncement("failed")
		return nil, err
	}
	if blocked {
		a.metrics.RecordAnnouncement("blocked")
		a.logger.Warn().
			Str("user_id", req.UserID).
			Str("user_name", req.UserName).
			Str("pokemon", pokemon).
			Msg("Blacklisted user tried to announce a spawn")
		return nil, notifiererrors.ErrTriggerBlocked
	}

	ann := &Announcement{
		Spawn: entities.Spawn{
			ID:          uuid.NewString(),
			UserID:      req.UserID,
			UserName:    req.UserName,
			GuildID:     req.GuildID,
			ChannelID:   req.ChannelID,
			ChannelName: req.ChannelName,
			Pokemon:     pokemon,
			MediaRef:    req.MediaRef,
			Delay:       req.Delay,
			CreatedAt:   time.Now(),
		},
		done: make(chan struct{}),
	}

	a.metrics.RecordAnnouncement("scheduled")
	a.metrics.AnnouncementStarted()
	a.logger.Info().
		Str("announcement_id", ann.Spawn.ID).
		Str("user_id", req.UserID).
		Str("guild_id", req.GuildID).
		Str("pokemon", pokemon).
		Dur("delay", req.Delay).
		Bool("has_media", req.MediaRef != "").
		Msg("Spawn announcement scheduled")

	a.wg.Add(1)
	go a.run(context.WithoutCancel(ctx), ann)

	return ann, nil
}

// Wait blocks until every scheduled announcement has finished or ctx is done
func (a *Announcer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// isBlocked checks the caller's handle and id against the blacklist
func (a *Announcer) isBlocked(ctx context.Context, req *dto.AnnounceRequest) (bool, error) {
	for _, name := range []string{req.UserName, req.UserID} {
		blocked, err := a.gate.IsBlocked(ctx, name)
		if err != nil || blocked {
			return blocked, err
		}
	}
	return false, nil
}

func (a *Announcer) run(ctx context.Context, ann *Announcement) {
	defer a.wg.Done()
	defer a.metrics.AnnouncementFinished()
	defer close(ann.done)
	defer func() {
		if r := recover(); r != nil {
			ann.err = fmt.Errorf("announcement panicked: %v", r)
			a.logger.Error().Str("announcement_id", ann.Spawn.ID).Interface("panic", r).Msg("Spawn announcement panicked")
		}
	}()

	log := a.logger.With().
		Str("announcement_id", ann.Spawn.ID).
		Str("guild_id", ann.Spawn.GuildID).
		Str("pokemon", ann.Spawn.Pokemon).
		Logger()

	if ann.Spawn.Delay > 0 {
		timer := time.NewTimer(ann.Spawn.Delay)
		<-timer.C
	}

	start := time.Now()

	users, err := a.store.ResolveAudience(ctx, ann.Spawn.GuildID, ann.Spawn.Pokemon)
	if err != nil {
		ann.err = err
		a.metrics.RecordAnnouncement("failed")
		log.Error().Err(err).Msg("Unable to get subscriptions for spawn")
		return
	}

	ann.audience = len(users)
	if len(users) == 0 {
		log.Info().Msg("No one is subscribed to this pokemon")
	}

	text := FormatSpawnMessage(ann.Spawn.Pokemon, ann.Spawn.ChannelName)
	for _, userID := range users {
		if err := a.deliver(ctx, userID, text, ann.Spawn.MediaRef); err != nil {
			ann.failed++
			log.Warn().Err(err).Str("user_id", userID).Msg("Failed to deliver spawn notification")
			continue
		}
		ann.delivered++
	}

	a.metrics.RecordFanOut(ann.audience, ann.delivered, ann.failed, time.Since(start).Seconds())
	a.metrics.RecordAnnouncement("completed")

	if err := a.producer.SendSpawnAnnounced(ctx, &ann.Spawn, ann.delivered, ann.failed); err != nil {
		log.Warn().Err(err).Msg("Failed to publish spawn announced event")
	}

	log.Info().
		Int("audience", ann.audience).
		Int("delivered", ann.delivered).
		Int("failed", ann.failed).
		Msg("Alerted subscribers about spawn")
}

func (a *Announcer) deliver(ctx context.Context, userID, text, mediaRef string) error {
	if mediaRef != "" {
		return a.sender.SendMessageWithMedia(ctx, userID, text, mediaRef)
	}
	return a.sender.SendMessage(ctx, userID, text)
}

// FormatSpawnMessage builds the notification text for a spawn
func FormatSpawnMessage(pokemon, channelName string) string {
	if channelName != "" {
		return fmt.Sprintf("%s has spawned in %s!", pokemon, channelName)
	}
	return fmt.Sprintf("%s has spawned!", pokemon)
}
