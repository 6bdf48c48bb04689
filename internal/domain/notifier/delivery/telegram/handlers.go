package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/config"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/consts"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/deps"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/dto"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/entities"
	notifiererrors "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/errors"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/usecase/business"
	pkgerrors "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/pkg/errors"
)

// Handlers contains Telegram command handlers
type Handlers struct {
	store     *business.SubscriptionStore
	gate      *business.BlacklistGate
	announcer *business.Announcer
	resolver  deps.GuildResolver
	sender    deps.Sender
	cfg       *config.NotifierConfig
	logger    zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(
	store *business.SubscriptionStore,
	gate *business.BlacklistGate,
	announcer *business.Announcer,
	resolver deps.GuildResolver,
	sender deps.Sender,
	cfg *config.NotifierConfig,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		store:     store,
		gate:      gate,
		announcer: announcer,
		resolver:  resolver,
		sender:    sender,
		cfg:       cfg,
		logger:    logger.With().Str("component", "handlers").Logger(),
	}
}

// HandlePing handles the ping command
func (h *Handlers) HandlePing(ctx context.Context, inv *dto.Invocation) error {
	return h.sender.SendMessage(ctx, inv.ChannelID, "Pong!")
}

// HandleSub handles sub add|remove|list
func (h *Handlers) HandleSub(ctx context.Context, inv *dto.Invocation) error {
	action := strings.ToLower(inv.Arg(0))
	if action == "" {
		return notifiererrors.ErrInvalidUsage
	}

	guildID := h.resolver.ResolveGuild(ctx, inv.ChannelID)
	if !entities.HasGuild(guildID) {
		return notifiererrors.ErrNoGuild
	}

	switch action {
	case consts.SubActionAdd:
		return h.subAdd(ctx, inv, guildID)
	case consts.SubActionRemove:
		return h.subRemove(ctx, inv, guildID)
	case consts.SubActionList:
		return h.subList(ctx, inv, guildID)
	default:
		return notifiererrors.ErrInvalidUsage
	}
}

func (h *Handlers) subAdd(ctx context.Context, inv *dto.Invocation, guildID string) error {
	if inv.Arg(1) == "" {
		return notifiererrors.ErrInvalidUsage
	}

	pokemon, err := h.store.Subscribe(ctx, inv.UserID, guildID, inv.Arg(1))
	if err != nil {
		if pkgerrors.IsPersistenceError(err) {
			return &replyError{msg: "Failed to subscribe you to " + entities.NormalizePokemon(inv.Arg(1)), direct: true, err: err}
		}
		return err
	}

	return h.sender.SendMessage(ctx, inv.UserID, "You are now subscribed to "+pokemon)
}

func (h *Handlers) subRemove(ctx context.Context, inv *dto.Invocation, guildID string) error {
	if inv.Arg(1) == "" {
		return notifiererrors.ErrInvalidUsage
	}

	pokemon, err := h.store.Unsubscribe(ctx, inv.UserID, guildID, inv.Arg(1))
	if err != nil {
		if pkgerrors.IsPersistenceError(err) {
			return &replyError{msg: "Failed to unsubscribe you from " + entities.NormalizePokemon(inv.Arg(1)), direct: true, err: err}
		}
		return err
	}

	return h.sender.SendMessage(ctx, inv.UserID, "You are no longer subscribed to "+pokemon)
}

func (h *Handlers) subList(ctx context.Context, inv *dto.Invocation, guildID string) error {
	pokemon, err := h.store.ListSubscriptions(ctx, inv.UserID, guildID)
	if err != nil {
		if pkgerrors.IsPersistenceError(err) {
			return &replyError{msg: "Failed to get your subscriptions", direct: true, err: err}
		}
		return err
	}

	if len(pokemon) == 0 {
		return h.sender.SendMessage(ctx, inv.UserID, "You are not subscribed to any pokemon yet")
	}
	return h.sender.SendMessage(ctx, inv.UserID, "You are subscribed to "+strings.Join(pokemon, ", "))
}

// HandleSpawn handles spawn <pokemon>. The fan-out runs after the configured
// delay; the command returns once it is scheduled.
func (h *Handlers) HandleSpawn(ctx context.Context, inv *dto.Invocation) error {
	if inv.Arg(0) == "" {
		return notifiererrors.ErrPokemonRequired
	}

	ann, err := h.announcer.Announce(ctx, &dto.AnnounceRequest{
		UserID:      inv.UserID,
		UserName:    inv.UserName,
		GuildID:     h.resolver.ResolveGuild(ctx, inv.ChannelID),
		ChannelID:   inv.ChannelID,
		ChannelName: inv.ChannelName,
		Pokemon:     inv.Arg(0),
		MediaRef:    inv.MediaRef,
		Delay:       h.cfg.SpawnDelay,
	})
	if err != nil {
		if pkgerrors.IsPersistenceError(err) {
			return &replyError{msg: "Failed to send out alerts for " + entities.NormalizePokemon(inv.Arg(0)), err: err}
		}
		return err
	}

	return h.sender.SendMessage(ctx, inv.ChannelID, "Sent out alerts for "+ann.Spawn.Pokemon)
}

// HandleStats handles stats
func (h *Handlers) HandleStats(ctx context.Context, inv *dto.Invocation) error {
	guildID := h.resolver.ResolveGuild(ctx, inv.ChannelID)
	if !entities.HasGuild(guildID) {
		return notifiererrors.ErrNoGuild
	}

	stats, err := h.store.GuildStats(ctx, guildID)
	if err != nil {
		return &replyError{msg: "Failed to get stats for this group", direct: true, err: err}
	}

	return h.sender.SendMessage(ctx, inv.UserID, FormatStats(stats))
}

// HandleBlacklist handles blacklist view|add|remove. Non-admins get no reply.
func (h *Handlers) HandleBlacklist(ctx context.Context, inv *dto.Invocation) error {
	if !h.isAdmin(inv) {
		return notifiererrors.ErrAdminOnly
	}

	switch strings.ToLower(inv.Arg(0)) {
	case consts.BlacklistActionView:
		names, err := h.gate.ListBlocked(ctx)
		if err != nil {
			return &replyError{msg: "Failed to get the blacklist", direct: true, err: err}
		}
		if len(names) == 0 {
			return h.sender.SendMessage(ctx, inv.UserID, "The blacklist is empty")
		}
		return h.sender.SendMessage(ctx, inv.UserID, "Blacklisted users: "+strings.Join(names, ", "))

	case consts.BlacklistActionAdd:
		names := blacklistNames(inv.Args[1:])
		if len(names) == 0 {
			return notifiererrors.ErrNameRequired
		}
		for _, name := range names {
			if err := h.gate.Block(ctx, name); err != nil {
				return &replyError{msg: "Failed to update the blacklist", err: err}
			}
		}
		return h.sender.SendMessage(ctx, inv.ChannelID, "Added to the blacklist: "+strings.Join(names, ", "))

	case consts.BlacklistActionRemove:
		names := blacklistNames(inv.Args[1:])
		if len(names) == 0 {
			return notifiererrors.ErrNameRequired
		}
		for _, name := range names {
			if err := h.gate.Unblock(ctx, name); err != nil {
				return &replyError{msg: "Failed to update the blacklist", err: err}
			}
		}
		return h.sender.SendMessage(ctx, inv.ChannelID, "Removed from the blacklist: "+strings.Join(names, ", "))

	default:
		return notifiererrors.ErrInvalidUsage
	}
}

// HandleHelp handles help
func (h *Handlers) HandleHelp(ctx context.Context, inv *dto.Invocation) error {
	return h.sender.SendMessage(ctx, inv.ChannelID, FormatHelp(h.cfg.CommandPrefix))
}

// isAdmin matches the caller id exactly and the handle case-insensitively
func (h *Handlers) isAdmin(inv *dto.Invocation) bool {
	for _, admin := range h.cfg.AdminUsers {
		if admin == inv.UserID {
			return true
		}
		if inv.UserName != "" && strings.EqualFold(strings.TrimPrefix(admin, "@"), inv.UserName) {
			return true
		}
	}
	return false
}

// blacklistNames drops the mention marker so "@name" and "name" are one entry
func blacklistNames(args []string) []string {
	names := make([]string, 0, len(args))
	for _, arg := range args {
		if name := strings.TrimPrefix(arg, "@"); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// FormatStats renders guild statistics
func FormatStats(stats *entities.GuildStats) string {
	return fmt.Sprintf(
		"On this server, %d trainers are subscribed to %d different pokemon for a total of %d subscriptions.",
		stats.Trainers, stats.Pokemon, stats.TotalSubscriptions,
	)
}

// FormatHelp lists every visible command with prefix
func FormatHelp(prefix string) string {
	var sb strings.Builder
	sb.WriteString("Available commands:")
	for _, cmd := range consts.AllCommands {
		if cmd.Hidden {
			continue
		}
		fmt.Fprintf(&sb, "\n%s%s: %s", prefix, cmd.Usage, cmd.Description)
	}
	return sb.String()
}
