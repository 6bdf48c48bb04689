// Package telegram contains Telegram delivery layer
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/config"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/deps"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/dto"
	notifiererrors "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/errors"
	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/infrastructure/metrics"
	pkgerrors "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/pkg/errors"
)

const genericFailureMessage = "Something went wrong, please try again later."

// Handler handles one command invocation
type Handler interface {
	Handle(ctx context.Context, inv *dto.Invocation) error
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, inv *dto.Invocation) error

func (f HandlerFunc) Handle(ctx context.Context, inv *dto.Invocation) error {
	return f(ctx, inv)
}

// Router dispatches prefixed messages to command handlers.
// The command table is fixed once the router is built.
type Router struct {
	prefix  string
	routes  map[string]Handler
	sender  deps.Sender
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(
	cfg *config.NotifierConfig,
	handlers *Handlers,
	sender deps.Sender,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Router {
	return &Router{
		prefix: cfg.CommandPrefix,
		routes: map[string]Handler{
			"ping":      HandlerFunc(handlers.HandlePing),
			"sub":       HandlerFunc(handlers.HandleSub),
			"spawn":     HandlerFunc(handlers.HandleSpawn),
			"stats":     HandlerFunc(handlers.HandleStats),
			"blacklist": HandlerFunc(handlers.HandleBlacklist),
			"help":      HandlerFunc(handlers.HandleHelp),
		},
		sender:  sender,
		metrics: m,
		logger:  logger.With().Str("component", "router").Logger(),
	}
}

// RegisterRoutes registers the router on the bot. Photo captions are matched
// too, so the handler is registered with a match func.
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandlerMatchFunc(r.Matches, r.HandleUpdate)
	r.logger.Info().Str("prefix", r.prefix).Int("commands", len(r.routes)).Msg("Telegram command handlers registered")
}

// Matches reports whether update carries a prefixed command
func (r *Router) Matches(update *models.Update) bool {
	_, ok := ParseInvocation(r.prefix, update.Message)
	return ok
}

// HandleUpdate is the tgbot handler for matched updates
func (r *Router) HandleUpdate(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	inv, ok := ParseInvocation(r.prefix, update.Message)
	if !ok {
		return
	}
	r.Dispatch(ctx, inv)
}

// Dispatch runs the handler of inv.Command and turns its error into a reply
func (r *Router) Dispatch(ctx context.Context, inv *dto.Invocation) {
	log := r.logger.With().
		Str("user_id", inv.UserID).
		Str("channel_id", inv.ChannelID).
		Str("command", inv.Command).
		Logger()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Command handler panicked")
			r.metrics.RecordCommandError(inv.Command, "panic")
		}
	}()

	handler, ok := r.routes[inv.Command]
	if !ok {
		r.metrics.RecordCommand("unknown")
		log.Debug().Msg("Unknown command")
		r.send(ctx, log, inv.ChannelID, fmt.Sprintf("Unknown command: %s. Use %shelp to see available commands.", inv.Command, r.prefix))
		return
	}

	r.metrics.RecordCommand(inv.Command)
	log.Info().Strs("args", inv.Args).Msg("Command detected")

	if err := handler.Handle(ctx, inv); err != nil {
		r.handleError(ctx, log, inv, err)
	}
}

func (r *Router) handleError(ctx context.Context, log zerolog.Logger, inv *dto.Invocation, err error) {
	errType := "unknown"
	if t, ok := pkgerrors.TypeOf(err); ok {
		errType = t.String()
	}
	r.metrics.RecordCommandError(inv.Command, errType)

	var reply *replyError
	switch {
	case errors.As(err, &reply):
		log.Error().Err(reply.err).Msg(reply.msg)
		target := inv.ChannelID
		if reply.direct {
			target = inv.UserID
		}
		r.send(ctx, log, target, reply.msg)

	case errors.Is(err, notifiererrors.ErrAdminOnly):
		log.Debug().Msg("Ignoring admin command from non-admin")

	case pkgerrors.IsContextError(err):
		r.send(ctx, log, inv.UserID, messageOf(err))

	case pkgerrors.IsUsageError(err), pkgerrors.IsAuthorizationError(err):
		r.send(ctx, log, inv.ChannelID, messageOf(err))

	default:
		log.Error().Err(err).Msg("Command failed")
		r.send(ctx, log, inv.ChannelID, genericFailureMessage)
	}
}

func (r *Router) send(ctx context.Context, log zerolog.Logger, chatID, text string) {
	if err := r.sender.SendMessage(ctx, chatID, text); err != nil {
		log.Warn().Err(err).Str("chat_id", chatID).Msg("Failed to send reply")
	}
}

// ParseInvocation extracts a command from a message text or photo caption.
// Only the command name is lower-cased; arguments keep their case.
func ParseInvocation(prefix string, msg *models.Message) (*dto.Invocation, bool) {
	if msg == nil || msg.From == nil || prefix == "" {
		return nil, false
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	text = strings.TrimSpace(text)

	if len(text) < len(prefix) || !strings.EqualFold(text[:len(prefix)], prefix) {
		return nil, false
	}

	fields := strings.Fields(text[len(prefix):])
	if len(fields) == 0 {
		return nil, false
	}

	// "/sub@my_bot" addresses a specific bot in a group
	command := strings.ToLower(fields[0])
	if i := strings.IndexByte(command, '@'); i >= 0 {
		command = command[:i]
	}

	return &dto.Invocation{
		UserID:      strconv.FormatInt(msg.From.ID, 10),
		UserName:    msg.From.Username,
		ChannelID:   strconv.FormatInt(msg.Chat.ID, 10),
		ChannelName: msg.Chat.Title,
		Command:     command,
		Args:        fields[1:],
		MediaRef:    largestPhoto(msg.Photo),
	}, true
}

func largestPhoto(sizes []models.PhotoSize) string {
	var (
		best string
		area int
	)
	for _, size := range sizes {
		if a := size.Width * size.Height; best == "" || a > area {
			best, area = size.FileID, a
		}
	}
	return best
}

// replyError carries the user-facing text of a failed command.
// direct replies go to the caller instead of the channel.
type replyError struct {
	msg    string
	direct bool
	err    error
}

func (e *replyError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *replyError) Unwrap() error {
	return e.err
}

func messageOf(err error) string {
	var m interface{ Message() string }
	if errors.As(err, &m) {
		return m.Message()
	}
	return genericFailureMessage
}
