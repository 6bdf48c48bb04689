// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/internal/domain/notifier/entities"
	pkgerrors "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/pkg/errors"
)

// RequestTimeout bounds every Telegram API call
const RequestTimeout = 30 * time.Second

// Bot wraps the Telegram bot for infrastructure layer.
// It implements deps.Sender and deps.GuildResolver.
type Bot struct {
	bot    *tgbot.Bot
	logger zerolog.Logger
}

// NewBot creates a new Telegram bot wrapper
func NewBot(token string, logger zerolog.Logger, opts ...tgbot.Option) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info().Msg("Telegram bot created successfully")

	return &Bot{
		bot:    bot,
		logger: logger.With().Str("component", "telegram").Logger(),
	}, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// Start starts the bot (blocking call)
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting Telegram bot...")
	b.bot.Start(ctx)
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() error {
	b.logger.Info().Msg("Stopping Telegram bot...")
	return nil
}

// SendMessage sends a text message to chatID
func (b *Bot) SendMessage(ctx context.Context, chatID, text string) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err = b.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID: id,
		Text:   text,
	})
	if err != nil {
		b.logger.Debug().Err(err).Int64("chat_id", id).Msg("Failed to send message")
		return pkgerrors.NewDeliveryError("failed to send message", err)
	}

	return nil
}

// SendMessageWithMedia sends a photo with text as its caption. mediaRef is a
// Telegram file id, so the photo is not uploaded again.
func (b *Bot) SendMessageWithMedia(ctx context.Context, chatID, text, mediaRef string) error {
	if mediaRef == "" {
		return b.SendMessage(ctx, chatID, text)
	}

	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err = b.bot.SendPhoto(msgCtx, &tgbot.SendPhotoParams{
		ChatID:  id,
		Photo:   &models.InputFileString{Data: mediaRef},
		Caption: text,
	})
	if err != nil {
		b.logger.Debug().Err(err).Int64("chat_id", id).Msg("Failed to send photo")
		return pkgerrors.NewDeliveryError("failed to send photo", err)
	}

	return nil
}

// ResolveGuild maps a chat to its guild. Groups and supergroups are their own
// guild; private chats, channels and lookup failures have none.
func (b *Bot) ResolveGuild(ctx context.Context, channelID string) string {
	id, err := parseChatID(channelID)
	if err != nil {
		return entities.NoGuild
	}

	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	chat, err := b.bot.GetChat(reqCtx, &tgbot.GetChatParams{ChatID: id})
	if err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", id).Msg("Failed to resolve chat")
		return entities.NoGuild
	}

	return GuildOf(chat.ID, chat.Type)
}

// GuildOf returns the guild id of a chat of the given type
func GuildOf(chatID int64, chatType models.ChatType) string {
	switch chatType {
	case models.ChatTypeGroup, models.ChatTypeSupergroup:
		return strconv.FormatInt(chatID, 10)
	default:
		return entities.NoGuild
	}
}

func parseChatID(chatID string) (int64, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return 0, pkgerrors.NewDeliveryError("invalid chat id "+strconv.Quote(chatID), err)
	}
	return id, nil
}
