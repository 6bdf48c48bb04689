package telegram

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(text string) *models.Message {
	return &models.Message{
		Text: text,
		From: &models.User{ID: 42, Username: "ash"},
		Chat: models.Chat{ID: -1001, Type: models.ChatTypeSupergroup, Title: "Pallet Town"},
	}
}

func TestParseInvocation(t *testing.T) {
	inv, ok := ParseInvocation("p!", message("P!SUB add Pikachu"))
	require.True(t, ok)

	assert.Equal(t, "sub", inv.Command)
	assert.Equal(t, []string{"add", "Pikachu"}, inv.Args)
	assert.Equal(t, "42", inv.UserID)
	assert.Equal(t, "ash", inv.UserName)
	assert.Equal(t, "-1001", inv.ChannelID)
	assert.Equal(t, "Pallet Town", inv.ChannelName)
	assert.Empty(t, inv.MediaRef)
}

func TestParseInvocation_NotACommand(t *testing.T) {
	for _, text := range []string{"", "hello", "p!", "p!   ", "sub add pikachu"} {
		_, ok := ParseInvocation("p!", message(text))
		assert.False(t, ok, text)
	}

	_, ok := ParseInvocation("p!", nil)
	assert.False(t, ok)

	msg := message("p!ping")
	msg.From = nil
	_, ok = ParseInvocation("p!", msg)
	assert.False(t, ok)
}

func TestParseInvocation_StripsBotMention(t *testing.T) {
	inv, ok := ParseInvocation("/", message("/spawn@spawn_bot mew"))
	require.True(t, ok)
	assert.Equal(t, "spawn", inv.Command)
	assert.Equal(t, []string{"mew"}, inv.Args)
}

func TestParseInvocation_PhotoCaption(t *testing.T) {
	msg := message("")
	msg.Caption = "p!spawn eevee"
	msg.Photo = []models.PhotoSize{
		{FileID: "small", Width: 90, Height: 90},
		{FileID: "large", Width: 1280, Height: 960},
		{FileID: "medium", Width: 320, Height: 240},
	}

	inv, ok := ParseInvocation("p!", msg)
	require.True(t, ok)
	assert.Equal(t, "spawn", inv.Command)
	assert.Equal(t, "large", inv.MediaRef)
}

func TestRouter_Matches(t *testing.T) {
	h := newHarness(t)

	assert.True(t, h.router.Matches(&models.Update{Message: message("p!ping")}))
	assert.False(t, h.router.Matches(&models.Update{Message: message("ping")}))
	assert.False(t, h.router.Matches(&models.Update{}))
}

func TestRouter_UnknownCommand(t *testing.T) {
	h := newHarness(t)

	h.run(t, "42", "ash", channelOne, "dance")

	assert.Equal(t, []string{"Unknown command: dance. Use p!help to see available commands."}, h.sender.to(channelOne))
}

func TestRouter_Ping(t *testing.T) {
	h := newHarness(t)

	h.run(t, "42", "ash", channelOne, "ping")

	assert.Equal(t, []string{"Pong!"}, h.sender.to(channelOne))
}

func TestRouter_Help(t *testing.T) {
	h := newHarness(t)

	h.run(t, "42", "ash", channelOne, "help")

	replies := h.sender.to(channelOne)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "p!sub add <pokemon>")
	assert.Contains(t, replies[0], "p!spawn <pokemon>")
	assert.NotContains(t, replies[0], "blacklist")
}
