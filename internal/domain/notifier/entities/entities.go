// Package entities contains domain entities
package entities

import (
	"strings"
	"time"
)

// NoGuild is the guild id of a private chat or of a chat whose guild could not
// be resolved. It is a partition of its own, never a wildcard.
const NoGuild = "0"

// HasGuild reports whether guildID names a real guild
func HasGuild(guildID string) bool {
	return guildID != "" && guildID != NoGuild
}

// NormalizePokemon returns the canonical stored form of a pokemon name
func NormalizePokemon(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Subscription is a single (user, guild, pokemon) fact.
// The table has no uniqueness constraint, repeated rows are allowed.
type Subscription struct {
	UserID  string `gorm:"column:user_id"`
	GuildID string `gorm:"column:guild_id"`
	Pokemon string `gorm:"column:pokemon"`
}

func (Subscription) TableName() string {
	return "subscription"
}

// BlacklistEntry blocks a user name from announcing spawns
type BlacklistEntry struct {
	UserName string `gorm:"column:user_name"`
}

func (BlacklistEntry) TableName() string {
	return "blacklist"
}

// GuildStats aggregates the subscriptions of one guild
type GuildStats struct {
	Trainers           int64 `gorm:"column:trainers"`
	Pokemon            int64 `gorm:"column:pokemon"`
	TotalSubscriptions int64 `gorm:"column:total_subs"`
}

// Spawn describes an announced spawn
type Spawn struct {
	ID          string
	UserID      string
	UserName    string
	GuildID     string
	ChannelID   string
	ChannelName string
	Pokemon     string
	MediaRef    string
	Delay       time.Duration
	CreatedAt   time.Time
}
