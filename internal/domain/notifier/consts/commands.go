// Package consts contains constants for the notifier domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Usage       string
	Description string
	// Hidden commands are left out of help
	Hidden bool
}

// Bot commands
var (
	CommandPing      = Command{Name: "ping", Usage: "ping", Description: "Checks to see if the bot is running"}
	CommandSubAdd    = Command{Name: "sub", Usage: "sub add <pokemon>", Description: "Add a subscription for the specified <pokemon>. You will receive a confirmation DM."}
	CommandSubRemove = Command{Name: "sub", Usage: "sub remove <pokemon>", Description: "Removes a subscription for the specified <pokemon>. You will receive a confirmation DM."}
	CommandSubList   = Command{Name: "sub", Usage: "sub list", Description: "Sends a DM with a list of all pokemon you are subscribed to."}
	CommandSpawn     = Command{Name: "spawn", Usage: "spawn <pokemon>", Description: "Sends a DM to all people subscribed to the specified <pokemon> indicating that one has spawned. If sent as a caption on a photo, the photo will also be included in the DM."}
	CommandStats     = Command{Name: "stats", Usage: "stats", Description: "Sends a DM with subscription statistics for this group."}
	CommandBlacklist = Command{Name: "blacklist", Usage: "blacklist view|add <name...>|remove <name...>", Description: "Manages users that may not send out spawn alerts.", Hidden: true}
	CommandHelp      = Command{Name: "help", Usage: "help", Description: "Shows this message"}
)

// AllCommands lists commands in help order
var AllCommands = []Command{
	CommandPing,
	CommandSubAdd,
	CommandSubRemove,
	CommandSubList,
	CommandSpawn,
	CommandStats,
	CommandBlacklist,
	CommandHelp,
}

// Sub command actions
const (
	SubActionAdd    = "add"
	SubActionRemove = "remove"
	SubActionList   = "list"
)

// Blacklist command actions
const (
	BlacklistActionView   = "view"
	BlacklistActionAdd    = "add"
	BlacklistActionRemove = "remove"
)

// Event types published to Kafka
const (
	EventSubscriptionCreated = "subscription.created"
	EventSubscriptionDeleted = "subscription.deleted"
	EventSpawnAnnounced      = "spawn.announced"
)
