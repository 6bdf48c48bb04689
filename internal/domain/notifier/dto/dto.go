// Package dto contains data transfer objects for the notifier domain
package dto

import "time"

// Invocation is a parsed inbound command together with its caller context
type Invocation struct {
	UserID      string
	UserName    string
	ChannelID   string
	ChannelName string
	// Command is the lower-cased command name without prefix
	Command string
	// Args are the whitespace separated tokens after the command, case preserved
	Args []string
	// MediaRef references media attached to the inbound message, if any
	MediaRef string
}

// Arg returns the i-th argument or an empty string
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// AnnounceRequest represents a request to fan out a spawn notification
type AnnounceRequest struct {
	UserID      string
	UserName    string
	GuildID     string
	ChannelID   string
	ChannelName string
	Pokemon     string
	MediaRef    string
	// Delay is waited before the audience is resolved
	Delay time.Duration
}
