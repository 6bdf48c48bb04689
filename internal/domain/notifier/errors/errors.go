// Package errors contains domain-specific errors for the notifier domain
package errors

import (
	pkgerrors "github.com/phroxenphyre/Pokemon-Go-Spawn-Notifier-Bot/pkg/errors"
)

// Domain errors for notifier operations
var (
	ErrPokemonRequired = pkgerrors.NewUsageError("Please specify a pokemon")
	ErrUserRequired    = pkgerrors.NewUsageError("user id is required")
	ErrNameRequired    = pkgerrors.NewUsageError("Please specify at least one user name")
	ErrInvalidUsage    = pkgerrors.NewUsageError("Invalid usage")
	ErrNoGuild         = pkgerrors.NewContextError("Subscriptions are connected to a group chat, which cannot be determined from a private chat. Please run this command from a group chat.")
	ErrAdminOnly       = pkgerrors.NewAuthorizationError("admin only command")
	ErrTriggerBlocked  = pkgerrors.NewAuthorizationError("You are not authorized to send out spawn alerts")
)
