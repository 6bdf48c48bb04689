// Package errors provides typed errors for the application
package errors

import (
	stderrors "errors"
)

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypePersistence ErrorType = iota
	ErrorTypeDelivery
	ErrorTypeAuthorization
	ErrorTypeUsage
	ErrorTypeContext
)

// String returns the label used in logs and metrics
func (t ErrorType) String() string {
	switch t {
	case ErrorTypePersistence:
		return "persistence"
	case ErrorTypeDelivery:
		return "delivery"
	case ErrorTypeAuthorization:
		return "authorization"
	case ErrorTypeUsage:
		return "usage"
	case ErrorTypeContext:
		return "context"
	default:
		return "unknown"
	}
}

// baseError is the base implementation for all error types
type baseError struct {
	msg   string
	cause error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// Message returns the message without the wrapped cause
func (e *baseError) Message() string {
	return e.msg
}

// PersistenceError represents a failed read or write against the store
type PersistenceError struct {
	baseError
}

// NewPersistenceError creates a new PersistenceError wrapping cause
func NewPersistenceError(msg string, cause error) *PersistenceError {
	return &PersistenceError{baseError{msg: msg, cause: cause}}
}

// DeliveryError represents an outbound message that could not be sent
type DeliveryError struct {
	baseError
}

// NewDeliveryError creates a new DeliveryError wrapping cause
func NewDeliveryError(msg string, cause error) *DeliveryError {
	return &DeliveryError{baseError{msg: msg, cause: cause}}
}

// AuthorizationError represents a caller not allowed to perform an action
type AuthorizationError struct {
	baseError
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(msg string) *AuthorizationError {
	return &AuthorizationError{baseError{msg: msg}}
}

// UsageError represents malformed or missing command arguments.
// The message is shown to the caller as is.
type UsageError struct {
	baseError
}

// NewUsageError creates a new UsageError
func NewUsageError(msg string) *UsageError {
	return &UsageError{baseError{msg: msg}}
}

// ContextError represents a guild-scoped command used outside a guild.
// The message is shown to the caller as is.
type ContextError struct {
	baseError
}

// NewContextError creates a new ContextError
func NewContextError(msg string) *ContextError {
	return &ContextError{baseError{msg: msg}}
}

// IsPersistenceError checks if err is or wraps a PersistenceError
func IsPersistenceError(err error) bool {
	var target *PersistenceError
	return stderrors.As(err, &target)
}

// IsDeliveryError checks if err is or wraps a DeliveryError
func IsDeliveryError(err error) bool {
	var target *DeliveryError
	return stderrors.As(err, &target)
}

// IsAuthorizationError checks if err is or wraps an AuthorizationError
func IsAuthorizationError(err error) bool {
	var target *AuthorizationError
	return stderrors.As(err, &target)
}

// IsUsageError checks if err is or wraps a UsageError
func IsUsageError(err error) bool {
	var target *UsageError
	return stderrors.As(err, &target)
}

// IsContextError checks if err is or wraps a ContextError
func IsContextError(err error) bool {
	var target *ContextError
	return stderrors.As(err, &target)
}

// TypeOf classifies err. ok is false for errors outside the taxonomy.
func TypeOf(err error) (t ErrorType, ok bool) {
	switch {
	case IsPersistenceError(err):
		return ErrorTypePersistence, true
	case IsDeliveryError(err):
		return ErrorTypeDelivery, true
	case IsAuthorizationError(err):
		return ErrorTypeAuthorization, true
	case IsUsageError(err):
		return ErrorTypeUsage, true
	case IsContextError(err):
		return ErrorTypeContext, true
	default:
		return 0, false
	}
}
