// Package common defines shared constants and sentinel errors used across
// client and server layers of Lumen. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal   = errors.New("internal error")
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrUnauthorized      = errors.New("unauthorized")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrTooManyRequests   = errors.New("too many requests")

	// Side-quest errors.
	ErrIncorrectAnswer       = errors.New("incorrect answer")
	ErrQuestNotEnabled       = errors.New("side quest not enabled")
	ErrUnknownQuest          = errors.New("unknown side quest")
	ErrIncorrectHardPassword = errors.New("incorrect hard password")
)
