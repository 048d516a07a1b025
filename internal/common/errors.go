// Package common defines shared sentinel errors used across the cache,
// scheduler, remote and session layers of schedkeeper. Callers should use
// errors.Is / errors.As to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound   = errors.New("not found")
	ErrTypeMismatch = errors.New("type mismatch: payload is not a well-formed schedule")

	// Weekday parsing.
	ErrInvalidWeekDay = errors.New("invalid week day")

	// Remote store failures (network, auth, quota). Never retried automatically.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// Session-level errors.
	ErrorUnauthorized   = errors.New("unauthorized")
	ErrPasswordMismatch = errors.New("passwords do not match")

	// Token errors (invalid, malformed or expired session token).
	ErrInvalidToken = errors.New("invalid token")
)
