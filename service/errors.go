// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"errors"
	"time"
)

var (
	ErrAlreadyParticipated = errors.New("already participated recently")
	ErrAlreadySubmitted    = errors.New("already submitted a response recently")
	ErrValidation          = errors.New("invalid submission")
	ErrStoreUnavailable    = errors.New("storage unavailable")
)

// CooldownError is returned when the identity acted within the cooldown window
type CooldownError struct {
	Err     error
	RetryAt time.Time
}

func (e *CooldownError) Error() string {
	return e.Err.Error() + " (retry after " + e.RetryAt.UTC().Format(time.RFC3339) + ")"
}

func (e *CooldownError) Unwrap() error { return e.Err }

// ValidationError describes a rejected field. Matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
