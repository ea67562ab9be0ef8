// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Reservation is the outcome of Ledger.CheckAndReserve
type Reservation struct {
	Allowed bool
	// RetryNotBefore is set when Allowed is false
	RetryNotBefore time.Time
}

// Ledger records the last qualifying action per identity
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

func NewLedger(conn *sql.DB) *Ledger {
	return &Ledger{db: conn, now: time.Now}
}

// WithClock replaces the ledger's time source
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// CheckAndReserve atomically reserves identity unless it acted within cooldown.
// The insert-or-refresh is one statement: the conflict update only fires when the
// stored timestamp is at or before now-cooldown, and RETURNING yields a row only
// when the reservation was made. A denial does not write.
func (l *Ledger) CheckAndReserve(ctx context.Context, identity string, cooldown time.Duration) (Reservation, error) {
	now := l.now()
	cutoff := now.Add(-cooldown)

	var reservedAt int64
	err := l.db.QueryRowContext(ctx, `
		INSERT INTO submission (identity, last_action_at)
		VALUES ($1, $2)
		ON CONFLICT (identity) DO UPDATE SET last_action_at = excluded.last_action_at
		WHERE submission.last_action_at <= $3
		RETURNING last_action_at
	`, identity, toMillis(now), toMillis(cutoff)).Scan(&reservedAt)

	if err == nil {
		return Reservation{Allowed: true}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Reservation{}, unavailable("reserve identity", err)
	}

	// Denied: look up when the window opens again
	var lastAction int64
	err = l.db.QueryRowContext(ctx, `
		SELECT last_action_at FROM submission WHERE identity = $1
	`, identity).Scan(&lastAction)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reservation{RetryNotBefore: now.Add(cooldown)}, nil
		}
		return Reservation{}, unavailable("read reservation", err)
	}

	return Reservation{RetryNotBefore: fromMillis(lastAction).Add(cooldown)}, nil
}
