// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/danielhkuo/ldr-counter/db"
)

// CounterStore is a durable, atomically incremented integer per counter ID
type CounterStore struct {
	db *sql.DB
}

func NewCounterStore(conn *sql.DB) *CounterStore {
	return &CounterStore{db: conn}
}

// Init creates the counter at zero if it does not exist. Never resets it.
func (s *CounterStore) Init(ctx context.Context, counterID string) error {
	if _, err := s.db.ExecContext(ctx, db.SeedCounter, counterID); err != nil {
		return unavailable("init counter", err)
	}
	return nil
}

// Increment adds one and returns the new value in a single statement.
// A missing row is created with count 1.
func (s *CounterStore) Increment(ctx context.Context, counterID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO counters (id, count)
		VALUES ($1, 1)
		ON CONFLICT (id) DO UPDATE SET count = counters.count + 1
		RETURNING count
	`, counterID).Scan(&count)
	if err != nil {
		return 0, unavailable("increment counter", err)
	}
	return count, nil
}

// Read returns the latest committed value, or 0 if the counter was never created
func (s *CounterStore) Read(ctx context.Context, counterID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT count FROM counters WHERE id = $1
	`, counterID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("read counter", err)
	}
	return count, nil
}
