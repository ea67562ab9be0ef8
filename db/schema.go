// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

// Open connects to the configured database and tunes the pool for its driver.
// SQLite gets a busy timeout and a single connection so writers serialize.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case DatabasePostgres:
		conn, err := sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		conn.SetMaxOpenConns(20)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxIdleTime(5 * time.Minute)
		return conn, nil

	case DatabaseSQLite:
		conn, err := sql.Open("sqlite", sqliteDSN(url))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		conn.SetMaxOpenConns(1)
		return conn, nil
	}

	return nil, fmt.Errorf("unsupported database type %q", dbType)
}

func sqliteDSN(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// CreateSchema creates all tables needed for the application and seeds the counter.
// Safe to call multiple times - uses IF NOT EXISTS and ON CONFLICT DO NOTHING.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// SeedCounter is shared with store.CounterStore.Init
const SeedCounter = `
INSERT INTO counters (id, count)
VALUES ($1, 0)
ON CONFLICT (id) DO NOTHING`

// Timestamps are unix milliseconds so both drivers compare them as integers.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS counters (
    id TEXT PRIMARY KEY,
    count BIGINT NOT NULL DEFAULT 0 CHECK (count >= 0)
)`,

	`INSERT INTO counters (id, count)
VALUES ('ldr-counter', 0)
ON CONFLICT (id) DO NOTHING`,

	// One row per hashed identity
	`CREATE TABLE IF NOT EXISTS submission (
    identity TEXT PRIMARY KEY,
    last_action_at BIGINT NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS story (
    id TEXT PRIMARY KEY,
    prompt TEXT NOT NULL CHECK (prompt IN ('meaning', 'memorable', 'challenges', 'connection', 'advice')),
    answer TEXT NOT NULL,
    submitted_at BIGINT NOT NULL,
    approved BOOLEAN NOT NULL DEFAULT TRUE
)`,

	`CREATE INDEX IF NOT EXISTS idx_story_feed ON story(approved, submitted_at)`,
}
