// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates its schema.

# Drivers

Open selects the driver from the configured database type:

  - postgres: github.com/lib/pq (production)
  - sqlite: modernc.org/sqlite (local development and tests)

The same SQL runs on both: $n placeholders, ON CONFLICT upserts and
RETURNING clauses.

# Schema Creation

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times. The ldr-counter row is inserted with
ON CONFLICT DO NOTHING, so an existing count is never reset.

# Tables

  - counters: the shared participation counter (one row)
  - submission: last qualifying action per hashed identity
  - story: published survey answers, unlinked from submitters

Timestamps are stored as unix milliseconds (BIGINT).
*/
package db
