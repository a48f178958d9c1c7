// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The DDL below is kept to the subset both PostgreSQL and SQLite accept:
// no NOW() defaults (timestamps are set by the application) and no
// driver-specific column types.
const schema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Options (ordered by idx within a poll)
CREATE TABLE IF NOT EXISTS option (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (poll_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_option_poll_id ON option(poll_id);

-- Votes: the primary key is the one-vote-per-voter-per-poll constraint.
-- Duplicate prevention lives here, in the storage layer, so concurrent
-- inserts for the same (poll_id, voter_token) can never both succeed.
CREATE TABLE IF NOT EXISTS vote (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    option_idx INTEGER NOT NULL,
    voter_token TEXT NOT NULL,
    voter_ip TEXT,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (poll_id, voter_token)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_id ON vote(poll_id);
`
