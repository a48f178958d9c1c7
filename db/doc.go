// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Drivers

Open selects the driver from configuration: lib/pq for PostgreSQL in
production, modernc.org/sqlite for local development and tests. All SQL
in the application sticks to $N placeholders and portable DDL so the
same queries run on both.

# Tables

  - poll: question and creation time
  - option: ordered option labels per poll
  - vote: one row per accepted vote

# Relationships

	poll 1──* option
	poll 1──* vote

The vote table's PRIMARY KEY (poll_id, voter_token) is the duplicate
vote guard. It is enforced by the database, not by application code, so
a race between two requests carrying the same token produces exactly one
accepted vote.
*/
package db
