// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database. dbType is "postgres" or
// "sqlite"; url is a PostgreSQL connection string or a SQLite file path.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case "postgres":
		conn, err := sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return conn, nil
	case "sqlite":
		conn, err := sql.Open("sqlite", url)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// SQLite allows a single writer; funneling everything through
		// one connection avoids SQLITE_BUSY under concurrent requests.
		conn.SetMaxOpenConns(1)
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", dbType)
	}
}
