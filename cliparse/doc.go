// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment
variables. Flags win over environment; sensible defaults cover local
development (sqlite file database, port 3000).

	-p / PORT           server port
	-d / DATABASE_URL   postgres connection string or sqlite file path
	-t / DATABASE_TYPE  "sqlite" (default) or "postgres"
	-b / BASE_URL       frontend base URL used to build share links

A .env file, if present, is loaded by main before parsing.
*/
package cliparse
