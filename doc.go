// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the applyo API server.

Applyo is an anonymous polling service: create a poll with 2-6 options,
share the link, and watch votes arrive live. Each browser session may
vote once per poll, tracked by an opaque session token.

# Starting the Server

The server runs on sqlite out of the box:

	go run main.go

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run main.go

# Configuration

  - PORT (-p): server port (default: 3000)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): connection string / sqlite file path
  - BASE_URL (-b): frontend base URL for share links

A .env file in the working directory is loaded on startup.

# Architecture

The engine package holds the core - vote ledger, tally cache, broadcast
hub, and the orchestrating poll service - behind plain-data types. The
HTTP layer around it:

  - handlers: REST endpoints plus the websocket tally stream
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - session: voter identity tokens
  - db: driver selection and schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
