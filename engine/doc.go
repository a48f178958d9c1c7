// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine is the vote aggregation and realtime distribution core.

# Components

  - VoteLedger: durable polls and votes over database/sql; the vote
    table's primary key makes duplicate prevention atomic
  - TallyCache: in-memory per-poll counts, lazily seeded from the
    ledger, incremented once per accepted vote
  - BroadcastHub: per-poll subscriber registry; at most one subscription
    per connection; ordered, best-effort snapshot delivery
  - PollService: orchestration and validation, with per-poll serialized
    mutation

# Data Flow

	castVote -> identity (session token, minted if absent)
	         -> VoteLedger.Append        (duplicate check + insert, atomic)
	         -> TallyCache.Update        (new snapshot)
	         -> BroadcastHub.Publish     (fan-out to subscribers)

The read path (Get) touches only the ledger and the cache and runs
concurrently with votes on other polls.

# Invariants

At most one vote per (poll, voter identity). sum(Tally.Counts) ==
Tally.Total == number of ledger votes for the poll. A subscriber that
receives a snapshot reading the cache afterwards sees counts >= that
snapshot. Broadcast failures to individual connections are logged and
dropped, never surfaced to the voter.

Everything here speaks plain data from the models package; no HTTP or
websocket types appear in this package.
*/
package engine
