// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP and websocket endpoints.

Handlers are thin: they parse and validate transport-level input, call
into engine.PollService, and map the engine's typed errors onto HTTP
status codes:

  - ValidationError        -> 400
  - ErrOptionOutOfRange    -> 400
  - ErrPollNotFound        -> 404
  - ErrDuplicateVote       -> 409 (with the session id echoed, since
    "already voted" is an expected outcome the client must keep its
    token through)
  - anything else          -> 500, logged, details withheld

The live endpoint upgrades to a websocket and bridges the connection to
engine.BroadcastHub: a reader goroutine drives the join/leave state
machine, a forwarder drains the hub's update channel, a writer owns all
outbound frames, and a pinger enforces liveness.
*/
package handlers
