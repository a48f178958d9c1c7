// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types shared by
the engine and the HTTP layer.

Everything here is plain data. The engine packages accept and return
these types so that no transport-specific types (http.Request, websocket
connections) leak into the core.

# Domain Types

  - Poll: question plus an ordered list of 2-6 option labels, immutable
    after creation
  - Vote: one accepted vote; the voter token and IP are never serialized
  - Tally: derived per-option counts plus total, always recomputable
    from the vote ledger
  - TallyUpdate: the snapshot broadcast to live subscribers of a poll

# Wire Types

Request/response structs mirror the public API:

	POST /api/polls          CreatePollRequest  -> CreatePollResponse
	GET  /api/polls/{id}     -                  -> PollResponse
	POST /api/polls/{id}/vote CastVoteRequest   -> CastVoteResponse

CastVoteRequest.OptionIndex is a pointer: a missing index must be
rejected, and index 0 is a valid vote.
*/
package models
