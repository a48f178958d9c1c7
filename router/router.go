// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/applyo/applyo/cliparse"
	"github.com/applyo/applyo/engine"
	"github.com/applyo/applyo/handlers"
	"github.com/applyo/applyo/middleware"
)

func NewRouter(svc *engine.PollService, hub *engine.BroadcastHub, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	pollHandler := handlers.NewPollHandler(svc, cfg)
	votingHandler := handlers.NewVotingHandler(svc)
	liveHandler := handlers.NewLiveHandler(svc, hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll management and reads
	mux.HandleFunc("POST /api/polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /api/polls/{id}", middleware.WithLogging(pollHandler.GetPoll))

	// Voting
	mux.HandleFunc("POST /api/polls/{id}/vote", middleware.WithLogging(votingHandler.CastVote))

	// Live tally stream (long-lived, logs its own lifecycle)
	mux.HandleFunc("GET /api/polls/live", liveHandler.Live)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("applyo API v1"))
	})

	return mux
}
