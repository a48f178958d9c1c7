// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/applyo/applyo/engine"
	"github.com/applyo/applyo/middleware"
	"github.com/applyo/applyo/models"
)

type VotingHandler struct {
	svc *engine.PollService
}

func NewVotingHandler(svc *engine.PollService) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// CastVote handles POST /api/polls/{id}/vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OptionIndex == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_index is required")
		return
	}

	sourceAddr := middleware.GetClientIP(r)
	update, sessionID, err := h.svc.CastVote(pollID, *req.OptionIndex, req.SessionID, sourceAddr)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrDuplicateVote):
			// Expected outcome, not a failure. The session id goes back
			// so the client keeps its identity.
			middleware.JSONResponse(w, http.StatusConflict, models.ErrorResponse{
				Error:     http.StatusText(http.StatusConflict),
				Message:   "You have already voted",
				SessionID: sessionID,
			})
		case errors.Is(err, engine.ErrPollNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		case errors.Is(err, engine.ErrOptionOutOfRange):
			middleware.ErrorResponse(w, http.StatusBadRequest, "option_index is out of range")
		default:
			slog.Error("failed to submit vote", "error", err, "poll_id", pollID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		}
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Success:    true,
		SessionID:  sessionID,
		Results:    update.Results,
		TotalVotes: update.TotalVotes,
	})
}
