// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/applyo/applyo/cliparse"
	"github.com/applyo/applyo/engine"
	"github.com/applyo/applyo/middleware"
	"github.com/applyo/applyo/models"
)

type PollHandler struct {
	svc *engine.PollService
	cfg cliparse.Config
}

func NewPollHandler(svc *engine.PollService, cfg cliparse.Config) *PollHandler {
	return &PollHandler{svc: svc, cfg: cfg}
}

// CreatePoll handles POST /api/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.svc.Create(req.Question, req.Options)
	if err != nil {
		if engine.IsValidation(err) {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to create poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:    poll.ID,
		ShareLink: h.cfg.BaseURL + "/poll/" + poll.ID,
	})
}

// GetPoll handles GET /api/polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	poll, tally, err := h.svc.Get(pollID)
	if err != nil {
		if errors.Is(err, engine.ErrPollNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
			return
		}
		slog.Error("failed to fetch poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch poll")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollResponse{
		ID:         poll.ID,
		Question:   poll.Question,
		Options:    poll.Options,
		Results:    models.ResultsFor(poll.Options, tally),
		TotalVotes: tally.Total,
	})
}
