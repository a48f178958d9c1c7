// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/applyo/applyo/models"
	"github.com/applyo/applyo/testutil"
)

func castVote(t *testing.T, handler *VotingHandler, pollID string, optionIdx int, sessionID string) *httptest.ResponseRecorder {
	t.Helper()

	req := testutil.MakeRequest("POST", "/api/polls/"+pollID+"/vote", models.CastVoteRequest{
		OptionIndex: &optionIdx,
		SessionID:   sessionID,
	}, nil)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	handler.CastVote(w, req)
	return w
}

func TestCastVoteMintsSession(t *testing.T) {
	svc, _, _, _ := testutil.NewTestEngine(t)
	handler := NewVotingHandler(svc)
	pollID := testutil.CreateTestPoll(t, svc, "Coffee or tea?", "Coffee", "Tea")

	w := castVote(t, handler, pollID, 0, "")
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CastVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Success {
		t.Error("Expected success")
	}
	if resp.SessionID == "" {
		t.Error("Expected a minted session_id in the response")
	}
	if resp.TotalVotes != 1 || resp.Results[0].Votes != 1 {
		t.Errorf("Unexpected results: %+v", resp)
	}
}

func TestCastVoteDuplicate(t *testing.T) {
	svc, _, _, _ := testutil.NewTestEngine(t)
	handler := NewVotingHandler(svc)
	pollID := testutil.CreateTestPoll(t, svc, "Coffee or tea?", "Coffee", "Tea")

	first := castVote(t, handler, pollID, 0, "")
	var firstResp models.CastVoteResponse
	testutil.AssertJSON(t, first, &firstResp)

	// Same session votes again: conflict, token echoed, tally untouched.
	second := castVote(t, handler, pollID, 1, firstResp.SessionID)
	testutil.AssertStatus(t, second, http.StatusConflict)

	var dupResp models.ErrorResponse
	testutil.AssertJSON(t, second, &dupResp)
	if dupResp.SessionID != firstResp.SessionID {
		t.Error("Duplicate response must echo the session id")
	}

	_, tally, err := svc.Get(pollID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if tally.Total != 1 {
		t.Errorf("Tally changed on duplicate vote: total=%d", tally.Total)
	}
}

func TestCastVoteValidation(t *testing.T) {
	svc, _, _, _ := testutil.NewTestEngine(t)
	handler := NewVotingHandler(svc)
	pollID := testutil.CreateTestPoll(t, svc, "Q?", "A", "B")

	t.Run("missing option index", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/polls/"+pollID+"/vote", models.CastVoteRequest{}, nil)
		req.SetPathValue("id", pollID)
		w := httptest.NewRecorder()
		handler.CastVote(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("option index out of range", func(t *testing.T) {
		w := castVote(t, handler, pollID, 9, "")
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown poll", func(t *testing.T) {
		w := castVote(t, handler, "nonexistent", 0, "")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestCastVoteRecordsSourceAddress(t *testing.T) {
	svc, ledger, _, _ := testutil.NewTestEngine(t)
	handler := NewVotingHandler(svc)
	pollID := testutil.CreateTestPoll(t, svc, "Q?", "A", "B")

	idx := 0
	req := testutil.MakeRequest("POST", "/api/polls/"+pollID+"/vote", models.CastVoteRequest{OptionIndex: &idx},
		map[string]string{"X-Forwarded-For": "203.0.113.50, 10.0.0.1"})
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	handler.CastVote(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// The advisory source address is stored, not used for rejection.
	tally, err := ledger.ReadTally(pollID)
	if err != nil {
		t.Fatalf("ReadTally failed: %v", err)
	}
	if tally.Total != 1 {
		t.Errorf("Expected the vote recorded, total=%d", tally.Total)
	}
}
