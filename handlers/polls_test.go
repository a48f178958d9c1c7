// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/applyo/applyo/models"
	"github.com/applyo/applyo/testutil"
)

func TestCreatePoll(t *testing.T) {
	svc, _, _, _ := testutil.NewTestEngine(t)
	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(svc, cfg)

	req := testutil.MakeRequest("POST", "/api/polls", models.CreatePollRequest{
		Question: "Coffee or tea?",
		Options:  []string{"Coffee", "Tea"},
	}, nil)
	w := httptest.NewRecorder()

	handler.CreatePoll(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreatePollResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.PollID == "" {
		t.Fatal("Expected a poll ID")
	}
	if !strings.HasPrefix(resp.ShareLink, cfg.BaseURL+"/poll/") {
		t.Errorf("Share link %q does not use the configured base URL", resp.ShareLink)
	}
	if !strings.HasSuffix(resp.ShareLink, resp.PollID) {
		t.Errorf("Share link %q does not end with the poll ID", resp.ShareLink)
	}
}

func TestCreatePollValidation(t *testing.T) {
	svc, _, _, _ := testutil.NewTestEngine(t)
	handler := NewPollHandler(svc, testutil.GetTestConfig())

	cases := []struct {
		name string
		req  models.CreatePollRequest
	}{
		{"missing question", models.CreatePollRequest{Options: []string{"A", "B"}}},
		{"one option", models.CreatePollRequest{Question: "Q?", Options: []string{"A"}}},
		{"duplicate options", models.CreatePollRequest{Question: "Q?", Options: []string{"A", "A"}}},
		{"seven options", models.CreatePollRequest{Question: "Q?", Options: []string{"A", "B", "C", "D", "E", "F", "G"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.CreatePoll(w, testutil.MakeRequest("POST", "/api/polls", tc.req, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestCreatePollInvalidJSON(t *testing.T) {
	svc, _, _, _ := testutil.NewTestEngine(t)
	handler := NewPollHandler(svc, testutil.GetTestConfig())

	req := httptest.NewRequest("POST", "/api/polls", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	handler.CreatePoll(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetPoll(t *testing.T) {
	svc, _, _, _ := testutil.NewTestEngine(t)
	handler := NewPollHandler(svc, testutil.GetTestConfig())
	pollID := testutil.CreateTestPoll(t, svc, "Coffee or tea?", "Coffee", "Tea")

	req := testutil.MakeRequest("GET", "/api/polls/"+pollID, nil, nil)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()

	handler.GetPoll(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PollResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Question != "Coffee or tea?" {
		t.Errorf("Unexpected question %q", resp.Question)
	}
	if resp.TotalVotes != 0 {
		t.Errorf("Fresh poll should have 0 votes, got %d", resp.TotalVotes)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(resp.Results))
	}
	for _, res := range resp.Results {
		if res.Votes != 0 {
			t.Errorf("Expected 0 votes for %s, got %d", res.Option, res.Votes)
		}
	}
}

func TestGetPollNotFound(t *testing.T) {
	svc, _, _, _ := testutil.NewTestEngine(t)
	handler := NewPollHandler(svc, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/api/polls/nonexistent", nil, nil)
	req.SetPathValue("id", "nonexistent")
	w := httptest.NewRecorder()

	handler.GetPoll(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
