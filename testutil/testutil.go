// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/applyo/applyo/cliparse"
	"github.com/applyo/applyo/db"
	"github.com/applyo/applyo/engine"
)

// GetTestConfig returns a standard test configuration.
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3000,
		DatabaseType: "sqlite",
		BaseURL:      "https://applyo.test",
	}
}

// SetupTestDB creates a fresh sqlite database in a per-test temp
// directory with the full schema. The file is removed with the temp
// dir when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", t.TempDir()+"/test.db")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// NewTestEngine wires a full engine stack (ledger, cache, hub, service)
// over a fresh test database.
func NewTestEngine(t *testing.T) (*engine.PollService, *engine.VoteLedger, *engine.TallyCache, *engine.BroadcastHub) {
	t.Helper()

	conn := SetupTestDB(t)
	ledger := engine.NewVoteLedger(conn)
	tally := engine.NewTallyCache(ledger)
	hub := engine.NewBroadcastHub()
	t.Cleanup(hub.Close)

	return engine.NewPollService(ledger, tally, hub), ledger, tally, hub
}

// CreateTestPoll creates a poll through the service and returns its ID.
func CreateTestPoll(t *testing.T, svc *engine.PollService, question string, options ...string) string {
	t.Helper()

	if question == "" {
		question = "Test question?"
	}
	if len(options) == 0 {
		options = []string{"Option A", "Option B"}
	}
	poll, err := svc.Create(question, options)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll.ID
}

// MakeRequest creates an HTTP test request with an optional JSON body.
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct.
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
