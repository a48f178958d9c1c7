// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll option limits, enforced at creation time.
const (
	MinOptions = 2
	MaxOptions = 6
)

// Request types

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type CastVoteRequest struct {
	// Pointer so "option_index absent" is distinguishable from voting for option 0.
	OptionIndex *int   `json:"option_index"`
	SessionID   string `json:"session_id,omitempty"`
}

// Response types

type CreatePollResponse struct {
	PollID    string `json:"poll_id"`
	ShareLink string `json:"share_link"`
}

type PollResponse struct {
	ID         string         `json:"id"`
	Question   string         `json:"question"`
	Options    []string       `json:"options"`
	Results    []OptionResult `json:"results"`
	TotalVotes int            `json:"total_votes"`
}

type CastVoteResponse struct {
	Success    bool           `json:"success"`
	SessionID  string         `json:"session_id"`
	Results    []OptionResult `json:"results"`
	TotalVotes int            `json:"total_votes"`
}

// Domain types

type Poll struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Options   []string  `json:"options"`
	CreatedAt time.Time `json:"created_at"`
}

type Vote struct {
	PollID      string    `json:"poll_id"`
	OptionIndex int       `json:"option_index"`
	VoterToken  string    `json:"-"` // Never expose in JSON
	VoterIP     string    `json:"-"` // Never expose in JSON
	CreatedAt   time.Time `json:"created_at"`
}

// Tally is the per-poll vote counts, derived from the vote ledger.
// Counts is indexed by option index and always has one entry per option.
type Tally struct {
	Counts []int `json:"counts"`
	Total  int   `json:"total"`
}

// OptionResult pairs an option label with its vote count for API
// responses and live updates.
type OptionResult struct {
	Option string `json:"option"`
	Votes  int    `json:"votes"`
}

// TallyUpdate is the snapshot pushed to every live subscriber of a poll
// after an accepted vote.
type TallyUpdate struct {
	PollID     string         `json:"poll_id"`
	Results    []OptionResult `json:"results"`
	TotalVotes int            `json:"total_votes"`
}

// ResultsFor zips option labels with tally counts. The two are expected
// to be the same length; the shorter one wins so a mismatch can't panic.
func ResultsFor(options []string, tally Tally) []OptionResult {
	results := make([]OptionResult, 0, len(options))
	for i, label := range options {
		votes := 0
		if i < len(tally.Counts) {
			votes = tally.Counts[i]
		}
		results = append(results, OptionResult{Option: label, Votes: votes})
	}
	return results
}

// Error response

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}
