// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/applyo/applyo/models"
	"github.com/applyo/applyo/session"
)

// VoteLedger is the durable record of polls and votes, and the source
// of truth for tallies. The one-vote-per-(poll, voter) rule is enforced
// by the vote table's primary key, so Append is atomic with respect to
// concurrent appends for the same identity.
type VoteLedger struct {
	db *sql.DB
}

func NewVoteLedger(db *sql.DB) *VoteLedger {
	return &VoteLedger{db: db}
}

// CreatePoll persists a new poll with its ordered option labels.
// Input validation happens in PollService; here the data is trusted.
func (l *VoteLedger) CreatePoll(question string, options []string) (models.Poll, error) {
	pollID, err := session.GenerateID(16)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to generate poll ID: %w", err)
	}
	createdAt := time.Now().UTC()

	tx, err := l.db.Begin()
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO poll (id, question, created_at)
		VALUES ($1, $2, $3)
	`, pollID, question, createdAt)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	for idx, label := range options {
		_, err = tx.Exec(`
			INSERT INTO option (poll_id, idx, label)
			VALUES ($1, $2, $3)
		`, pollID, idx, label)
		if err != nil {
			return models.Poll{}, fmt.Errorf("failed to insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to commit poll: %w", err)
	}

	return models.Poll{
		ID:        pollID,
		Question:  question,
		Options:   append([]string(nil), options...),
		CreatedAt: createdAt,
	}, nil
}

// GetPoll returns a poll with its options, or ErrPollNotFound.
func (l *VoteLedger) GetPoll(pollID string) (models.Poll, error) {
	var poll models.Poll
	err := l.db.QueryRow(`
		SELECT id, question, created_at FROM poll WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Question, &poll.CreatedAt)

	if err == sql.ErrNoRows {
		return models.Poll{}, ErrPollNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}

	rows, err := l.db.Query(`
		SELECT label FROM option WHERE poll_id = $1 ORDER BY idx
	`, pollID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return models.Poll{}, fmt.Errorf("failed to scan option: %w", err)
		}
		poll.Options = append(poll.Options, label)
	}
	if err := rows.Err(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to read options: %w", err)
	}

	return poll, nil
}

// Append records one vote. It fails with ErrPollNotFound for an unknown
// poll, ErrOptionOutOfRange for an invalid index, and ErrDuplicateVote
// when this voter identity already voted on the poll. The duplicate
// check rides on the storage constraint: two concurrent appends for the
// same identity yield exactly one accepted vote.
func (l *VoteLedger) Append(pollID string, optionIdx int, voterToken, voterIP string) (models.Vote, error) {
	var optionCount int
	err := l.db.QueryRow(`
		SELECT COUNT(*) FROM option WHERE poll_id = $1
	`, pollID).Scan(&optionCount)
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to count options: %w", err)
	}
	if optionCount == 0 {
		// Polls always have options, so none means no poll.
		return models.Vote{}, ErrPollNotFound
	}
	if optionIdx < 0 || optionIdx >= optionCount {
		return models.Vote{}, ErrOptionOutOfRange
	}

	vote := models.Vote{
		PollID:      pollID,
		OptionIndex: optionIdx,
		VoterToken:  voterToken,
		VoterIP:     voterIP,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = l.db.Exec(`
		INSERT INTO vote (poll_id, option_idx, voter_token, voter_ip, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.PollID, vote.OptionIndex, vote.VoterToken, vote.VoterIP, vote.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return models.Vote{}, ErrDuplicateVote
		}
		return models.Vote{}, fmt.Errorf("failed to insert vote: %w", err)
	}

	return vote, nil
}

// ReadTally computes the current counts per option and the total from
// the vote table. Used to answer reads and to seed the tally cache.
func (l *VoteLedger) ReadTally(pollID string) (models.Tally, error) {
	var optionCount int
	err := l.db.QueryRow(`
		SELECT COUNT(*) FROM option WHERE poll_id = $1
	`, pollID).Scan(&optionCount)
	if err != nil {
		return models.Tally{}, fmt.Errorf("failed to count options: %w", err)
	}
	if optionCount == 0 {
		return models.Tally{}, ErrPollNotFound
	}

	tally := models.Tally{Counts: make([]int, optionCount)}

	rows, err := l.db.Query(`
		SELECT option_idx, COUNT(*)
		FROM vote
		WHERE poll_id = $1
		GROUP BY option_idx
	`, pollID)
	if err != nil {
		return models.Tally{}, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idx, count int
		if err := rows.Scan(&idx, &count); err != nil {
			return models.Tally{}, fmt.Errorf("failed to scan vote count: %w", err)
		}
		if idx >= 0 && idx < optionCount {
			tally.Counts[idx] = count
			tally.Total += count
		}
	}
	if err := rows.Err(); err != nil {
		return models.Tally{}, fmt.Errorf("failed to read vote counts: %w", err)
	}

	return tally, nil
}

// isUniqueViolation matches the unique-constraint error text of both
// supported drivers (lib/pq and modernc sqlite).
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
