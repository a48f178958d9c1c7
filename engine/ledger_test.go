// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine_test

import (
	"errors"
	"testing"

	"github.com/applyo/applyo/engine"
	"github.com/applyo/applyo/session"
	"github.com/applyo/applyo/testutil"
)

func TestCreateAndGetPoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ledger := engine.NewVoteLedger(conn)

	poll, err := ledger.CreatePoll("Coffee or tea?", []string{"Coffee", "Tea"})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}
	if poll.ID == "" {
		t.Fatal("Expected non-empty poll ID")
	}

	got, err := ledger.GetPoll(poll.ID)
	if err != nil {
		t.Fatalf("GetPoll failed: %v", err)
	}
	if got.Question != "Coffee or tea?" {
		t.Errorf("Expected question %q, got %q", "Coffee or tea?", got.Question)
	}
	if len(got.Options) != 2 || got.Options[0] != "Coffee" || got.Options[1] != "Tea" {
		t.Errorf("Options out of order or missing: %v", got.Options)
	}
}

func TestGetPollNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ledger := engine.NewVoteLedger(conn)

	_, err := ledger.GetPoll("nonexistent")
	if !errors.Is(err, engine.ErrPollNotFound) {
		t.Errorf("Expected ErrPollNotFound, got %v", err)
	}
}

func TestAppendVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ledger := engine.NewVoteLedger(conn)

	poll, err := ledger.CreatePoll("Q?", []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}

	vote, err := ledger.Append(poll.ID, 1, session.NewToken(), "203.0.113.9")
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if vote.OptionIndex != 1 {
		t.Errorf("Expected option index 1, got %d", vote.OptionIndex)
	}

	tally, err := ledger.ReadTally(poll.ID)
	if err != nil {
		t.Fatalf("ReadTally failed: %v", err)
	}
	if tally.Total != 1 || tally.Counts[1] != 1 {
		t.Errorf("Unexpected tally after one vote: %+v", tally)
	}
}

func TestAppendDuplicateVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ledger := engine.NewVoteLedger(conn)

	poll, _ := ledger.CreatePoll("Q?", []string{"A", "B"})
	token := session.NewToken()

	if _, err := ledger.Append(poll.ID, 0, token, ""); err != nil {
		t.Fatalf("First append failed: %v", err)
	}

	// Same identity, any option: rejected by the storage constraint.
	_, err := ledger.Append(poll.ID, 1, token, "")
	if !errors.Is(err, engine.ErrDuplicateVote) {
		t.Errorf("Expected ErrDuplicateVote, got %v", err)
	}

	tally, _ := ledger.ReadTally(poll.ID)
	if tally.Total != 1 {
		t.Errorf("Duplicate must not change the ledger, total = %d", tally.Total)
	}
}

func TestAppendOptionOutOfRange(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ledger := engine.NewVoteLedger(conn)

	poll, _ := ledger.CreatePoll("Q?", []string{"A", "B"})

	for _, idx := range []int{-1, 2, 99} {
		_, err := ledger.Append(poll.ID, idx, session.NewToken(), "")
		if !errors.Is(err, engine.ErrOptionOutOfRange) {
			t.Errorf("Index %d: expected ErrOptionOutOfRange, got %v", idx, err)
		}
	}
}

func TestAppendPollNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ledger := engine.NewVoteLedger(conn)

	_, err := ledger.Append("nonexistent", 0, session.NewToken(), "")
	if !errors.Is(err, engine.ErrPollNotFound) {
		t.Errorf("Expected ErrPollNotFound, got %v", err)
	}
}

func TestReadTallyZeroForNewPoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ledger := engine.NewVoteLedger(conn)

	poll, _ := ledger.CreatePoll("Q?", []string{"A", "B", "C"})

	tally, err := ledger.ReadTally(poll.ID)
	if err != nil {
		t.Fatalf("ReadTally failed: %v", err)
	}
	if tally.Total != 0 {
		t.Errorf("Expected total 0, got %d", tally.Total)
	}
	if len(tally.Counts) != 3 {
		t.Fatalf("Expected one count per option, got %d", len(tally.Counts))
	}
	for i, c := range tally.Counts {
		if c != 0 {
			t.Errorf("Expected count 0 for option %d, got %d", i, c)
		}
	}
}

func TestReadTallySumInvariant(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ledger := engine.NewVoteLedger(conn)

	poll, _ := ledger.CreatePoll("Q?", []string{"A", "B", "C"})
	votes := []int{0, 1, 1, 2, 2, 2}
	for _, idx := range votes {
		if _, err := ledger.Append(poll.ID, idx, session.NewToken(), ""); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	tally, err := ledger.ReadTally(poll.ID)
	if err != nil {
		t.Fatalf("ReadTally failed: %v", err)
	}

	sum := 0
	for _, c := range tally.Counts {
		sum += c
	}
	if sum != tally.Total {
		t.Errorf("sum(counts)=%d != total=%d", sum, tally.Total)
	}
	if tally.Total != len(votes) {
		t.Errorf("Expected total %d, got %d", len(votes), tally.Total)
	}
	if tally.Counts[0] != 1 || tally.Counts[1] != 2 || tally.Counts[2] != 3 {
		t.Errorf("Unexpected counts: %v", tally.Counts)
	}
}
