// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/applyo/applyo/models"
	"github.com/applyo/applyo/session"
)

// PollService orchestrates the core: it validates requests, derives the
// voter identity, appends to the ledger, updates the tally cache, and
// publishes the new snapshot to live subscribers.
//
// Mutations are serialized per poll, never globally: votes on different
// polls proceed in parallel, while append + tally update + publish for
// one poll form a single critical section. Reads take no poll lock and
// see either all of an accepted vote's effects or none.
type PollService struct {
	ledger *VoteLedger
	tally  *TallyCache
	hub    *BroadcastHub

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPollService(ledger *VoteLedger, tally *TallyCache, hub *BroadcastHub) *PollService {
	return &PollService{
		ledger: ledger,
		tally:  tally,
		hub:    hub,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Create validates and persists a new poll. Option labels are trimmed;
// the poll needs a question and 2-6 non-empty, pairwise-unique options.
func (s *PollService) Create(question string, options []string) (models.Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.Poll{}, &ValidationError{Reason: "question is required"}
	}
	if len(options) < models.MinOptions {
		return models.Poll{}, &ValidationError{Reason: fmt.Sprintf("at least %d options required", models.MinOptions)}
	}
	if len(options) > models.MaxOptions {
		return models.Poll{}, &ValidationError{Reason: fmt.Sprintf("at most %d options allowed", models.MaxOptions)}
	}

	trimmed := make([]string, len(options))
	seen := make(map[string]bool, len(options))
	for i, label := range options {
		label = strings.TrimSpace(label)
		if label == "" {
			return models.Poll{}, &ValidationError{Reason: "options must not be empty"}
		}
		if seen[label] {
			return models.Poll{}, &ValidationError{Reason: "options must be unique"}
		}
		seen[label] = true
		trimmed[i] = label
	}

	poll, err := s.ledger.CreatePoll(question, trimmed)
	if err != nil {
		return models.Poll{}, fmt.Errorf("create poll: %w", err)
	}

	slog.Info("poll created", "poll_id", poll.ID, "options", len(poll.Options))
	return poll, nil
}

// CastVote records one vote and fans the new tally out to the poll's
// subscribers. It returns the published snapshot and the voter's
// session token (possibly freshly minted) so the caller can hand it
// back to the client.
//
// ErrDuplicateVote, ErrPollNotFound, and ErrOptionOutOfRange pass
// through typed; on a duplicate, neither the tally nor the subscribers
// see anything. A retry after a client-side timeout lands here too:
// the vote was durably recorded, so the retry gets ErrDuplicateVote,
// which is the correct outcome.
func (s *PollService) CastVote(pollID string, optionIdx int, sessionToken, sourceAddr string) (models.TallyUpdate, string, error) {
	identity, minted := session.IdentityFor(sessionToken)

	lock := s.pollLock(pollID)
	lock.Lock()
	defer lock.Unlock()

	poll, err := s.ledger.GetPoll(pollID)
	if err != nil {
		return models.TallyUpdate{}, identity, err
	}

	// Seed the cache before the append. Readers take no poll lock, so a
	// cold-cache read racing an in-flight vote could otherwise seed the
	// entry with the appended vote already counted, and the Update below
	// would count it a second time.
	if err := s.tally.Ensure(pollID); err != nil {
		return models.TallyUpdate{}, identity, fmt.Errorf("seed tally: %w", err)
	}

	if _, err := s.ledger.Append(pollID, optionIdx, identity, sourceAddr); err != nil {
		return models.TallyUpdate{}, identity, err
	}

	tally, err := s.tally.Update(pollID, optionIdx)
	if err != nil {
		// The vote is durable but the cache is now suspect; reseed on
		// next access rather than serving a stale count.
		s.tally.Forget(pollID)
		return models.TallyUpdate{}, identity, fmt.Errorf("tally update: %w", err)
	}

	update := models.TallyUpdate{
		PollID:     pollID,
		Results:    models.ResultsFor(poll.Options, tally),
		TotalVotes: tally.Total,
	}
	s.hub.Publish(pollID, update)

	slog.Info("vote cast", "poll_id", pollID, "option_index", optionIdx, "minted_session", minted)
	return update, identity, nil
}

// Get returns a poll with its current tally.
func (s *PollService) Get(pollID string) (models.Poll, models.Tally, error) {
	poll, err := s.ledger.GetPoll(pollID)
	if err != nil {
		return models.Poll{}, models.Tally{}, err
	}
	tally, err := s.tally.Get(pollID)
	if err != nil {
		return models.Poll{}, models.Tally{}, fmt.Errorf("read tally: %w", err)
	}
	return poll, tally, nil
}

// pollLock returns the mutex serializing mutations for one poll,
// creating it on first use. Lock objects are never removed; a poll that
// saw traffic keeps its mutex for the process lifetime.
func (s *PollService) pollLock(pollID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[pollID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[pollID] = lock
	}
	return lock
}
