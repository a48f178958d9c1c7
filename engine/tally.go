// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"sync"

	"github.com/applyo/applyo/models"
)

// TallyCache holds in-memory per-poll counts. It is a cache over the
// vote ledger, never a second source of truth: a poll's entry is seeded
// lazily from VoteLedger.ReadTally on first access and incremented once
// per accepted vote afterwards.
//
// Only PollService mutates the cache, and only after a ledger append
// succeeded. Readers always get a copy, never the live slice.
type TallyCache struct {
	mu     sync.RWMutex
	ledger *VoteLedger
	polls  map[string]*models.Tally
}

func NewTallyCache(ledger *VoteLedger) *TallyCache {
	return &TallyCache{
		ledger: ledger,
		polls:  make(map[string]*models.Tally),
	}
}

// Get returns the current tally snapshot for a poll, seeding the cache
// from the ledger on a miss.
func (c *TallyCache) Get(pollID string) (models.Tally, error) {
	c.mu.RLock()
	t, ok := c.polls[pollID]
	if ok {
		snap := snapshot(t)
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(pollID)
}

// Ensure guarantees a cache entry for the poll exists, seeding it from
// the ledger on a miss. PollService calls this under the poll lock
// before appending a vote, so the entry it seeds can never contain an
// in-flight vote and the following Update increments exactly once.
func (c *TallyCache) Ensure(pollID string) error {
	c.mu.RLock()
	_, ok := c.polls[pollID]
	c.mu.RUnlock()
	if ok {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.polls[pollID]; ok {
		return nil
	}
	_, err := c.loadLocked(pollID)
	return err
}

// Update increments the count for one accepted vote and returns the new
// snapshot. Must be called exactly once per accepted vote, after the
// ledger append, with the entry seeded via Ensure before the append. On
// a cache miss (the entry was forgotten) the seed read already includes
// the vote just appended, so no increment is applied on that path.
func (c *TallyCache) Update(pollID string, optionIdx int) (models.Tally, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.polls[pollID]
	if !ok {
		return c.loadLocked(pollID)
	}

	if optionIdx < 0 || optionIdx >= len(t.Counts) {
		return models.Tally{}, ErrOptionOutOfRange
	}
	t.Counts[optionIdx]++
	t.Total++
	return snapshot(t), nil
}

// Forget drops a poll's cached entry. The next access reseeds from the
// ledger.
func (c *TallyCache) Forget(pollID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.polls, pollID)
}

// loadLocked seeds the cache from the ledger. Caller holds the write lock.
func (c *TallyCache) loadLocked(pollID string) (models.Tally, error) {
	loaded, err := c.ledger.ReadTally(pollID)
	if err != nil {
		return models.Tally{}, err
	}
	c.polls[pollID] = &loaded
	return snapshot(&loaded), nil
}

func snapshot(t *models.Tally) models.Tally {
	return models.Tally{
		Counts: append([]int(nil), t.Counts...),
		Total:  t.Total,
	}
}
