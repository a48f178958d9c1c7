// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"log/slog"
	"sync"

	"github.com/applyo/applyo/models"
)

// subscriberBuffer is the per-connection update buffer. A consumer that
// falls further behind loses its oldest pending snapshots; the latest
// one always gets through.
const subscriberBuffer = 16

type subscriber struct {
	connID string
	pollID string
	ch     chan models.TallyUpdate
}

// BroadcastHub owns the live subscriptions: which connection is watching
// which poll. It holds no vote data - it only relays tally snapshots
// handed to it.
//
// A connection has at most one active subscription; subscribing to a new
// poll implicitly leaves the previous one. The registry is an explicit
// owned object created at process start and torn down via Close, not
// ambient global state.
type BroadcastHub struct {
	mu     sync.RWMutex
	closed bool
	polls  map[string]map[string]*subscriber // pollID -> connID -> subscriber
	conns  map[string]*subscriber            // connID -> subscriber
}

func NewBroadcastHub() *BroadcastHub {
	return &BroadcastHub{
		polls: make(map[string]map[string]*subscriber),
		conns: make(map[string]*subscriber),
	}
}

// Subscribe registers connID under pollID's subscriber set and returns
// the channel its updates arrive on. If the connection was already
// subscribed (to this or another poll), the prior subscription is
// replaced and the existing channel is reused, so the caller's reader
// goroutine keeps working across re-joins. Snapshots still buffered for
// the previous poll are discarded; after a switch the channel only ever
// carries updates for the new poll.
//
// After Close (or for a connection racing its own Unsubscribe), the
// returned channel is already closed.
func (h *BroadcastHub) Subscribe(connID, pollID string) <-chan models.TallyUpdate {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		ch := make(chan models.TallyUpdate)
		close(ch)
		return ch
	}

	sub, ok := h.conns[connID]
	if ok {
		h.detachLocked(sub)
	} else {
		sub = &subscriber{connID: connID, ch: make(chan models.TallyUpdate, subscriberBuffer)}
		h.conns[connID] = sub
	}

	sub.pollID = pollID
	set := h.polls[pollID]
	if set == nil {
		set = make(map[string]*subscriber)
		h.polls[pollID] = set
	}
	set[connID] = sub

	return sub.ch
}

// Unsubscribe removes the connection from whatever poll it watches and
// closes its update channel. Idempotent: unknown connections and repeat
// calls are no-ops.
func (h *BroadcastHub) Unsubscribe(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.conns[connID]
	if !ok {
		return
	}
	h.detachLocked(sub)
	delete(h.conns, connID)
	close(sub.ch)
}

// Publish delivers the snapshot to every connection subscribed to the
// poll at the moment of the call. Delivery is best-effort per
// connection: a full buffer drops the subscriber's oldest pending
// update rather than blocking the hub or the voter who triggered the
// publish. Successive publishes for one poll are serialized by the
// caller (PollService holds the poll lock), so subscribers observe them
// in order.
func (h *BroadcastHub) Publish(pollID string, update models.TallyUpdate) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for _, sub := range h.polls[pollID] {
		select {
		case sub.ch <- update:
		default:
			// Slow consumer: make room by dropping its oldest update.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- update:
			default:
				slog.Warn("dropped tally update", "poll_id", pollID, "conn_id", sub.connID)
			}
		}
	}
}

// SubscriberCount reports how many connections watch a poll.
func (h *BroadcastHub) SubscriberCount(pollID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.polls[pollID])
}

// Close tears the registry down, closing every subscriber channel.
// Subsequent Subscribe calls return closed channels and Publish becomes
// a no-op.
func (h *BroadcastHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, sub := range h.conns {
		close(sub.ch)
	}
	h.polls = make(map[string]map[string]*subscriber)
	h.conns = make(map[string]*subscriber)
}

// detachLocked removes sub from its poll set and flushes any snapshots
// still buffered for that poll. Caller holds the write lock, which
// excludes publishers, so nothing new arrives mid-flush.
func (h *BroadcastHub) detachLocked(sub *subscriber) {
	if sub.pollID == "" {
		return
	}
	set := h.polls[sub.pollID]
	delete(set, sub.connID)
	if len(set) == 0 {
		delete(h.polls, sub.pollID)
	}
	sub.pollID = ""

	for {
		select {
		case <-sub.ch:
		default:
			return
		}
	}
}
