package controller

import (
	"context"
	"sync"

	"github.com/coolerd/coolerd/internal/ui"
)

// ApplyQueue serializes duty writes towards the device. The CLI can only
// handle one invocation at a time, and a queued duty that has not been
// written yet is superseded by a newer one for the same channel.
type ApplyQueue struct {
	mu      sync.Mutex
	pending map[string]int
	wake    chan struct{}

	apply func(channelId string, duty int) bool
}

func NewApplyQueue(apply func(channelId string, duty int) bool) *ApplyQueue {
	return &ApplyQueue{
		pending: map[string]int{},
		wake:    make(chan struct{}, 1),
		apply:   apply,
	}
}

// Enqueue schedules a duty write. A pending write for the same channel is
// replaced, last write wins.
func (q *ApplyQueue) Enqueue(channelId string, duty int) {
	q.mu.Lock()
	if old, ok := q.pending[channelId]; ok && old != duty {
		ui.Debug("Superseding pending duty %d for %s with %d", old, channelId, duty)
	}
	q.pending[channelId] = duty
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pending returns the not-yet-applied duty for a channel, if any.
func (q *ApplyQueue) Pending(channelId string) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	duty, ok := q.pending[channelId]
	return duty, ok
}

// Run drains the queue until the context ends. Writes happen one at a
// time, in no particular channel order.
func (q *ApplyQueue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-q.wake:
			q.drain(ctx)
		}
	}
}

func (q *ApplyQueue) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		channelId, duty, ok := q.take()
		if !ok {
			return
		}
		if !q.apply(channelId, duty) {
			ui.Warning("Failed to apply duty %d to channel %s", duty, channelId)
		}
	}
}

// take removes one pending entry. The entry leaves the map before the
// write starts, so a newer Enqueue during the write is not lost.
func (q *ApplyQueue) take() (string, int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for channelId, duty := range q.pending {
		delete(q.pending, channelId)
		return channelId, duty, true
	}
	return "", 0, false
}
