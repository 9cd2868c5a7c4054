package controller

import (
	"sync"
	"time"
)

type overrideEntry struct {
	duty int
	at   time.Time
}

// OverrideRegistry remembers user-set duties for a short window, so the
// next poll tick does not immediately fight a manual adjustment.
type OverrideRegistry struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]overrideEntry

	// overridable for testing
	now func() time.Time
}

func NewOverrideRegistry(window time.Duration) *OverrideRegistry {
	return &OverrideRegistry{
		window:  window,
		entries: map[string]overrideEntry{},
		now:     time.Now,
	}
}

// Mark records a manual duty for the given channel, restarting its
// protection window.
func (r *OverrideRegistry) Mark(channelId string, duty int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[channelId] = overrideEntry{duty: duty, at: r.now()}
}

// Active reports whether the channel is still inside its protection window.
func (r *OverrideRegistry) Active(channelId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[channelId]
	if !ok {
		return false
	}
	if r.now().Sub(entry.at) >= r.window {
		delete(r.entries, channelId)
		return false
	}
	return true
}

// Get returns the manually set duty if its window is still active.
func (r *OverrideRegistry) Get(channelId string) (int, bool) {
	if !r.Active(channelId) {
		return 0, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := r.entries[channelId]
	return entry.duty, true
}

// Clear drops all overrides, e.g. when a boost takes over the channels.
func (r *OverrideRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = map[string]overrideEntry{}
}
