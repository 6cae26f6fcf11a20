package watcher

import (
	"sync"
	"time"
)

// QueryStatus records the outcome of the most recent poll of a query.
type QueryStatus struct {
	Healthy     bool
	LastPoll    time.Time
	LastSuccess time.Time
	LastError   error
	NewPosts    int
	TotalNew    int
}

// Health tracks per-query poll outcomes across cycles.
type Health struct {
	mu      sync.RWMutex
	queries map[string]*QueryStatus
}

// NewHealth creates an empty health tracker.
func NewHealth() *Health {
	return &Health{queries: make(map[string]*QueryStatus)}
}

// RecordSuccess marks a query poll as succeeded with newPosts fresh posts.
func (h *Health) RecordSuccess(queryID string, newPosts int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.get(queryID)
	now := time.Now()
	s.Healthy = true
	s.LastPoll = now
	s.LastSuccess = now
	s.LastError = nil
	s.NewPosts = newPosts
	s.TotalNew += newPosts
}

// RecordFailure marks a query poll as failed.
func (h *Health) RecordFailure(queryID string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.get(queryID)
	s.Healthy = false
	s.LastPoll = time.Now()
	s.LastError = err
	s.NewPosts = 0
}

// Status returns a copy of the status for a query, or nil if it has never
// been polled.
func (h *Health) Status(queryID string) *QueryStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.queries[queryID]
	if !ok {
		return nil
	}
	copied := *s
	return &copied
}

// Healthy reports whether every polled query succeeded on its last cycle.
func (h *Health) Healthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.queries {
		if !s.Healthy {
			return false
		}
	}
	return true
}

func (h *Health) get(queryID string) *QueryStatus {
	if _, ok := h.queries[queryID]; !ok {
		h.queries[queryID] = &QueryStatus{}
	}
	return h.queries[queryID]
}
