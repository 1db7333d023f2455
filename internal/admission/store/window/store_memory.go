// Package window provides the in-memory fixed-window rate store.
package window

import (
	"context"
	"sync"
	"time"

	"proxygate/internal/admission/models"
)

// InMemoryWindowStore implements ports.WindowStore with a fixed-window
// counter per key. In-memory, single instance: state is created at process
// start and discarded at exit.
type InMemoryWindowStore struct {
	mu      sync.Mutex
	windows map[string]*fixedWindow
}

// fixedWindow tracks one key's counter for the current window. The window
// does not reset early: once count hits the limit, rejections continue until
// resetAt passes.
type fixedWindow struct {
	windowStart time.Time
	resetAt     time.Time
	count       int
}

// New creates an empty in-memory window store.
func New() *InMemoryWindowStore {
	return &InMemoryWindowStore{
		windows: make(map[string]*fixedWindow),
	}
}

// Allow checks whether key may proceed and consumes a slot if so. The check
// and the increment happen under one lock so concurrent requests for the
// same key can never both observe the last free slot.
func (s *InMemoryWindowStore) Allow(_ context.Context, key string, limit int, window time.Duration, now time.Time) (*models.RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fw := s.windows[key]
	if fw == nil || now.Sub(fw.windowStart) >= window {
		fw = &fixedWindow{windowStart: now, resetAt: now.Add(window)}
		s.windows[key] = fw
	}

	if fw.count >= limit {
		retry := int(fw.resetAt.Sub(now).Seconds())
		if retry < 1 {
			retry = 1
		}
		return &models.RateLimitResult{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    fw.resetAt,
			RetryAfter: retry,
		}, nil
	}

	fw.count++
	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - fw.count,
		ResetAt:   fw.resetAt,
	}, nil
}

// CurrentCount returns the number of slots consumed by key in its current
// window, treating an expired window as empty.
func (s *InMemoryWindowStore) CurrentCount(_ context.Context, key string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fw := s.windows[key]
	if fw == nil || !now.Before(fw.resetAt) {
		return 0, nil
	}
	return fw.count, nil
}

// Reset clears the window for a key.
func (s *InMemoryWindowStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}
