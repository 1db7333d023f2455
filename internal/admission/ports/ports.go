// Package ports defines the store interfaces the admission services depend
// on. In-memory implementations live under store/; the seams exist so an
// external store can be swapped in without touching call sites.
package ports

import (
	"context"
	"time"

	"proxygate/internal/admission/models"
)

// WindowStore counts requests per key inside a fixed time window. Allow is
// an atomic check-and-increment: it either consumes a slot or rejects, never
// both, even under concurrent calls for the same key.
type WindowStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (*models.RateLimitResult, error)
	CurrentCount(ctx context.Context, key string, now time.Time) (int, error)
	Reset(ctx context.Context, key string) error
}

// LedgerStore tracks lifetime successful-call usage per key. Usage is
// monotonic: incremented on success, never decremented, never reset for the
// process lifetime.
type LedgerStore interface {
	Peek(ctx context.Context, key string) (int, error)
	// IncrementIfBelow atomically increments usage for key if it is below
	// ceiling. Returns the resulting usage and whether an increment happened.
	IncrementIfBelow(ctx context.Context, key string, ceiling int) (int, bool, error)
}
