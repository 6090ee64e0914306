package store

import (
	"context"
	"time"
)

// IdempotencyTTL is how long a stored idempotency response is honored.
const IdempotencyTTL = 24 * time.Hour

// IdempotencyStore maps an idempotency key to a prior response, so a
// retried settlement-engine call (or our own retried outgoing
// settlement) observes the same outcome instead of double-applying.
type IdempotencyStore interface {
	// Get returns the stored response for key, or ErrNotFound if absent
	// or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores response under key with a 24h TTL. Calling Put with a
	// key that already has a live entry is a no-op (first write wins),
	// preserving idempotency under retries.
	Put(ctx context.Context, key string, response []byte) error
}
