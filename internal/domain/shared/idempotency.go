package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed keys to short-circuit duplicate
// deliveries before they reach the database. The database unique constraint
// remains the authoritative guard; this store is a fast path only.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Forget removes a key so a failed operation can be retried.
	Forget(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// DefaultIdempotencyTTL is how long processed keys are remembered.
// Gateways retry callbacks for at most a day.
const DefaultIdempotencyTTL = 24 * time.Hour
