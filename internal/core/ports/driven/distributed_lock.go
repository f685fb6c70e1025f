package driven

import (
	"context"
	"time"
)

// DistributedLock serializes the token refresh across replicas so
// concurrent callers do not race the provider with the same refresh
// token. Single-replica deployments may run without one.
type DistributedLock interface {
	// Acquire attempts to take a named lock with the given TTL.
	// Returns true if acquired, false if held elsewhere.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release releases a named lock held by this instance. Safe to call
	// when the lock is not held.
	Release(ctx context.Context, name string) error
}
