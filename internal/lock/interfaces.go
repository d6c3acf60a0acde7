// Package lock provides local and distributed locking for the document's
// read-modify-write cycles. The original deployment assumes a single
// writer; any deployment with more than one writer must serialize mutations
// through one of these lockers.
package lock

import (
	"context"
	"time"
)

// Locker defines the locking interface. The memory implementation covers
// single-process deployments; the Redis implementation covers multiple
// processes sharing one backend.
type Locker interface {
	// Acquire attempts to acquire a lock.
	// Returns true if the lock was acquired, false if it's held elsewhere.
	// The lock automatically expires after the specified TTL.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// AcquireWithRetry attempts to acquire a lock with retries.
	// Retries up to maxRetries times with retryDelay between attempts.
	AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error)

	// Release releases a lock.
	// Returns true if the lock was released, false if it wasn't held.
	Release(ctx context.Context, key string) (bool, error)

	// IsHeld checks if the lock is currently held.
	IsHeld(ctx context.Context, key string) (bool, error)
}

// DocumentKey returns the lock key guarding the document stored under the
// given storage key.
func DocumentKey(storageKey string) string {
	return "lock:document:" + storageKey
}
