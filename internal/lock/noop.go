package lock

import (
	"context"
	"time"
)

// NoopLocker implements Locker without any actual locking. It preserves the
// original deployment model of exactly one synchronous writer, where
// serialization is guaranteed by construction.
type NoopLocker struct{}

// NewNoopLocker creates a no-op locker.
func NewNoopLocker() *NoopLocker {
	return &NoopLocker{}
}

// Acquire always succeeds.
func (n *NoopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

// AcquireWithRetry always succeeds.
func (n *NoopLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	return true, nil
}

// Release always reports released.
func (n *NoopLocker) Release(ctx context.Context, key string) (bool, error) {
	return true, nil
}

// IsHeld always reports not held.
func (n *NoopLocker) IsHeld(ctx context.Context, key string) (bool, error) {
	return false, nil
}

// Ensure NoopLocker implements Locker.
var _ Locker = (*NoopLocker)(nil)
