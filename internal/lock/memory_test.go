package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLockerAcquireRelease(t *testing.T) {
	ctx := context.Background()
	locker := NewMemoryLocker()
	key := DocumentKey("isaacLabData")

	acquired, err := locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	// Held locks cannot be re-acquired.
	acquired, err = locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.False(t, acquired)

	held, err := locker.IsHeld(ctx, key)
	require.NoError(t, err)
	require.True(t, held)

	released, err := locker.Release(ctx, key)
	require.NoError(t, err)
	require.True(t, released)

	acquired, err = locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
}

func TestMemoryLockerExpiry(t *testing.T) {
	ctx := context.Background()
	locker := NewMemoryLocker()
	key := DocumentKey("isaacLabData")

	acquired, err := locker.Acquire(ctx, key, 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, acquired)

	time.Sleep(20 * time.Millisecond)

	acquired, err = locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
}

func TestMemoryLockerAcquireWithRetry(t *testing.T) {
	ctx := context.Background()
	locker := NewMemoryLocker()
	key := DocumentKey("isaacLabData")

	// First holder expires while the second retries.
	acquired, err := locker.Acquire(ctx, key, 30*time.Millisecond)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = locker.AcquireWithRetry(ctx, key, time.Minute, 10, 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, acquired)
}

func TestMemoryLockerReleaseNotHeld(t *testing.T) {
	ctx := context.Background()
	locker := NewMemoryLocker()

	released, err := locker.Release(ctx, DocumentKey("isaacLabData"))
	require.NoError(t, err)
	require.False(t, released)
}

func TestNoopLocker(t *testing.T) {
	ctx := context.Background()
	locker := NewNoopLocker()
	key := DocumentKey("isaacLabData")

	acquired, err := locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	// Noop never contends, even with a holder.
	acquired, err = locker.AcquireWithRetry(ctx, key, time.Minute, 0, 0)
	require.NoError(t, err)
	require.True(t, acquired)
}
