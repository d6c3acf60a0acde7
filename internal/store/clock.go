package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clock supplies timestamps, so tests can pin time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// IDSource supplies unique entity identifiers.
type IDSource interface {
	// NewID returns a fresh identifier with the given entity prefix,
	// e.g. "session-<random>".
	NewID(prefix string) string
}

// UUIDSource generates UUID-based identifiers.
type UUIDSource struct{}

// NewID returns prefix + "-" + a random UUID.
func (UUIDSource) NewID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
