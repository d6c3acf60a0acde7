package store

import "errors"

// Store errors. Lookups that find nothing and updates keyed by an unknown
// id are NOT errors: lookups return an explicit no-value result and updates
// are silent no-ops, preserving the original caller contract.
var (
	// ErrInvalidCredentials indicates the supplied password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnknownUser indicates a correct password for an email that is
	// neither registered nor privileged.
	ErrUnknownUser = errors.New("unknown user")

	// ErrInsufficientStock indicates an issue would take more units than
	// are available.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity indicates a non-positive issue quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrLockNotAcquired indicates the document lock could not be acquired
	// within the configured retries.
	ErrLockNotAcquired = errors.New("document lock not acquired")
)
