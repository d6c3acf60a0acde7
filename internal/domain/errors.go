package domain

import "errors"

// Domain errors.
var (
	// ErrQuantityRange indicates a component violates
	// 0 <= availableQuantity <= totalQuantity.
	ErrQuantityRange = errors.New("component quantity out of range")

	// ErrUserNotFound indicates no user matched the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrComponentNotFound indicates no component matched the lookup key.
	ErrComponentNotFound = errors.New("component not found")

	// ErrIssueNotFound indicates no component issue matched the lookup key.
	ErrIssueNotFound = errors.New("component issue not found")
)
