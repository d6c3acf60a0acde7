package domain

import (
	"time"
)

// Notification is a message addressed to a user. The UserID is a
// back-reference, not ownership: deleting a user does not cascade here.
type Notification struct {
	// ID is the unique identifier for the notification.
	ID string `json:"id"`

	// UserID references the addressed user.
	UserID string `json:"userId"`

	// Title and Message are the payload shown to the user.
	Title   string `json:"title"`
	Message string `json:"message"`

	// CreatedAt is when the notification was raised.
	CreatedAt time.Time `json:"createdAt"`

	// Read is true once the user has seen the notification.
	Read bool `json:"read"`
}

// NewNotification creates an unread Notification.
func NewNotification(id, userID, title, message string, now time.Time) Notification {
	return Notification{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Message:   message,
		CreatedAt: now,
		Read:      false,
	}
}
