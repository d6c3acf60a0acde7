package domain

import (
	"strings"
	"time"
)

// LoginSession records one login of a user. The user fields are a
// denormalized snapshot taken at login time: the historical record should
// reflect who the user was when they logged in, not the live profile.
type LoginSession struct {
	// ID is the unique identifier for the session.
	ID string `json:"id"`

	// UserID references the user; the remaining User* fields snapshot the
	// profile at login time.
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
	UserRole  Role   `json:"userRole"`

	// LoginTime is when the session opened.
	LoginTime time.Time `json:"loginTime"`

	// LogoutTime is set when the session closes.
	LogoutTime *time.Time `json:"logoutTime,omitempty"`

	// SessionDuration is LogoutTime - LoginTime in milliseconds, set at
	// logout. Never negative.
	SessionDuration *int64 `json:"sessionDuration,omitempty"`

	// IPAddress is the client address, or "Unknown" when not supplied.
	IPAddress string `json:"ipAddress"`

	// UserAgent is the raw user-agent string at login.
	UserAgent string `json:"userAgent"`

	// DeviceInfo is the classified device type, see ClassifyDevice.
	DeviceInfo string `json:"deviceInfo"`

	// IsActive is true while the session is open.
	IsActive bool `json:"isActive"`
}

// Close ends the session at the given instant. The duration is clamped at
// zero to guard against clock skew between login and logout.
func (s *LoginSession) Close(now time.Time) {
	ms := now.Sub(s.LoginTime).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	s.LogoutTime = &now
	s.SessionDuration = &ms
	s.IsActive = false
}

// ClassifyDevice maps a user-agent string to a coarse device type.
func ClassifyDevice(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Mobile"):
		return "Mobile Device"
	case strings.Contains(userAgent, "Tablet"):
		return "Tablet"
	default:
		return "Desktop"
	}
}
