package store

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/issacasimov/labstore/internal/domain"
)

// The lab runs on a single shared credential; there is no per-user secret.
const defaultSharedPassword = "ralab"

// defaultPrivilegedEmails are the staff addresses provisioned on demand.
var defaultPrivilegedEmails = []string{
	"staff@issacasimov.in",
	"admin@issacasimov.in",
}

// ClientInfo describes the logging-in client. RemoteAddr is recorded as
// "Unknown" when empty; there is no address detection in this layer.
type ClientInfo struct {
	UserAgent  string
	RemoteAddr string
}

// checkPassword verifies the shared credential: bcrypt when a hash is
// configured, constant-time comparison otherwise.
func (s *Store) checkPassword(password string) bool {
	if s.sharedPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.sharedPasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.sharedPassword), []byte(password)) == 1
}

// provisionName returns the display name for a privileged staff account.
func provisionName(email string) string {
	if email == "admin@issacasimov.in" {
		return "Administrator"
	}
	return "Lab Staff"
}

// VerifyCredentials checks the shared password and resolves the account for
// email. A wrong password fails with ErrInvalidCredentials. A correct
// password resolves a registered user, provisions a staff account for a
// privileged email, and fails with ErrUnknownUser for anything else. No
// session is opened; see OpenSession.
func (s *Store) VerifyCredentials(ctx context.Context, email, password string) (domain.User, error) {
	if !s.checkPassword(password) {
		s.metrics.RecordAuth("invalid_credentials")
		return domain.User{}, ErrInvalidCredentials
	}

	if user, ok := s.GetUser(ctx, email); ok {
		s.metrics.RecordAuth("ok")
		return user, nil
	}

	if !s.privileged[email] {
		s.metrics.RecordAuth("unknown_user")
		return domain.User{}, fmt.Errorf("%w: %s", ErrUnknownUser, email)
	}

	user, err := s.provisionStaff(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	s.metrics.RecordAuth("ok")
	return user, nil
}

// provisionStaff creates a staff account for a privileged email. Racing
// provisions converge on the first stored account.
func (s *Store) provisionStaff(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := s.mutate(ctx, "provision_staff", func(doc *domain.SystemData) error {
		for _, u := range doc.Users {
			if u.Email == email {
				user = u
				return errSkipSave
			}
		}
		user = domain.NewUser(s.ids.NewID("staff"), provisionName(email), email, domain.RoleStaff, s.clock.Now())
		doc.Users = append(doc.Users, user)
		s.logger.Info().Str("user_id", user.ID).Str("email", email).Msg("provisioned staff account")
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Bootstrap provisions every privileged staff account that does not exist
// yet. Intended to run once at deployment, so account creation is not a
// hidden side effect of logging in. Idempotent.
func (s *Store) Bootstrap(ctx context.Context) error {
	for email := range s.privileged {
		if _, err := s.provisionStaff(ctx, email); err != nil {
			return fmt.Errorf("failed to provision %s: %w", email, err)
		}
	}
	return nil
}

// OpenSession records a login for the given user: stamps the login time,
// increments the login count, sets the user active and appends a session
// carrying a snapshot of the user's identity at login time.
func (s *Store) OpenSession(ctx context.Context, userID string, client ClientInfo) (domain.LoginSession, error) {
	var session domain.LoginSession
	err := s.mutate(ctx, "open_session", func(doc *domain.SystemData) error {
		var user *domain.User
		for i := range doc.Users {
			if doc.Users[i].ID == userID {
				user = &doc.Users[i]
				break
			}
		}
		if user == nil {
			return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
		}

		now := s.clock.Now()
		user.LastLoginAt = &now
		user.LoginCount++
		user.IsActive = true

		ip := client.RemoteAddr
		if ip == "" {
			ip = "Unknown"
		}

		session = domain.LoginSession{
			ID:         s.ids.NewID("session"),
			UserID:     user.ID,
			UserEmail:  user.Email,
			UserName:   user.Name,
			UserRole:   user.Role,
			LoginTime:  now,
			IPAddress:  ip,
			UserAgent:  client.UserAgent,
			DeviceInfo: domain.ClassifyDevice(client.UserAgent),
			IsActive:   true,
		}
		doc.LoginSessions = append(doc.LoginSessions, session)

		s.logger.Info().
			Str("user_id", user.ID).
			Str("session_id", session.ID).
			Str("device", session.DeviceInfo).
			Msg("session opened")
		return nil
	})
	if err != nil {
		return domain.LoginSession{}, err
	}
	return session, nil
}

// Authenticate composes credential verification and session issuance: the
// original's single login entry point, kept for callers that want one call.
func (s *Store) Authenticate(ctx context.Context, email, password string, client ClientInfo) (domain.User, domain.LoginSession, error) {
	user, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return domain.User{}, domain.LoginSession{}, err
	}

	session, err := s.OpenSession(ctx, user.ID, client)
	if err != nil {
		return domain.User{}, domain.LoginSession{}, err
	}

	// Re-read so the returned user reflects the login bookkeeping.
	user, _ = s.GetUser(ctx, email)
	return user, session, nil
}
