package store

import (
	"context"

	"github.com/issacasimov/labstore/internal/domain"
)

// Sessions returns all login sessions in the current document.
func (s *Store) Sessions(ctx context.Context) []domain.LoginSession {
	return s.Load(ctx).LoginSessions
}

// EndSession closes every open session for the given user and clears the
// user's active flag. Multiple concurrent logins converge to zero open
// sessions. A user with no open sessions is a no-op.
func (s *Store) EndSession(ctx context.Context, userID string) error {
	return s.mutate(ctx, "end_session", func(doc *domain.SystemData) error {
		now := s.clock.Now()

		closed := 0
		for i := range doc.LoginSessions {
			session := &doc.LoginSessions[i]
			if session.UserID == userID && session.IsActive {
				session.Close(now)
				closed++
			}
		}

		for i := range doc.Users {
			if doc.Users[i].ID == userID {
				doc.Users[i].IsActive = false
				break
			}
		}

		if closed == 0 {
			return errSkipSave
		}

		s.logger.Info().
			Str("user_id", userID).
			Int("sessions_closed", closed).
			Msg("sessions ended")
		return nil
	})
}
