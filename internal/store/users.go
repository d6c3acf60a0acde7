package store

import (
	"context"

	"github.com/issacasimov/labstore/internal/domain"
)

// AddUser appends a user to the document. Login statistics are reset to the
// standard defaults regardless of what the caller passed in.
func (s *Store) AddUser(ctx context.Context, user domain.User) error {
	return s.mutate(ctx, "add_user", func(doc *domain.SystemData) error {
		user.LoginCount = 0
		user.IsActive = false
		doc.Users = append(doc.Users, user)
		s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user added")
		return nil
	})
}

// UpdateUser replaces the user with the same id. An unknown id is a silent
// no-op, not an error.
func (s *Store) UpdateUser(ctx context.Context, user domain.User) error {
	return s.mutate(ctx, "update_user", func(doc *domain.SystemData) error {
		for i := range doc.Users {
			if doc.Users[i].ID == user.ID {
				doc.Users[i] = user
				return nil
			}
		}
		return errSkipSave
	})
}

// Users returns all users in the current document.
func (s *Store) Users(ctx context.Context) []domain.User {
	return s.Load(ctx).Users
}

// GetUser looks up a user by email. Equality is case-sensitive.
func (s *Store) GetUser(ctx context.Context, email string) (domain.User, bool) {
	for _, u := range s.Load(ctx).Users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}

// ActiveUsers returns the users with at least one open session.
func (s *Store) ActiveUsers(ctx context.Context) []domain.User {
	var active []domain.User
	for _, u := range s.Load(ctx).Users {
		if u.IsActive {
			active = append(active, u)
		}
	}
	return active
}
