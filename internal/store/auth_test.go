package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/issacasimov/labstore/internal/domain"
	"github.com/issacasimov/labstore/internal/kv"
)

func TestAuthenticatePrivilegedEmail(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	// admin@issacasimov.in has no account yet; a correct shared password
	// provisions one on the fly.
	user, session, err := s.Authenticate(ctx, "admin@issacasimov.in", "ralab", ClientInfo{
		UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		RemoteAddr: "10.0.0.7",
	})
	require.NoError(t, err)

	require.Equal(t, "Administrator", user.Name)
	require.Equal(t, domain.RoleStaff, user.Role)
	require.Equal(t, 1, user.LoginCount)
	require.True(t, user.IsActive)
	require.NotNil(t, user.LastLoginAt)

	require.Equal(t, user.ID, session.UserID)
	require.Equal(t, "admin@issacasimov.in", session.UserEmail)
	require.Equal(t, "Desktop", session.DeviceInfo)
	require.Equal(t, "10.0.0.7", session.IPAddress)
	require.True(t, session.IsActive)
	require.Nil(t, session.LogoutTime)

	require.Len(t, s.Users(ctx), 2)
}

func TestAuthenticateExistingUser(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	// The seed staff account logs in twice; no duplicate account appears.
	for i := 1; i <= 2; i++ {
		user, _, err := s.Authenticate(ctx, "staff@issacasimov.in", "ralab", ClientInfo{})
		require.NoError(t, err)
		require.Equal(t, i, user.LoginCount)
	}
	require.Len(t, s.Users(ctx), 1)
	require.Len(t, s.Sessions(ctx), 2)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, _, err := s.Authenticate(ctx, "staff@issacasimov.in", "wrong", ClientInfo{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// A wrong password never provisions anything.
	require.Len(t, s.Users(ctx), 1)
	require.Empty(t, s.Sessions(ctx))
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, _, err := s.Authenticate(ctx, "random@example.com", "ralab", ClientInfo{})
	require.ErrorIs(t, err, ErrUnknownUser)
	require.Len(t, s.Users(ctx), 1)
}

func TestVerifyCredentialsOpensNoSession(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	user, err := s.VerifyCredentials(ctx, "staff@issacasimov.in", "ralab")
	require.NoError(t, err)
	require.Equal(t, 0, user.LoginCount)
	require.Empty(t, s.Sessions(ctx))
}

func TestOpenSessionUnknownUser(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.OpenSession(ctx, "no-such-id", ClientInfo{})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestOpenSessionDefaultsAddress(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	user, ok := s.GetUser(ctx, "staff@issacasimov.in")
	require.True(t, ok)

	session, err := s.OpenSession(ctx, user.ID, ClientInfo{UserAgent: "curl/8.4.0"})
	require.NoError(t, err)
	require.Equal(t, "Unknown", session.IPAddress)
	require.Equal(t, "Desktop", session.DeviceInfo)
}

func TestBootstrapIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Bootstrap(ctx))
	require.Len(t, s.Users(ctx), 2)

	require.NoError(t, s.Bootstrap(ctx))
	require.Len(t, s.Users(ctx), 2)

	_, ok := s.GetUser(ctx, "admin@issacasimov.in")
	require.True(t, ok)

	// Bootstrap itself never opens sessions.
	require.Empty(t, s.Sessions(ctx))
}

func TestSharedPasswordOverride(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemoryStore(), Options{
		Clock:          &fakeClock{now: testStart()},
		SharedPassword: "secret",
	})

	_, err := s.VerifyCredentials(ctx, "staff@issacasimov.in", "ralab")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.VerifyCredentials(ctx, "staff@issacasimov.in", "secret")
	require.NoError(t, err)
}

func TestSharedPasswordHash(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	s := New(kv.NewMemoryStore(), Options{
		Clock:              &fakeClock{now: testStart()},
		SharedPasswordHash: string(hash),
	})

	_, err = s.VerifyCredentials(ctx, "staff@issacasimov.in", "secret")
	require.NoError(t, err)

	_, err = s.VerifyCredentials(ctx, "staff@issacasimov.in", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
