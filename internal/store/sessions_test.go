package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEndSessionClosesAllOpenSessions(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	user, _, err := s.Authenticate(ctx, "staff@issacasimov.in", "ralab", ClientInfo{UserAgent: "iPhone Safari"})
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	_, err = s.OpenSession(ctx, user.ID, ClientInfo{UserAgent: "Chrome on Windows"})
	require.NoError(t, err)

	clock.Advance(90 * time.Minute)
	require.NoError(t, s.EndSession(ctx, user.ID))

	sessions := s.Sessions(ctx)
	require.Len(t, sessions, 2)
	for _, session := range sessions {
		require.False(t, session.IsActive)
		require.NotNil(t, session.LogoutTime)
		require.NotNil(t, session.SessionDuration)
		require.GreaterOrEqual(t, *session.SessionDuration, int64(0))
		require.Equal(t, session.LogoutTime.Sub(session.LoginTime).Milliseconds(), *session.SessionDuration)
	}

	stored, ok := s.GetUser(ctx, "staff@issacasimov.in")
	require.True(t, ok)
	require.False(t, stored.IsActive)
}

func TestEndSessionWithoutOpenSessions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	user, ok := s.GetUser(ctx, "staff@issacasimov.in")
	require.True(t, ok)
	require.NoError(t, s.EndSession(ctx, user.ID))
	require.Empty(t, s.Sessions(ctx))
}

func TestExportSessionsCSV(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	user, _, err := s.Authenticate(ctx, "staff@issacasimov.in", "ralab", ClientInfo{
		UserAgent:  "Mozilla/5.0 (Linux; Android 13; SM-X200 Tablet) Safari",
		RemoteAddr: "10.0.0.7",
	})
	require.NoError(t, err)

	clock.Advance(44*time.Minute + 40*time.Second)
	require.NoError(t, s.EndSession(ctx, user.ID))

	clock.Advance(time.Minute)
	_, err = s.OpenSession(ctx, user.ID, ClientInfo{UserAgent: "Mozilla/5.0 (iPhone) Mobile Safari"})
	require.NoError(t, err)

	lines := strings.Split(s.ExportSessionsCSV(ctx), "\n")
	require.Len(t, lines, 3)

	require.Equal(t,
		`"Login Time","Logout Time","User Name","User Email","Role","Device Info","Session Duration (minutes)","Status"`,
		lines[0])

	// 44m40s rounds up to 45 whole minutes.
	require.Equal(t,
		`"2026-08-20 09:00:00","2026-08-20 09:44:40","Administrator","staff@issacasimov.in","staff","Tablet","45","Ended"`,
		lines[1])

	// The open session renders "Active" in the logout, duration and status
	// columns.
	require.Equal(t,
		`"2026-08-20 09:45:40","Active","Administrator","staff@issacasimov.in","staff","Mobile Device","Active","Active"`,
		lines[2])
}

func TestExportSessionsCSVEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	out := s.ExportSessionsCSV(context.Background())
	require.Equal(t,
		`"Login Time","Logout Time","User Name","User Email","Role","Device Info","Session Duration (minutes)","Status"`,
		out)
}
