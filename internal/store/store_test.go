package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/issacasimov/labstore/internal/domain"
	"github.com/issacasimov/labstore/internal/kv"
	"github.com/issacasimov/labstore/internal/migrate"
)

// fakeClock is a settable clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// seqIDs hands out deterministic ids: "<prefix>-1", "<prefix>-2", ...
type seqIDs struct {
	n int
}

func (s *seqIDs) NewID(prefix string) string {
	s.n++
	return fmt.Sprintf("%s-%d", prefix, s.n)
}

// brokenKV fails every operation, for exercising the seed fallback and
// save error paths.
type brokenKV struct{}

var errBackendDown = errors.New("backend down")

func (brokenKV) Get(ctx context.Context, key string) ([]byte, error)  { return nil, errBackendDown }
func (brokenKV) Set(ctx context.Context, key string, v []byte) error  { return errBackendDown }
func (brokenKV) Delete(ctx context.Context, key string) error         { return errBackendDown }
func (brokenKV) Ping(ctx context.Context) error                       { return errBackendDown }
func (brokenKV) Close() error                                         { return nil }

func testStart() time.Time {
	return time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
}

// newTestStore builds a store over a fresh in-memory backend with a pinned
// clock and sequential ids.
func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: testStart()}
	s := New(kv.NewMemoryStore(), Options{
		Clock: clock,
		IDs:   &seqIDs{},
	})
	return s, clock
}

func TestLoadSeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	doc := s.Load(ctx)

	require.Len(t, doc.Users, 1)
	require.Len(t, doc.Components, 5)
	require.Empty(t, doc.ComponentIssues)
	require.Empty(t, doc.Notifications)
	require.Empty(t, doc.LoginSessions)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	doc := domain.SeedData(clock.Now())
	doc.Users = append(doc.Users, domain.NewUser("u2", "Asha", "asha@issacasimov.in", domain.RoleStudent, clock.Now()))
	doc.Notifications = append(doc.Notifications,
		domain.NewNotification("n1", "u2", "Welcome", "Welcome to the lab", clock.Now()))

	require.NoError(t, s.Save(ctx, doc))

	loaded := s.Load(ctx)
	doc.SchemaVersion = migrate.CurrentVersion
	require.Equal(t, doc, loaded)
}

func TestLoadFallsBackOnCorruptDocument(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	require.NoError(t, backend.Set(ctx, DefaultKey, []byte("{not json")))

	s := New(backend, Options{Clock: &fakeClock{now: testStart()}})
	doc := s.Load(ctx)

	require.Len(t, doc.Users, 1)
	require.Len(t, doc.Components, 5)
}

func TestLoadFallsBackOnBrokenBackend(t *testing.T) {
	s := New(brokenKV{}, Options{Clock: &fakeClock{now: testStart()}})
	doc := s.Load(context.Background())

	require.Len(t, doc.Users, 1)
	require.Len(t, doc.Components, 5)
}

func TestSaveReportsBackendFailure(t *testing.T) {
	s := New(brokenKV{}, Options{Clock: &fakeClock{now: testStart()}})

	err := s.Save(context.Background(), domain.SeedData(testStart()))
	require.ErrorIs(t, err, errBackendDown)
}

func TestLoadMigratesLegacyDocument(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()

	// A document as pre-migration deployments wrote it: no schema
	// version, no componentIssues, no loginSessions, a legacy requests
	// collection.
	legacy := []byte(`{
		"users": [{"id": "u1", "name": "Administrator", "email": "staff@issacasimov.in",
			"role": "staff", "registeredAt": "2026-01-05T10:00:00Z", "loginCount": 4, "isActive": true}],
		"components": [],
		"requests": [{"id": "req-1", "studentName": "Asha", "componentId": "comp-1",
			"quantity": 1, "requestDate": "2026-02-01T10:00:00Z", "dueDate": "2026-02-08T10:00:00Z",
			"status": "approved"}]
	}`)
	require.NoError(t, backend.Set(ctx, DefaultKey, legacy))

	s := New(backend, Options{Clock: &fakeClock{now: testStart()}})
	doc := s.Load(ctx)

	require.Equal(t, migrate.CurrentVersion, doc.SchemaVersion)
	require.NotNil(t, doc.LoginSessions)
	require.Len(t, doc.ComponentIssues, 1)
	require.Equal(t, "req-1", doc.ComponentIssues[0].ID)
	require.Equal(t, domain.IssueStatusIssued, doc.ComponentIssues[0].Status)
	require.Nil(t, doc.Requests)

	// The stored active flag drifts against the (empty) session list and
	// is repaired on load.
	require.False(t, doc.Users[0].IsActive)
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	before := s.Components(ctx)
	require.NoError(t, s.UpdateComponent(ctx, domain.Component{ID: "no-such-id", Name: "Ghost", TotalQuantity: 1, AvailableQuantity: 1}))
	require.Equal(t, before, s.Components(ctx))

	require.NoError(t, s.UpdateUser(ctx, domain.User{ID: "no-such-id", Name: "Ghost"}))
	require.Len(t, s.Users(ctx), 1)
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	user, ok := s.GetUser(ctx, "staff@issacasimov.in")
	require.True(t, ok)
	require.Equal(t, "Administrator", user.Name)

	// Lookup is case-sensitive.
	_, ok = s.GetUser(ctx, "Staff@issacasimov.in")
	require.False(t, ok)

	_, ok = s.GetUser(ctx, "nobody@issacasimov.in")
	require.False(t, ok)
}

func TestAddUserResetsLoginState(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	user := domain.NewUser("u2", "Asha", "asha@issacasimov.in", domain.RoleStudent, clock.Now())
	user.LoginCount = 99
	user.IsActive = true
	require.NoError(t, s.AddUser(ctx, user))

	stored, ok := s.GetUser(ctx, "asha@issacasimov.in")
	require.True(t, ok)
	require.Equal(t, 0, stored.LoginCount)
	require.False(t, stored.IsActive)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	n, err := s.Notify(ctx, "u1", "Overdue", "Arduino Uno R3 is overdue")
	require.NoError(t, err)
	require.False(t, n.Read)

	_, err = s.Notify(ctx, "u2", "Welcome", "Welcome to the lab")
	require.NoError(t, err)

	require.Len(t, s.Notifications(ctx), 2)
	require.Len(t, s.UserNotifications(ctx, "u1"), 1)
	require.Empty(t, s.UserNotifications(ctx, "u3"))

	require.NoError(t, s.MarkNotificationRead(ctx, n.ID))
	require.True(t, s.UserNotifications(ctx, "u1")[0].Read)

	// Unknown notification id is a silent no-op.
	require.NoError(t, s.MarkNotificationRead(ctx, "no-such-id"))
}

func TestLegacyRequestShims(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	request := domain.Request{
		ID:          "req-1",
		StudentName: "Asha",
		ComponentID: "comp-1",
		Quantity:    1,
		RequestDate: testStart(),
		DueDate:     testStart().AddDate(0, 0, 7),
		Status:      "approved",
	}
	require.NoError(t, s.AddRequest(ctx, request))

	requests := s.Requests(ctx)
	require.Len(t, requests, 1)
	require.Equal(t, domain.IssueStatusIssued, requests[0].Status)
	require.Equal(t, "Lab work", requests[0].Purpose)
	require.Equal(t, testStart(), requests[0].IssueDate)

	request.Status = "returned"
	require.NoError(t, s.UpdateRequest(ctx, request))
	require.Equal(t, domain.IssueStatusReturned, s.Requests(ctx)[0].Status)
}
