// Package store implements the lab inventory bookkeeping façade: one
// persisted document holding users, components, issue records,
// notifications and login sessions, with mutation helpers, derived
// statistics and CSV export on top.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/issacasimov/labstore/internal/domain"
	"github.com/issacasimov/labstore/internal/kv"
	"github.com/issacasimov/labstore/internal/lock"
	"github.com/issacasimov/labstore/internal/metrics"
	"github.com/issacasimov/labstore/internal/migrate"
)

// DefaultKey is the storage slot the document lives under, unchanged from
// the original deployment so existing documents keep working.
const DefaultKey = "isaacLabData"

// Store is the bookkeeping layer. Every mutation is one
// load -> mutate -> save cycle against the backing key-value store,
// serialized through the locker; there is no in-memory cache, so each call
// observes the latest persisted state.
type Store struct {
	kv      kv.Store
	key     string
	clock   Clock
	ids     IDSource
	locker  Locker
	lockTTL time.Duration
	lockDly time.Duration
	lockTry int
	logger  zerolog.Logger
	metrics *metrics.Metrics

	sharedPassword     string
	sharedPasswordHash string
	privileged         map[string]bool
}

// Options configures a Store. Zero values fall back to sensible defaults.
type Options struct {
	// Key is the storage slot; defaults to DefaultKey.
	Key string

	// Clock supplies timestamps; defaults to the system clock.
	Clock Clock

	// IDs supplies entity identifiers; defaults to UUID-based ids.
	IDs IDSource

	// Locker serializes read-modify-write cycles; defaults to an
	// in-process memory locker.
	Locker Locker

	// LockTTL, LockRetryDelay and LockMaxRetries shape document lock
	// acquisition.
	LockTTL        time.Duration
	LockRetryDelay time.Duration
	LockMaxRetries int

	// Logger receives structured operation logs; defaults to a nop logger.
	Logger *zerolog.Logger

	// Metrics receives operation counters; nil disables instrumentation.
	Metrics *metrics.Metrics

	// SharedPassword is the lab-wide credential, compared in constant
	// time. Ignored when SharedPasswordHash is set.
	SharedPassword string

	// SharedPasswordHash is an optional bcrypt hash of the credential.
	SharedPasswordHash string

	// PrivilegedEmails are provisioned as staff accounts by Bootstrap and,
	// for compatibility with the original login flow, on first
	// authentication. Defaults to the lab's two staff addresses.
	PrivilegedEmails []string
}

// Locker is the subset of lock.Locker the store needs.
type Locker interface {
	AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error)
	Release(ctx context.Context, key string) (bool, error)
}

// New creates a Store over the given key-value backend.
func New(backend kv.Store, opts Options) *Store {
	s := &Store{
		kv:                 backend,
		key:                opts.Key,
		clock:              opts.Clock,
		ids:                opts.IDs,
		locker:             opts.Locker,
		lockTTL:            opts.LockTTL,
		lockDly:            opts.LockRetryDelay,
		lockTry:            opts.LockMaxRetries,
		metrics:            opts.Metrics,
		sharedPassword:     opts.SharedPassword,
		sharedPasswordHash: opts.SharedPasswordHash,
		privileged:         make(map[string]bool),
	}

	if s.key == "" {
		s.key = DefaultKey
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.ids == nil {
		s.ids = UUIDSource{}
	}
	if s.locker == nil {
		s.locker = lock.NewMemoryLocker()
	}
	if s.lockTTL <= 0 {
		s.lockTTL = 10 * time.Second
	}
	if s.lockDly <= 0 {
		s.lockDly = 50 * time.Millisecond
	}
	if s.lockTry <= 0 {
		s.lockTry = 20
	}
	if opts.Logger != nil {
		s.logger = opts.Logger.With().Str("component", "store").Logger()
	} else {
		s.logger = zerolog.Nop()
	}
	if s.sharedPassword == "" && s.sharedPasswordHash == "" {
		s.sharedPassword = defaultSharedPassword
	}

	emails := opts.PrivilegedEmails
	if len(emails) == 0 {
		emails = defaultPrivilegedEmails
	}
	for _, email := range emails {
		s.privileged[email] = true
	}

	return s
}

// Load reads the current document. A missing document, an unreadable
// backend or an unparseable document all yield the seed document: corrupted
// state is deliberately discarded rather than repaired, matching the
// original behavior. Parseable documents are run through the migration
// pipeline and have their user active flags reconciled with the session
// list.
func (s *Store) Load(ctx context.Context) domain.SystemData {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn().Err(err).Str("key", s.key).Msg("storage read failed, falling back to seed data")
		}
		s.metrics.RecordLoad("seeded")
		return domain.SeedData(s.clock.Now())
	}

	var doc domain.SystemData
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("stored document unparseable, falling back to seed data")
		s.metrics.RecordLoad("seeded")
		return domain.SeedData(s.clock.Now())
	}

	if migrate.Apply(&doc) {
		s.logger.Info().Int("schema_version", doc.SchemaVersion).Msg("migrated document")
		s.metrics.RecordLoad("migrated")
	} else {
		s.metrics.RecordLoad("ok")
	}
	doc.ReconcileActiveFlags()

	return doc
}

// Save serializes the document and overwrites the storage slot. Unlike the
// original, failures are reported to the caller as well as logged.
func (s *Store) Save(ctx context.Context, doc domain.SystemData) error {
	doc.SchemaVersion = migrate.CurrentVersion

	raw, err := json.Marshal(doc)
	if err != nil {
		s.metrics.RecordSave(0, true)
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("failed to save document")
		s.metrics.RecordSave(len(raw), true)
		return fmt.Errorf("failed to save document: %w", err)
	}

	s.metrics.RecordSave(len(raw), false)
	return nil
}

// mutate runs one lock-guarded load -> mutate -> save cycle. The mutation
// function may return errSkipSave to discard its changes without failing.
func (s *Store) mutate(ctx context.Context, op string, fn func(doc *domain.SystemData) error) error {
	start := time.Now()
	defer func() {
		s.metrics.ObserveOp(op, time.Since(start).Seconds())
	}()

	key := lock.DocumentKey(s.key)
	acquired, err := s.locker.AcquireWithRetry(ctx, key, s.lockTTL, s.lockTry, s.lockDly)
	if err != nil {
		return fmt.Errorf("failed to acquire document lock: %w", err)
	}
	if !acquired {
		return ErrLockNotAcquired
	}
	defer func() {
		if _, err := s.locker.Release(ctx, key); err != nil {
			s.logger.Warn().Err(err).Msg("failed to release document lock")
		}
	}()

	doc := s.Load(ctx)
	if err := fn(&doc); err != nil {
		if errors.Is(err, errSkipSave) {
			return nil
		}
		return err
	}

	return s.Save(ctx, doc)
}

// errSkipSave signals that a mutation found nothing to change.
var errSkipSave = errors.New("skip save")
