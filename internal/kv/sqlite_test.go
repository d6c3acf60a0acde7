package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "labstore.db")
	store, err := NewSQLiteStore(context.Background(), DefaultSQLiteConfig(path), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "doc", []byte(`{"users":[]}`)))

	value, err := store.Get(ctx, "doc")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"users":[]}`), value)
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Set(ctx, "doc", []byte("v1")))
	require.NoError(t, store.Set(ctx, "doc", []byte("v2")))

	value, err := store.Get(ctx, "doc")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), value)
}

func TestSQLiteStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Set(ctx, "doc", []byte("v1")))
	require.NoError(t, store.Delete(ctx, "doc"))

	_, err := store.Get(ctx, "doc")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, "doc"))
}

func TestSQLiteStorePing(t *testing.T) {
	store := newTestSQLiteStore(t)
	require.NoError(t, store.Ping(context.Background()))
}
