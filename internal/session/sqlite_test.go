package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "mario", "bWFyaW86c2VjcmV0", "it", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "mario", got.Username)
	assert.Equal(t, "bWFyaW86c2VjcmV0", got.Token)
	assert.Equal(t, "it", got.Language)
}

func TestSQLiteGetUnknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteExpiredSessionIsGone(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "mario", "tok", "", -time.Minute)
	require.NoError(t, err)

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteSetLanguage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "mario", "tok", "en", time.Hour)
	require.NoError(t, err)

	require.NoError(t, store.SetLanguage(ctx, sess.ID, "it"))
	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "it", got.Language)

	assert.ErrorIs(t, store.SetLanguage(ctx, "missing", "it"), ErrNotFound)
}

func TestSQLiteDeleteExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "old", "tok", "", -time.Minute)
	require.NoError(t, err)
	live, err := store.Create(ctx, "live", "tok", "", time.Hour)
	require.NoError(t, err)

	n, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Get(ctx, live.ID)
	assert.NoError(t, err)
}

func TestMemoryStoreBehavesLikeSQLite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, err := store.Create(ctx, "mario", "tok", "", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "en", sess.Language)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "mario", got.Username)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
