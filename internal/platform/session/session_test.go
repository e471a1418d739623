package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camino-app/route-planner-api/internal/apperr"
	"github.com/camino-app/route-planner-api/internal/domain"
)

func TestHolder_SetAndClear(t *testing.T) {
	t.Parallel()
	h := NewHolder(NewMemoryStore())

	_, open := h.Current()
	assert.False(t, open)

	require.NoError(t, h.Set(Session{UserID: "u-1", Token: "tok"}))
	cur, open := h.Current()
	assert.True(t, open)
	assert.Equal(t, domain.UserID("u-1"), cur.UserID)

	require.NoError(t, h.Clear())
	_, open = h.Current()
	assert.False(t, open)
}

func TestHolder_RejectsAnonymousSession(t *testing.T) {
	t.Parallel()
	h := NewHolder(nil)

	err := h.Set(Session{Token: "tok"})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidData))
	_, open := h.Current()
	assert.False(t, open)
}

func TestResolve(t *testing.T) {
	t.Parallel()
	h := NewHolder(nil)
	require.NoError(t, h.Set(Session{UserID: "cached", Token: "tok"}))

	// Explicit identity wins over the cached session.
	got, err := Resolve(h, "explicit")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("explicit"), got)

	got, err = Resolve(h, "")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("cached"), got)

	require.NoError(t, h.Clear())
	_, err = Resolve(h, "")
	assert.True(t, apperr.HasCode(err, apperr.CodeUserNotFound))

	_, err = Resolve(nil, "")
	assert.True(t, apperr.HasCode(err, apperr.CodeUserNotFound))
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(Session{UserID: "u-1", Token: "tok"}))

	// A fresh holder picks up the persisted session.
	h := NewHolder(NewFileStore(path))
	cur, open := h.Current()
	assert.True(t, open)
	assert.Equal(t, domain.UserID("u-1"), cur.UserID)
	assert.Equal(t, "tok", cur.Token)

	require.NoError(t, store.Clear())
	_, ok, err = store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing an already-absent file is not an error.
	require.NoError(t, store.Clear())
}

func TestFileStore_CorruptFileMeansNoSession(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(path)
	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}
