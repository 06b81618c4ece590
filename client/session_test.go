package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSessionStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	store := NewFileSessionStore(path)

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok, "missing file means no session")

	require.NoError(t, store.Save(Session{MatchID: "g1", PlayerUID: alice}))

	session, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Session{MatchID: "g1", PlayerUID: alice}, session)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileSessionStoreClearKeepsIdentity(t *testing.T) {
	store := NewFileSessionStore(filepath.Join(t.TempDir(), "session.yaml"))
	require.NoError(t, store.Save(Session{MatchID: "g1", PlayerUID: alice}))

	require.NoError(t, store.Clear())

	session, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok, "no match to rejoin")
	assert.Equal(t, alice, session.PlayerUID)
	assert.Equal(t, alice, ResolveIdentity("", store))
}

func TestFileSessionStoreClearWithoutFile(t *testing.T) {
	store := NewFileSessionStore(filepath.Join(t.TempDir(), "session.yaml"))
	assert.NoError(t, store.Clear())
}

func TestFileSessionStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match_id: [oops"), 0o600))

	_, _, err := NewFileSessionStore(path).Load()
	assert.Error(t, err)
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	require.NoError(t, store.Save(Session{MatchID: "g1", PlayerUID: alice}))

	session, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "g1", session.MatchID)

	require.NoError(t, store.Clear())
	_, ok, _ = store.Load()
	assert.False(t, ok)
}

func TestResolveIdentity(t *testing.T) {
	store := NewMemorySessionStore()
	require.NoError(t, store.Save(Session{MatchID: "g1", PlayerUID: "stored"}))

	assert.Equal(t, "configured", ResolveIdentity("configured", store))
	assert.Equal(t, "stored", ResolveIdentity("", store))

	fresh := ResolveIdentity("", NewMemorySessionStore())
	_, err := uuid.Parse(fresh)
	assert.NoError(t, err)
	assert.NotEqual(t, fresh, ResolveIdentity("", nil))
}
