package storefront

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_MissingFile(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Snapshot{}, snap)
}

func TestSessionStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "session.json")
	store := NewSessionStore(path)

	want := Snapshot{Session: Session{Token: "t", Username: "bob", IsAdmin: true}, Theme: ThemeDark}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSessionStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewSessionStore(path).Load()
	assert.ErrorContains(t, err, "decode session")
}
