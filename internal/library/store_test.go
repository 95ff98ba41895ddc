package library

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOpenRoundtrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	locator, err := store.Save(strings.NewReader("not really audio"))
	require.NoError(t, err)
	require.NotEmpty(t, locator)

	f, modTime, err := store.Open(locator)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "not really audio", string(data))
	assert.False(t, modTime.IsZero())
}

func TestOpenUnknownLocator(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Open("1eb17f1c-6a5a-4b6e-9a57-5f47dbd3e1a9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenRejectsNonLocatorPaths(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// Anything that is not a uuid never reaches the filesystem.
	_, _, err = store.Open("../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	locator, err := store.Save(strings.NewReader("bytes"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(locator))
	_, _, err = store.Open(locator)
	assert.ErrorIs(t, err, ErrNotFound)

	// Absent locators are a no-op.
	assert.NoError(t, store.Remove(locator))
	assert.NoError(t, store.Remove("not-a-uuid"))
}
