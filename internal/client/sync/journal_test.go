package sync

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) *SyncJournal {
	t.Helper()
	journal := NewSyncJournal(filepath.Join(t.TempDir(), ".khoj-sync", "journal.db"))
	require.NoError(t, journal.Open())
	t.Cleanup(func() { journal.Close() })
	return journal
}

func TestSyncJournal_MissingFileIsEmptyState(t *testing.T) {
	journal := newTestJournal(t)

	state, err := journal.GetState()
	require.NoError(t, err)
	assert.Empty(t, state)

	count, err := journal.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSyncJournal_SetGetRoundTrip(t *testing.T) {
	journal := newTestJournal(t)

	// nanosecond precision must survive the round trip
	modTime := time.Date(2024, 3, 1, 10, 30, 0, 123456789, time.UTC)
	meta := &FileMetadata{Path: "notes/a.md", Size: 1024, LastModified: modTime}
	require.NoError(t, journal.Set(meta))

	got, err := journal.Get("notes/a.md")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, meta.Path, got.Path)
	assert.Equal(t, meta.Size, got.Size)
	assert.True(t, meta.LastModified.Equal(got.LastModified))

	missing, err := journal.Get("nope.md")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSyncJournal_SetOverwrites(t *testing.T) {
	journal := newTestJournal(t)

	require.NoError(t, journal.Set(&FileMetadata{Path: "a.md", Size: 1, LastModified: t1}))
	require.NoError(t, journal.Set(&FileMetadata{Path: "a.md", Size: 2, LastModified: t2}))

	got, err := journal.Get("a.md")
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Size)
	assert.True(t, t2.Equal(got.LastModified))

	count, err := journal.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSyncJournal_Delete(t *testing.T) {
	journal := newTestJournal(t)

	require.NoError(t, journal.Set(&FileMetadata{Path: "a.md", Size: 1, LastModified: t1}))
	require.NoError(t, journal.Delete("a.md"))

	got, err := journal.Get("a.md")
	require.NoError(t, err)
	assert.Nil(t, got)

	// deleting an unknown path is not an error
	assert.NoError(t, journal.Delete("nope.md"))
}

func TestSyncJournal_StatePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	journal := NewSyncJournal(dbPath)
	require.NoError(t, journal.Open())
	require.NoError(t, journal.Set(&FileMetadata{Path: "a.md", Size: 7, LastModified: t1}))
	require.NoError(t, journal.Set(&FileMetadata{Path: "b.md", Size: 9, LastModified: t2}))
	require.NoError(t, journal.Close())

	reopened := NewSyncJournal(dbPath)
	require.NoError(t, reopened.Open())
	defer reopened.Close()

	state, err := reopened.GetState()
	require.NoError(t, err)
	require.Len(t, state, 2)
	assert.True(t, t1.Equal(state["a.md"].LastModified))
	assert.True(t, t2.Equal(state["b.md"].LastModified))
}

func TestSyncJournal_OpenTwiceFails(t *testing.T) {
	journal := newTestJournal(t)
	assert.Error(t, journal.Open())
}
