package session

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFile(t *testing.T) {
	t.Parallel()

	store := NewFileStore(afero.NewMemMapFs(), DefaultFile)
	id, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "/work/.stackconsole/session.yaml")
	store.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, store.Save("abc123"))

	data, err := afero.ReadFile(fs, store.Path())
	require.NoError(t, err)
	assert.Equal(t, "active_stack_id: abc123\nupdated_at: 2026-10-17T12:00:00Z\n", string(data))

	id, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	entries, err := afero.ReadDir(fs, "/work/.stackconsole")
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")
	assert.Equal(t, "session.yaml", entries[0].Name())
}

func TestFileStoreInvalidYAML(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, DefaultFile, []byte("active_stack_id: [\n"), 0o644))

	_, err := NewFileStore(fs, DefaultFile).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse session file")
}

func TestFileStoreSharedAcrossCells(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()

	first, err := NewPersistentCell(NewFileStore(fs, DefaultFile))
	require.NoError(t, err)
	_, err = first.Set("abc123")
	require.NoError(t, err)

	second, err := NewPersistentCell(NewFileStore(fs, DefaultFile))
	require.NoError(t, err)
	id, err := second.Get()
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
}
