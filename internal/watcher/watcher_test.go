package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsChildChanges(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	w, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	events := make(chan Event, 16)
	w.OnChange(func(e Event) { events <- e })
	require.NoError(t, w.Watch(dir))
	assert.Equal(t, dir, w.Dir())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0o644))

	select {
	case e := <-events:
		assert.Equal(t, dir, e.Dir)
		assert.Equal(t, filepath.Join(dir, "new.txt"), e.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatcher_SwitchDirectory(t *testing.T) {
	first, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	second, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	w, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	require.NoError(t, w.Watch(first))
	require.NoError(t, w.Watch(second))
	assert.Equal(t, second, w.Dir())

	events := make(chan Event, 16)
	w.OnChange(func(e Event) { events <- e })
	require.NoError(t, os.WriteFile(filepath.Join(first, "ignored.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(second, "seen.txt"), nil, 0o644))

	select {
	case e := <-events:
		assert.Equal(t, filepath.Join(second, "seen.txt"), e.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "missing")))
	assert.Empty(t, w.Dir())
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "create", EventCreate.String())
	assert.Equal(t, "update", EventWrite.String())
	assert.Equal(t, "remove", EventRemove.String())
	assert.Equal(t, "rename", EventRename.String())
}
