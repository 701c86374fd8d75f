package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rewrite replaces the file and bumps its modification time.
func rewrite(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

// idleDebounce keeps the background loop from consuming changes during Check tests.
const idleDebounce = time.Hour

func TestWatcherCheck(t *testing.T) {
	path := writeFile(t, "events.yaml", "- {name: first, date: 2000, significance: 5}")
	w, err := NewWatcher(path, idleDebounce)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	_, changed := w.Check()
	assert.False(t, changed, "baseline content is not a change")

	base := time.Now().Add(time.Hour)
	rewrite(t, path, "- {name: first, date: 2000, significance: 5}", base)
	_, changed = w.Check()
	assert.False(t, changed, "touch with identical content is not a change")

	rewrite(t, path, "- {name: second, date: 2001, significance: 6}", base.Add(time.Second))
	reload, changed := w.Check()
	require.True(t, changed)
	require.NoError(t, reload.Err)
	require.Len(t, reload.Events, 1)
	assert.Equal(t, "second", reload.Events[0].Name)
	assert.Equal(t, w.Path(), reload.Path)

	_, changed = w.Check()
	assert.False(t, changed, "a change is reported once")
}

func TestWatcherCheckFallsBack(t *testing.T) {
	path := writeFile(t, "events.json", `[{"name": "ok", "date": 2000, "significance": 5}]`)
	w, err := NewWatcher(path, idleDebounce)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	rewrite(t, path, `[{"name": "", "date": 2000, "significance": 5}]`, time.Now().Add(time.Hour))
	reload, changed := w.Check()
	require.True(t, changed)
	assert.Error(t, reload.Err)
	assert.Len(t, reload.Events, len(DefaultEvents()))

	require.NoError(t, os.Remove(path))
	reload, changed = w.Check()
	require.True(t, changed)
	assert.ErrorIs(t, reload.Err, os.ErrNotExist)

	_, changed = w.Check()
	assert.False(t, changed, "a missing file is reported once")

	rewrite(t, path, `[{"name": "back", "date": 2000, "significance": 5}]`, time.Now().Add(2*time.Hour))
	reload, changed = w.Check()
	require.True(t, changed)
	require.NoError(t, reload.Err)
	assert.Equal(t, "back", reload.Events[0].Name)
}

func TestWatcherDeliversReloads(t *testing.T) {
	path := writeFile(t, "events.yaml", "- {name: first, date: 2000, significance: 5}")
	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)

	rewrite(t, path, "- {name: updated, date: 2000, significance: 5}", time.Now().Add(time.Hour))

	select {
	case reload := <-w.Reloads():
		require.NoError(t, reload.Err)
		assert.Equal(t, "updated", reload.Events[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	_, open := <-w.Reloads()
	assert.False(t, open)
}

func TestNewWatcherErrors(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "events.txt"), 0)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = NewWatcher(filepath.Join(t.TempDir(), "nope", "events.yaml"), 0)
	assert.Error(t, err)
}
