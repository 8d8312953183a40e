package fsnotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsWatchedFileChanges(t *testing.T) {
	dir := t.TempDir()
	glossary := filepath.Join(dir, "terms.csv")
	other := filepath.Join(dir, "unrelated.txt")
	require.NoError(t, os.WriteFile(glossary, []byte("a,b\n"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changes := make(chan string, 8)
	require.NoError(t, w.Watch([]string{glossary}, func(path string) {
		changes <- path
	}))

	// Change to an unwatched sibling must not fire.
	require.NoError(t, os.WriteFile(other, []byte("y"), 0o644))
	require.NoError(t, os.WriteFile(glossary, []byte("a,b\nc,d\n"), 0o644))

	select {
	case path := <-changes:
		assert.Equal(t, glossary, path)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event for watched file")
	}

	select {
	case path := <-changes:
		t.Fatalf("unexpected event for %s", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_ChmodDoesNotSuppressWrite(t *testing.T) {
	dir := t.TempDir()
	glossary := filepath.Join(dir, "terms.csv")
	require.NoError(t, os.WriteFile(glossary, []byte("a,b\n"), 0o644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changes := make(chan string, 8)
	require.NoError(t, w.Watch([]string{glossary}, func(path string) {
		changes <- path
	}))

	// A chmod right before a save must not eat the write's debounce window.
	require.NoError(t, os.Chmod(glossary, 0o600))
	require.NoError(t, os.WriteFile(glossary, []byte("a,b\nc,d\n"), 0o644))

	select {
	case path := <-changes:
		assert.Equal(t, glossary, path)
	case <-time.After(2 * time.Second):
		t.Fatal("write right after chmod was not reported")
	}
}

func TestWatcher_UpdateExtendsWatchSet(t *testing.T) {
	dir := t.TempDir()
	glossary := filepath.Join(dir, "terms.csv")
	added := filepath.Join(dir, "extra", "more.csv")
	require.NoError(t, os.WriteFile(glossary, []byte("a,b\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Dir(added), 0o755))
	require.NoError(t, os.WriteFile(added, []byte("c,d\n"), 0o644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changes := make(chan string, 8)
	require.NoError(t, w.Watch([]string{glossary}, func(path string) {
		changes <- path
	}))

	require.NoError(t, w.Update([]string{glossary, added}))
	require.NoError(t, os.WriteFile(added, []byte("c,d\ne,f\n"), 0o644))

	select {
	case path := <-changes:
		assert.Equal(t, added, path)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event for file added via Update")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
