package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherFiresOnDatabaseWrite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "solia.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("seed"), 0o644))

	var fired atomic.Int32
	w, err := New(dbPath, 20*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Start(t.Context()))

	require.NoError(t, os.WriteFile(dbPath, []byte("changed"), 0o644))

	require.Eventually(t, func() bool {
		return fired.Load() >= 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "solia.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("seed"), 0o644))

	var fired atomic.Int32
	w, err := New(dbPath, 10*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Start(t.Context()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)

	assert.Zero(t, fired.Load())
}

func TestMatchesSidecars(t *testing.T) {
	w := &Watcher{dbPath: "/data/solia.db"}

	assert.True(t, w.matches("/data/solia.db"))
	assert.True(t, w.matches("/data/solia.db-wal"))
	assert.True(t, w.matches("/data/solia.db-journal"))
	assert.False(t, w.matches("/data/other.db"))
	assert.False(t, w.matches("/data/solia.dbx"))
}

func TestStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "solia.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("seed"), 0o644))

	w, err := New(dbPath, 10*time.Millisecond, func() {})
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context()))

	w.Stop()
	w.Stop()
}
