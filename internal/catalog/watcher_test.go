package catalog

// Test Plan for FileWatcher:
// - Writing a watched file triggers one debounced reload
// - A burst of writes collapses into a single reload
// - Files outside the watched set are ignored
// - Reload errors are tolerated and watching continues
// - Stop is idempotent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockReloadable implements Reloadable interface for testing.
type mockReloadable struct {
	reloadCount atomic.Int32
	reloadErr   error
}

func (m *mockReloadable) Reload(ctx context.Context) error {
	m.reloadCount.Add(1)
	return m.reloadErr
}

func (m *mockReloadable) getReloadCount() int {
	return int(m.reloadCount.Load())
}

func startWatcher(t *testing.T, mock Reloadable, files ...string) *FileWatcher {
	t.Helper()

	watcher, err := NewFileWatcher(mock, files, 50*time.Millisecond, nil)
	require.NoError(t, err)
	watcher.Start(context.Background())
	t.Cleanup(watcher.Stop)
	return watcher
}

func TestFileWatcher_ReloadsOnWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "neos.csv")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	mock := &mockReloadable{}
	startWatcher(t, mock, path)

	require.NoError(t, os.WriteFile(path, []byte("b"), 0644))

	require.Eventually(t, func() bool { return mock.getReloadCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestFileWatcher_DebouncesBursts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "cad.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	mock := &mockReloadable{}
	startWatcher(t, mock, path)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return mock.getReloadCount() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, mock.getReloadCount())
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "neos.csv")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	mock := &mockReloadable{}
	startWatcher(t, mock, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, mock.getReloadCount())
}

func TestFileWatcher_ContinuesAfterReloadError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "neos.csv")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	mock := &mockReloadable{reloadErr: errors.New("bad data")}
	startWatcher(t, mock, path)

	require.NoError(t, os.WriteFile(path, []byte("b"), 0644))
	require.Eventually(t, func() bool { return mock.getReloadCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("c"), 0644))
	require.Eventually(t, func() bool { return mock.getReloadCount() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestFileWatcher_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	watcher, err := NewFileWatcher(&mockReloadable{}, []string{filepath.Join(dir, "neos.csv")}, 10*time.Millisecond, nil)
	require.NoError(t, err)
	watcher.Start(context.Background())

	watcher.Stop()
	watcher.Stop()
}
