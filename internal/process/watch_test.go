package process_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lambda-feedback/appshim/internal/process"
)

func startWatcher(t *testing.T, dir string, changes *atomic.Int32) {
	w, err := process.NewWatcher([]string{dir}, 20*time.Millisecond, func() {
		changes.Add(1)
	}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)

	t.Cleanup(func() {
		cancel()
		w.Close()
	})
}

func TestWatcher_NotifiesOnChange(t *testing.T) {
	dir := t.TempDir()

	var changes atomic.Int32
	startWatcher(t, dir, &changes)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "views.py"), []byte("x = 1"), 0o644))

	require.Eventually(t, func() bool {
		return changes.Load() > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_WatchesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "app")
	require.NoError(t, os.Mkdir(sub, 0o755))

	var changes atomic.Int32
	startWatcher(t, dir, &changes)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "models.py"), []byte("x = 1"), 0o644))

	require.Eventually(t, func() bool {
		return changes.Load() > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresBytecode(t *testing.T) {
	dir := t.TempDir()

	var changes atomic.Int32
	startWatcher(t, dir, &changes)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "views.pyc"), []byte{0}, 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, changes.Load())
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := process.NewWatcher([]string{filepath.Join(t.TempDir(), "missing")}, 0, func() {}, zap.NewNop())
	assert.Error(t, err)
}
