package index

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_TriggersOnChangeAfterDebounce(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go")

	var calls int32
	w, err := NewWatcher(root, nil, 30*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
	})
	require.NoError(t, err)
	defer w.Close()
	go w.Start()

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("y"), 0o644))

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestWatcher_CoalescesBurstIntoOneCall(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go")

	var calls int32
	w, err := NewWatcher(root, nil, 50*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
	})
	require.NoError(t, err)
	defer w.Close()
	go w.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("y"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestWatcher_ExcludedPathNeverTriggers(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))
	writeFile(t, root, "node_modules/dep.js")

	var calls int32
	w, err := NewWatcher(root, ExcludePatterns(root, nil), 30*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
	})
	require.NoError(t, err)
	defer w.Close()
	go w.Start()

	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "dep.js"), []byte("y"), 0o644))
	time.Sleep(150 * time.Millisecond)
	require.EqualValues(t, 0, atomic.LoadInt32(&calls))
}
