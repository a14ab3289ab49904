package index

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/tldrs/internal/debug"
)

// Watcher watches a workspace tree for file changes and invokes a rebuild
// callback once a burst of events goes quiet, following the teacher's
// FileWatcher/eventDebouncer split (internal/indexing/watcher.go) collapsed
// to the one thing the Coordinator actually needs: "something changed,
// rebuild" (spec §5 "Invalidation... marked stale and rebuilt on next
// request"). Unlike the teacher, it does not classify create/write/remove
// separately — BuildIndex always re-scans the whole tree.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	excludes []string
	debounce time.Duration
	onChange func()

	mu    sync.Mutex
	timer *time.Timer

	done chan struct{}
}

// NewWatcher creates a Watcher rooted at root. onChange is invoked from a
// timer goroutine after debounce has elapsed since the last observed
// fsnotify event anywhere in the tree. Invocations are not serialized: if a
// new burst settles while a previous onChange is still running, both run
// concurrently.
func NewWatcher(root string, excludes []string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		root:     root,
		excludes: excludes,
		debounce: debounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	if err := w.addDirs(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start runs the event loop until Close is called. Callers typically run it
// in its own goroutine.
func (w *Watcher) Start() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.Printf("watch: fsnotify error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the event loop and releases the underlying fsnotify watcher.
// Pending debounce timers are stopped, not flushed — a change observed right
// before shutdown does not trigger a rebuild.
func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) handle(ev fsnotify.Event) {
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		rel = ev.Name
	}
	slashRel := filepath.ToSlash(rel)
	for _, ex := range w.excludes {
		if ok, _ := doublestar.Match(ex, slashRel); ok {
			return
		}
	}

	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if addErr := w.fsw.Add(ev.Name); addErr != nil {
				debug.Printf("watch: failed to add new directory %s: %v", ev.Name, addErr)
			}
		}
	}

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
	w.mu.Unlock()
}

// addDirs recursively registers a watch on root and every non-excluded
// subdirectory; fsnotify only watches the directories it's told about, not
// their descendants.
func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root {
			rel, relErr := filepath.Rel(root, path)
			if relErr == nil {
				slashRel := filepath.ToSlash(rel)
				for _, ex := range w.excludes {
					if ok, _ := doublestar.Match(ex, slashRel+"/"); ok {
						return filepath.SkipDir
					}
				}
			}
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			debug.Printf("watch: failed to add directory %s: %v", path, addErr)
		}
		return nil
	})
}
