// Package delta implements the Delta State Store (spec §4.7): per-session
// etag bookkeeping on disk so a multi-turn Pack can elide bodies the caller
// already has. Sessions are individually locked; the store itself holds no
// state beyond its directory path and the per-session lock table.
package delta

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/standardbeagle/tldrs/internal/debug"
	"github.com/standardbeagle/tldrs/internal/types"
)

// gcInterval is how stale a session must be before a GC sweep removes it.
const gcInterval = 24 * time.Hour

// gcProbability is the chance any single Reconcile also runs a GC sweep.
const gcProbability = 0.01

// Store is a directory of per-session JSON files.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Store rooted at dir. dir is created lazily on first write.
func New(dir string) *Store {
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// SliceEtag is the minimal view Reconcile needs of a packed slice.
type SliceEtag struct {
	ID   types.SymbolID
	Etag string
}

// Reconcile runs §4.7's algorithm: load the session, mark slices whose etag
// already matches the stored value as unchanged, update the stored etags,
// and atomically persist. now is passed in rather than read from time.Now()
// so callers can keep a single clock for one Pack operation.
func (s *Store) Reconcile(sessionID string, slices []SliceEtag, now time.Time) (unchanged []types.SymbolID, writeErr error) {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.load(sessionID)
	if err != nil {
		debug.Printf("delta: load failed for session %s, treating as empty: %v", sessionID, err)
		state = types.NewSessionState(sessionID, now)
	}

	unchanged = []types.SymbolID{}
	for _, sl := range slices {
		if existing, ok := state.Entries[sl.ID]; ok && existing == sl.Etag {
			unchanged = append(unchanged, sl.ID)
		}
		state.Entries[sl.ID] = sl.Etag
	}
	state.LastUsedAt = now

	if err := s.save(state); err != nil {
		debug.Printf("delta: save failed for session %s: %v", sessionID, err)
		writeErr = err
	}

	if rand.Float64() < gcProbability {
		s.gc(now)
	}

	return unchanged, writeErr
}

func (s *Store) lockFor(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

// SessionCount returns the number of session files currently on disk. Used
// for status reporting only; it does not take the per-session locks, so a
// concurrent Reconcile may cause an off-by-one against a file mid-rename.
func (s *Store) SessionCount() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			n++
		}
	}
	return n
}

func (s *Store) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}

func (s *Store) load(sessionID string) (*types.SessionState, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		return nil, err
	}
	return types.DecodeSessionFile(data)
}

// save writes state atomically: write to a temp file in the same directory,
// then rename over the destination, so a crash mid-write never leaves a
// corrupt session file in place.
func (s *Store) save(state *types.SessionState) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := state.EncodeFile()
	if err != nil {
		return err
	}
	dest := s.path(state.SessionID)
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// gc removes session files whose last_used_at predates gcInterval. Errors
// reading individual files are skipped rather than aborting the sweep.
func (s *Store) gc(now time.Time) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		full := filepath.Join(s.dir, e.Name())
		data, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		var raw struct {
			LastUsedAt string `json:"last_used_at"`
		}
		if json.Unmarshal(data, &raw) != nil {
			continue
		}
		lastUsed, err := time.Parse(time.RFC3339Nano, raw.LastUsedAt)
		if err != nil {
			continue
		}
		if now.Sub(lastUsed) > gcInterval {
			os.Remove(full)
		}
	}
}
