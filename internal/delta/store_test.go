package delta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/tldrs/internal/types"
)

func TestReconcile_FirstTurn_NothingUnchanged(t *testing.T) {
	store := New(t.TempDir())
	now := time.Now()

	unchanged, err := store.Reconcile("sess-1", []SliceEtag{
		{ID: "a.go:Foo", Etag: "aaaa1111bbbb2222"},
		{ID: "a.go:Bar", Etag: "cccc3333dddd4444"},
	}, now)

	require.NoError(t, err)
	assert.Empty(t, unchanged)
	assert.NotNil(t, unchanged) // distinguishes delta-mode-empty from non-delta nil
}

func TestReconcile_SecondTurn_UnchangedEtagsElided(t *testing.T) {
	store := New(t.TempDir())
	now := time.Now()

	slices := []SliceEtag{
		{ID: "a.go:Foo", Etag: "aaaa1111bbbb2222"},
		{ID: "a.go:Bar", Etag: "cccc3333dddd4444"},
	}
	_, err := store.Reconcile("sess-1", slices, now)
	require.NoError(t, err)

	unchanged, err := store.Reconcile("sess-1", slices, now.Add(time.Minute))
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.SymbolID{"a.go:Foo", "a.go:Bar"}, unchanged)
}

func TestReconcile_ChangedEtag_NotUnchanged(t *testing.T) {
	store := New(t.TempDir())
	now := time.Now()

	_, err := store.Reconcile("sess-1", []SliceEtag{{ID: "a.go:Foo", Etag: "old"}}, now)
	require.NoError(t, err)

	unchanged, err := store.Reconcile("sess-1", []SliceEtag{{ID: "a.go:Foo", Etag: "new"}}, now)
	require.NoError(t, err)
	assert.Empty(t, unchanged)
}

func TestSessionCount_CountsPersistedSessions(t *testing.T) {
	store := New(t.TempDir())
	now := time.Now()

	assert.Equal(t, 0, store.SessionCount())

	_, err := store.Reconcile("sess-1", []SliceEtag{{ID: "a.go:Foo", Etag: "x"}}, now)
	require.NoError(t, err)
	_, err = store.Reconcile("sess-2", []SliceEtag{{ID: "a.go:Foo", Etag: "x"}}, now)
	require.NoError(t, err)

	assert.Equal(t, 2, store.SessionCount())
}

func TestGC_RemovesStaleSessions(t *testing.T) {
	store := New(t.TempDir())
	old := time.Now().Add(-48 * time.Hour)

	_, err := store.Reconcile("stale", []SliceEtag{{ID: "a.go:Foo", Etag: "x"}}, old)
	require.NoError(t, err)

	_, err = store.load("stale")
	require.NoError(t, err)

	store.gc(time.Now())

	_, err = store.load("stale")
	assert.Error(t, err)
}
