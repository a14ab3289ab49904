package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/tldrs/internal/types"
)

func TestCacheKey_ChangesWhenFileMtimeChanges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go")

	k1, err := CacheKey(root, []string{"a.go"}, Options{})
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, "a.go"), future, future))

	k2, err := CacheKey(root, []string{"a.go"}, Options{})
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestCacheKey_ChangesWithIncludeSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go")

	k1, err := CacheKey(root, []string{"a.go"}, Options{IncludeSources: false})
	require.NoError(t, err)
	k2, err := CacheKey(root, []string{"a.go"}, Options{IncludeSources: true})
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestSaveAndLoadCache_RoundTrips(t *testing.T) {
	root := t.TempDir()
	idx := types.NewProjectIndex()
	sym := &types.Symbol{ID: types.NewSymbolID("a.go", "Foo"), Name: "Foo", File: "a.go"}
	idx.Symbols[sym.ID] = sym

	require.NoError(t, SaveCache(root, "key-1", idx))

	loaded, hit := LoadCache(root, "key-1")
	require.True(t, hit)
	assert.Contains(t, loaded.Symbols, sym.ID)

	_, hit = LoadCache(root, "key-2")
	assert.False(t, hit)
}

func TestLoadCache_MissingFile(t *testing.T) {
	_, hit := LoadCache(t.TempDir(), "anything")
	assert.False(t, hit)
}
