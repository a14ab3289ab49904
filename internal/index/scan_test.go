package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
}

func TestScanFiles_OrdersPathsAscending(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.go")
	writeFile(t, root, "a.go")

	paths, err := scanFiles(root, ScanOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, paths)
}

func TestScanFiles_SkipsBuiltinExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go")
	writeFile(t, root, "node_modules/pkg/index.js")
	writeFile(t, root, ".git/HEAD")

	paths, err := scanFiles(root, ScanOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, paths)
}

func TestScanFiles_IncludeGlobRestrictsToMatches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go")
	writeFile(t, root, "notes.txt")

	paths, err := scanFiles(root, ScanOptions{Include: []string{"**/*.go"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, paths)
}

func TestScanFiles_ExtraExcludeMergesWithBuiltin(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go")
	writeFile(t, root, "vendor/dep.go")

	paths, err := scanFiles(root, ScanOptions{Exclude: []string{"**/vendor/**"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, paths)
}

func TestExcludePatterns_IncludesBuiltinAndExtra(t *testing.T) {
	root := t.TempDir()
	patterns := ExcludePatterns(root, []string{"**/tmp/**"})
	assert.Contains(t, patterns, "**/node_modules/**")
	assert.Contains(t, patterns, "**/tmp/**")
}
