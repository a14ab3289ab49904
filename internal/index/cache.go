package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/tldrs/internal/types"
)

// CacheKey hashes the workspace path, the build options that change what
// the index contains (IncludeSources populates SourceCache; LanguageHint
// filters which files are added), and every scanned file's mtime, so a
// cache entry is only reused when nothing relevant has changed since it
// was written (spec §6 "On-disk state": index.cache). Order matters for
// determinism, so paths must already be sorted (scanFiles guarantees this).
func CacheKey(root string, paths []string, opts Options) (string, error) {
	var b strings.Builder
	b.WriteString(root)
	fmt.Fprintf(&b, "\nsources:%v", opts.IncludeSources)
	if opts.LanguageHint != nil {
		fmt.Fprintf(&b, "\nlang:%d", *opts.LanguageHint)
	}
	for _, p := range paths {
		info, err := os.Stat(filepath.Join(root, p))
		if err != nil {
			// A file that vanished mid-scan invalidates the key rather than
			// erroring the whole build; its absence is itself a state change.
			continue
		}
		fmt.Fprintf(&b, "\n%s:%d", p, info.ModTime().UnixNano())
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String())), nil
}

type cacheFile struct {
	Key   string              `json:"key"`
	Index *types.ProjectIndex `json:"index"`
}

// LoadCache reads <workspace>/.tldrs/index.cache and returns the stored
// index if its key matches wantKey. A missing file, a parse failure, or a
// key mismatch are all reported as (nil, false) rather than an error — a
// cache miss is never fatal, it just means Build runs instead.
func LoadCache(workspace, wantKey string) (*types.ProjectIndex, bool) {
	data, err := os.ReadFile(cachePath(workspace))
	if err != nil {
		return nil, false
	}
	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, false
	}
	if cf.Key != wantKey || cf.Index == nil {
		return nil, false
	}
	return cf.Index, true
}

// SaveCache persists idx under key, atomically (write-then-rename) so a
// crash mid-write never leaves a corrupt cache file behind.
func SaveCache(workspace, key string, idx *types.ProjectIndex) error {
	dir := filepath.Join(workspace, ".tldrs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(cacheFile{Key: key, Index: idx})
	if err != nil {
		return err
	}
	dest := cachePath(workspace)
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

func cachePath(workspace string) string {
	return filepath.Join(workspace, ".tldrs", "index.cache")
}
