package index

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// builtinExcludes is the static exclude list from spec §6. It is always
// applied: extra excludes and detected build-artifact directories are added
// to it, never substituted for it.
var builtinExcludes = []string{
	"**/node_modules/**",
	"**/target/**",
	"**/.git/**",
	"**/dist/**",
	"**/build/**",
	"**/.venv/**",
}

// ScanOptions controls file enumeration.
type ScanOptions struct {
	Include []string // glob patterns; empty means "all recognized extensions"
	Exclude []string // additional excludes, merged with builtinExcludes
}

// ExcludePatterns returns the full glob exclude list scanFiles would use for
// root: the builtin list, extra, and anything detectBuildArtifactExcludes
// finds. Exported so the file watcher can apply the same exclusion rules
// without duplicating them.
func ExcludePatterns(root string, extra []string) []string {
	excludes := append(append([]string(nil), builtinExcludes...), extra...)
	return append(excludes, detectBuildArtifactExcludes(root)...)
}

// scanFiles enumerates files under root honoring include/exclude globs,
// returning relative paths sorted ascending for deterministic build order
// (spec §4.2 step 1: "Order the list by path").
func scanFiles(root string, opts ScanOptions) ([]string, error) {
	excludes := ExcludePatterns(root, opts.Exclude)

	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable entries, never abort the scan
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if rel == "." {
			return nil
		}
		slashRel := filepath.ToSlash(rel)

		for _, ex := range excludes {
			if ok, _ := doublestar.Match(ex, slashRel); ok {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() {
			return nil
		}

		if len(opts.Include) > 0 {
			matched := false
			for _, inc := range opts.Include {
				if ok, _ := doublestar.Match(inc, slashRel); ok {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}

		out = append(out, slashRel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// detectBuildArtifactExcludes parses Cargo.toml/pyproject.toml, mirroring
// the teacher's build_artifact_detector.go, to extend the exclude list with
// language-specific output directories (a Rust `target-dir` override, a
// Python package's `*.egg-info`) beyond the static builtin list.
func detectBuildArtifactExcludes(root string) []string {
	var extra []string

	if data, err := os.ReadFile(filepath.Join(root, "Cargo.toml")); err == nil {
		var cargo struct {
			Profile map[string]struct {
				Dir string `toml:"target-dir"`
			} `toml:"profile"`
			Build struct {
				TargetDir string `toml:"target-dir"`
			} `toml:"build"`
		}
		if unmarshalTOML(data, &cargo) == nil {
			if cargo.Build.TargetDir != "" {
				extra = append(extra, "**/"+strings.Trim(cargo.Build.TargetDir, "/")+"/**")
			}
		}
	}

	if _, err := os.Stat(filepath.Join(root, "pyproject.toml")); err == nil {
		extra = append(extra, "**/*.egg-info/**", "**/__pycache__/**")
	}

	return extra
}
