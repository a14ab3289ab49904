// Package config loads tldrs's two-tier configuration: a global
// ~/.tldrs.kdl (machine-wide defaults) merged with a project-level
// .tldrs.kdl at the workspace root, the project config taking precedence
// except for exclude patterns, which accumulate across tiers rather than
// overriding one another (spec §9 "Configuration").
package config

import (
	"os"
	"path/filepath"

	"github.com/standardbeagle/tldrs/internal/tokenest"
)

// Timeouts holds the per-operation soft deadlines the Coordinator enforces
// via context.WithTimeout (spec §5 "Timeouts").
type Timeouts struct {
	IndexBuildSec int
	PackSec       int
	CompressSec   int
}

// DefaultTimeouts matches spec §5: index build 120s, pack 60s, compress 30s.
func DefaultTimeouts() Timeouts {
	return Timeouts{IndexBuildSec: 120, PackSec: 60, CompressSec: 30}
}

// Workspace holds the user-configured include/exclude glob overlay for a
// scan (spec §6 "Workspace config"). internal/index adds its own builtin
// excludes and build-artifact detection on top of these — Exclude here is
// only what .tldrs.kdl itself contributed, not the final merged list.
type Workspace struct {
	Root    string
	Include []string
	Exclude []string
}

type Config struct {
	Version   int
	Workspace Workspace
	Timeouts  Timeouts

	// PreciseTokenizer selects tokenest.WordPunct over the len/4 fallback;
	// resolved once at process startup and held fixed (spec §9).
	PreciseTokenizer bool

	// WatchDebounceMs is how long the file watcher waits after the last
	// observed change in a burst before triggering a rebuild (spec §5
	// "Invalidation... marked stale and rebuilt on next request").
	WatchDebounceMs int
}

// DefaultWatchDebounceMs matches the teacher's watcher default.
const DefaultWatchDebounceMs = 500

// Estimator resolves the tokenizer the process should use, fixed for its
// lifetime per the tokenest package's own contract.
func (c *Config) Estimator() tokenest.Estimator {
	return tokenest.Resolve(c.PreciseTokenizer)
}

// Load is Load with no explicit root override, matching the teacher's
// Load/LoadWithRoot split.
func Load(workspaceRoot string) (*Config, error) {
	return LoadWithRoot(workspaceRoot)
}

// LoadWithRoot loads the global config from $HOME/.tldrs.kdl (if present),
// the project config from <workspaceRoot>/.tldrs.kdl (if present), and
// merges them: project settings win, but exclude patterns from both tiers
// accumulate (deduplicated) rather than one replacing the other.
func LoadWithRoot(workspaceRoot string) (*Config, error) {
	var base *kdlConfig
	if home, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := loadKDL(home); err == nil && globalCfg != nil {
			base = globalCfg
		}
	}

	project, err := loadKDL(workspaceRoot)
	if err != nil {
		return nil, err
	}

	var merged *kdlConfig
	switch {
	case base != nil && project != nil:
		merged = mergeKDL(base, project)
	case project != nil:
		merged = project
	case base != nil:
		merged = base
	default:
		merged = defaultKDL()
	}

	absRoot, err := filepath.Abs(workspaceRoot)
	if err != nil {
		absRoot = workspaceRoot
	}
	merged.workspace.Root = absRoot
	merged.workspace.Exclude = dedupe(merged.workspace.Exclude)

	cfg := &Config{
		Version:          1,
		Workspace:        merged.workspace,
		Timeouts:         merged.timeouts,
		PreciseTokenizer: merged.preciseTokenizer,
		WatchDebounceMs:  merged.watchDebounceMs,
	}
	return cfg, nil
}

func dedupe(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
