package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// kdlConfig is the subset of Config that comes directly off a parsed
// .tldrs.kdl document, before LoadWithRoot merges the tiers and sets the
// workspace root. Builtin excludes and build-artifact detection are not
// added here; internal/index applies them when it scans.
type kdlConfig struct {
	workspace        Workspace
	timeouts         Timeouts
	preciseTokenizer bool
	watchDebounceMs  int
}

func defaultKDL() *kdlConfig {
	return &kdlConfig{
		timeouts:        DefaultTimeouts(),
		watchDebounceMs: DefaultWatchDebounceMs,
	}
}

// loadKDL reads <dir>/.tldrs.kdl, returning (nil, nil) if it doesn't exist —
// the same "absence is not an error" contract the teacher's LoadKDL uses.
func loadKDL(dir string) (*kdlConfig, error) {
	path := filepath.Join(dir, ".tldrs.kdl")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read .tldrs.kdl: %w", err)
	}
	return parseKDL(string(content))
}

func parseKDL(content string) (*kdlConfig, error) {
	cfg := defaultKDL()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse .tldrs.kdl: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "include":
			cfg.workspace.Include = append(cfg.workspace.Include, collectStringArgs(n)...)
		case "exclude":
			cfg.workspace.Exclude = append(cfg.workspace.Exclude, collectStringArgs(n)...)
		case "timeouts":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "index_build_sec":
					if v, ok := firstIntArg(cn); ok {
						cfg.timeouts.IndexBuildSec = v
					}
				case "pack_sec":
					if v, ok := firstIntArg(cn); ok {
						cfg.timeouts.PackSec = v
					}
				case "compress_sec":
					if v, ok := firstIntArg(cn); ok {
						cfg.timeouts.CompressSec = v
					}
				}
			}
		case "tokenizer":
			if s, ok := firstStringArg(n); ok {
				cfg.preciseTokenizer = s == "precise"
			}
		case "watch":
			for _, cn := range n.Children {
				if nodeName(cn) == "debounce_ms" {
					if v, ok := firstIntArg(cn); ok {
						cfg.watchDebounceMs = v
					}
				}
			}
		}
	}

	return cfg, nil
}

// mergeKDL merges a base (global) config with a project config: the
// project's settings win, but exclude patterns from both tiers accumulate
// (deduplicated), matching the teacher's mergeConfigs "preserve base
// exclusions" contract.
func mergeKDL(base, project *kdlConfig) *kdlConfig {
	merged := *project

	if len(base.workspace.Exclude) > 0 {
		merged.workspace.Exclude = dedupe(append(append([]string{}, base.workspace.Exclude...), project.workspace.Exclude...))
	}
	if len(project.workspace.Include) == 0 && len(base.workspace.Include) > 0 {
		merged.workspace.Include = base.workspace.Include
	}

	return &merged
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if n == nil || len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if n == nil || len(n.Arguments) == 0 {
		return "", false
	}
	s, ok := n.Arguments[0].Value.(string)
	return s, ok
}

// collectStringArgs reads a node's string list either from its inline
// arguments (`exclude "a" "b"`) or, if absent, from its children's node
// names (block form: `exclude { "a" "b" }`) — both shapes are valid KDL
// and the teacher's config accepts either.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
