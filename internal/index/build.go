// Package index implements the Project Index (spec §4.2): a one-shot
// workspace scan producing an immutable, concurrently-shareable symbol
// table, name/file/range indices, and forward/reverse call graph.
package index

import (
	"context"
	"os"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/tldrs/internal/debug"
	"github.com/standardbeagle/tldrs/internal/extract"
	"github.com/standardbeagle/tldrs/internal/types"
)

// Options mirrors spec §4.2's build() parameters.
type Options struct {
	IncludeSources          bool
	IncludeRanges           bool
	IncludeReverseAdjacency bool
	LanguageHint            *types.Language
	Scan                    ScanOptions
	SignatureOverrides      extract.SignatureOverrides
}

type fileResult struct {
	path    string
	lang    types.Language
	content []byte
	result  *extract.Result
	err     error
}

// Build performs one complete index build as described in §4.2's sequence.
// Per-file extraction failures are logged and skipped; they never abort the
// build (§4.2 "Failure semantics"). A cache hit against .tldrs/index.cache
// (spec §6 "On-disk state") skips extraction entirely when the workspace
// path and every scanned file's mtime match a previously saved index.
func Build(ctx context.Context, workspace string, opts Options) (*types.ProjectIndex, error) {
	paths, err := scanFiles(workspace, opts.Scan)
	if err != nil {
		return nil, err
	}

	cacheKey, keyErr := CacheKey(workspace, paths, opts)
	if keyErr == nil {
		if cached, hit := LoadCache(workspace, cacheKey); hit {
			debug.Printf("index build: cache hit (%s), skipping extraction for %d files", cacheKey, len(paths))
			return cached, nil
		}
	}

	results := make([]fileResult, len(paths))

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)

	for i, p := range paths {
		i, p := i, p
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = extractOne(workspace, p, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil && err != context.Canceled {
		return nil, err
	}

	idx := types.NewProjectIndex()
	pendingCalls := make(map[types.SymbolID][]string)
	var extractErrs []error

	for _, r := range results {
		if opts.LanguageHint != nil && r.lang != *opts.LanguageHint {
			continue
		}
		if r.err != nil {
			extractErrs = append(extractErrs, r.err)
			debug.Printf("extraction failed for %s: %v", r.path, r.err)
			continue
		}
		if r.result == nil {
			continue
		}
		addFile(idx, r, opts, pendingCalls)
	}

	resolveCallGraph(idx, pendingCalls)

	if opts.IncludeReverseAdjacency {
		idx.BuildReverseCalls()
	}

	if len(extractErrs) > 0 {
		debug.Printf("index build completed with %d extraction failures", len(extractErrs))
	}

	if keyErr == nil {
		if err := SaveCache(workspace, cacheKey, idx); err != nil {
			debug.Printf("index build: failed to save cache: %v", err)
		}
	}

	return idx, nil
}

func extractOne(workspace, relPath string, opts Options) fileResult {
	full := workspace + string(os.PathSeparator) + relPath
	content, err := os.ReadFile(full)
	if err != nil {
		return fileResult{path: relPath, err: err}
	}
	lang := types.LanguageFromExt(extOf(relPath))

	e := extract.New()
	res, err := e.Extract(relPath, content, lang, opts.SignatureOverrides)

	fr := fileResult{path: relPath, lang: lang, result: res, err: err}
	if opts.IncludeSources {
		fr.content = content
	}
	return fr
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

func addFile(idx *types.ProjectIndex, r fileResult, opts Options, pendingCalls map[types.SymbolID][]string) {
	var ordered []types.SymbolID
	for i := range r.result.Symbols {
		s := r.result.Symbols[i]
		if existing, dup := idx.Symbols[s.ID]; dup {
			// Uniqueness invariant: on collision the later occurrence is
			// rejected and logged, not silently overwritten.
			debug.Printf("symbol id collision, rejecting later occurrence: %s (kept %s:%d)", s.ID, existing.File, existing.LineStart)
			continue
		}
		sym := s
		idx.Symbols[sym.ID] = &sym
		idx.NameIdx[sym.Name] = append(idx.NameIdx[sym.Name], sym.ID)
		ordered = append(ordered, sym.ID)
		// range_index is redundant with Symbol but retained for hot-path
		// lookups (§3); IncludeRanges only gates whether callers who want
		// it built eagerly can skip this and derive it from Symbols lazily
		// — here it's cheap enough to always populate.
		idx.RangeIdx[sym.ID] = types.LineRange{Start: sym.LineStart, End: sym.LineEnd}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return idx.Symbols[ordered[i]].LineStart < idx.Symbols[ordered[j]].LineStart
	})
	idx.FileIdx[r.path] = ordered

	if len(r.result.Imports) > 0 {
		idx.Imports[r.path] = r.result.Imports
	}
	if opts.IncludeSources && r.content != nil {
		if idx.SourceCache == nil {
			idx.SourceCache = make(map[string][]byte)
		}
		idx.SourceCache[r.path] = r.content
	}

	// Stash unresolved call-site names so resolveCallGraph can run after
	// every file has contributed its name_index entries (resolution needs
	// the *whole* project's names, not just the defining file's).
	for sid, names := range r.result.CallSites {
		if len(names) == 0 {
			continue
		}
		pendingCalls[sid] = names
	}
}
