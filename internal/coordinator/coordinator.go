// Package coordinator implements the transport-agnostic Coordinator/Daemon
// request contract (spec §6): BuildIndex, ResolveEntry, Pack, DiffPack, and
// Status. It owns the shared immutable ProjectIndex, swapping it atomically
// on rebuild, and enforces the per-operation soft deadlines and per-session
// serialization described in §5.
package coordinator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/standardbeagle/tldrs/internal/candidates"
	"github.com/standardbeagle/tldrs/internal/config"
	"github.com/standardbeagle/tldrs/internal/debug"
	"github.com/standardbeagle/tldrs/internal/delta"
	"github.com/standardbeagle/tldrs/internal/diffmap"
	coreerrors "github.com/standardbeagle/tldrs/internal/errors"
	"github.com/standardbeagle/tldrs/internal/index"
	"github.com/standardbeagle/tldrs/internal/pack"
	"github.com/standardbeagle/tldrs/internal/resolve"
	"github.com/standardbeagle/tldrs/internal/tokenest"
	"github.com/standardbeagle/tldrs/internal/types"
)

// indexState is the atomic-pointer payload: a fully-built ProjectIndex plus
// the metadata Status needs (build time, file count), swapped as one unit on
// rebuild so readers never observe a half-updated pair (spec §5
// "Shared-resource policy").
type indexState struct {
	idx       *types.ProjectIndex
	builtAt   time.Time
	fileCount int
}

// Coordinator is the single entry point request handlers call into. One
// Coordinator serves one workspace; callers managing several workspaces run
// one Coordinator per workspace (build locks never cross workspaces, per
// §5 "different workspaces proceed in parallel").
type Coordinator struct {
	workspace string
	cfg       *config.Config
	estimator tokenest.Estimator

	state atomic.Pointer[indexState]

	building int32 // atomic bool: a rebuild is in flight for this workspace

	store *delta.Store
}

// New wires a Coordinator for one workspace using cfg's timeouts and
// tokenizer choice; sessionDir is where the Delta State Store persists
// sessions/<id>.json (spec §6 "On-disk state").
func New(workspace string, cfg *config.Config, sessionDir string) *Coordinator {
	return &Coordinator{
		workspace: workspace,
		cfg:       cfg,
		estimator: cfg.Estimator(),
		store:     delta.New(sessionDir),
	}
}

// BuildIndex runs one index build and atomically publishes it, returning a
// fingerprint of the published index's (SymbolID, signature) pairs; it
// changes when symbols or their signatures change, not when only a body
// changes. A build already in flight for this
// Coordinator's workspace causes a second concurrent BuildIndex to block
// until the first completes and its index is published (§5 "build lock
// serializes builders... different workspaces proceed in parallel").
func (c *Coordinator) BuildIndex(ctx context.Context, opts index.Options) (string, error) {
	if !atomic.CompareAndSwapInt32(&c.building, 0, 1) {
		// Another build is in flight; wait for it rather than racing a
		// second build of the same workspace.
		for atomic.LoadInt32(&c.building) == 1 {
			select {
			case <-ctx.Done():
				return "", coreerrors.Cancelled("build_index")
			case <-time.After(10 * time.Millisecond):
			}
		}
		if st := c.state.Load(); st != nil {
			return fingerprint(st.idx), nil
		}
	}
	defer atomic.StoreInt32(&c.building, 0)

	deadline := time.Duration(c.cfg.Timeouts.IndexBuildSec) * time.Second
	bctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	idx, err := index.Build(bctx, c.workspace, opts)
	if err != nil {
		if bctx.Err() == context.DeadlineExceeded {
			return "", coreerrors.Timeout("build_index")
		}
		return "", coreerrors.Internal("build_index", err)
	}

	// Memoize the reverse call graph before publishing: candidate expansion
	// reads it from concurrent requests, and ReverseCalls only stays
	// read-only once it has been built.
	idx.ReverseCalls()

	c.state.Store(&indexState{idx: idx, builtAt: time.Now(), fileCount: len(idx.FileIdx)})
	return fingerprint(idx), nil
}

// WatchForChanges starts a background file watcher over the workspace that
// triggers a full BuildIndex (with opts) once a burst of changes settles,
// implementing §5's invalidation without requiring every caller to poll.
// The returned close func stops the watcher; ctx governs the rebuilds it
// triggers, not the watcher's own lifetime.
func (c *Coordinator) WatchForChanges(ctx context.Context, opts index.Options) (func() error, error) {
	debounce := time.Duration(c.cfg.WatchDebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = time.Duration(config.DefaultWatchDebounceMs) * time.Millisecond
	}
	excludes := index.ExcludePatterns(c.workspace, c.cfg.Workspace.Exclude)

	w, err := index.NewWatcher(c.workspace, excludes, debounce, func() {
		if _, err := c.BuildIndex(ctx, opts); err != nil {
			debug.Printf("coordinator: watch-triggered rebuild failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("start watcher: %w", err)
	}
	go w.Start()
	return w.Close, nil
}

func fingerprint(idx *types.ProjectIndex) string {
	pairs := make(map[types.SymbolID]string, len(idx.Symbols))
	for id, sym := range idx.Symbols {
		pairs[id] = sym.Signature
	}
	return pack.ProjectFingerprint(pairs)
}

// currentIndex returns the published index, or IndexUnavailable if no build
// has completed yet.
func (c *Coordinator) currentIndex() (*types.ProjectIndex, error) {
	st := c.state.Load()
	if st == nil {
		return nil, coreerrors.IndexUnavailable("current_index")
	}
	return st.idx, nil
}

// ResolveEntry resolves a short name, qualified name, or "path:name" entry
// against the published index.
func (c *Coordinator) ResolveEntry(entry string) (resolve.Result, error) {
	idx, err := c.currentIndex()
	if err != nil {
		return resolve.Result{}, err
	}
	r := resolve.Entry(idx, entry)
	if r.Unknown() {
		return r, coreerrors.UnknownEntry(entry).WithDetail(fmt.Sprintf("%d suggestions", len(r.Suggestions)))
	}
	if r.Ambiguous() {
		return r, coreerrors.AmbiguousEntry(entry)
	}
	return r, nil
}

// PackRequest carries the parameters shared by Pack and DiffPack.
type PackRequest struct {
	Depth           uint8
	Budget          int
	Zoom            types.Zoom
	Compress        types.CompressMode
	StripComments   bool
	CompressImports bool
	SessionID       string
	CandidateCap    int // 0 means candidates.DefaultCap(Budget)
}

// Pack resolves seed to candidates via a tagged BFS and packs them (spec §6
// `Pack` request: seed, depth, budget, options -> ContextPack).
func (c *Coordinator) Pack(ctx context.Context, seeds []types.SymbolID, req PackRequest) (types.ContextPack, error) {
	idx, err := c.currentIndex()
	if err != nil {
		return types.ContextPack{}, err
	}

	s := make([]candidates.Seed, 0, len(seeds))
	for _, id := range seeds {
		if _, ok := idx.Symbols[id]; !ok {
			return types.ContextPack{}, coreerrors.UnknownEntry(string(id))
		}
		s = append(s, candidates.Seed{SymbolID: id, Relevance: types.Relevance{Tag: types.RelevanceEntryPoint}})
	}
	return c.packFrom(ctx, idx, s, nil, req)
}

// DiffPack maps hunks to symbols via the Diff Mapper, seeds the candidate
// builder with ContainsDiff tags, and packs the result (spec §6 `DiffPack`).
func (c *Coordinator) DiffPack(ctx context.Context, hunks []types.Hunk, req PackRequest) (types.ContextPack, error) {
	idx, err := c.currentIndex()
	if err != nil {
		return types.ContextPack{}, err
	}

	mapped := diffmap.Map(idx, hunks)
	seeds := make([]candidates.Seed, 0, len(mapped.Mapping))
	diffLines := make(map[types.SymbolID][]types.LineRange, len(mapped.Mapping))
	for _, sh := range mapped.Mapping {
		seeds = append(seeds, candidates.Seed{SymbolID: sh.SymbolID, Relevance: types.Relevance{Tag: types.RelevanceContainsDiff}})
		diffLines[sh.SymbolID] = sh.Lines
	}
	return c.packFrom(ctx, idx, seeds, diffLines, req)
}

func (c *Coordinator) packFrom(ctx context.Context, idx *types.ProjectIndex, seeds []candidates.Seed, diffLines map[types.SymbolID][]types.LineRange, req PackRequest) (types.ContextPack, error) {
	deadline := time.Duration(c.cfg.Timeouts.PackSec) * time.Second
	pctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	cands := candidates.Build(idx, seeds, req.Depth, diffLines)
	cap := req.CandidateCap
	if cap == 0 {
		cap = candidates.DefaultCap(req.Budget)
	}
	cands = candidates.Cap(cands, cap)

	select {
	case <-pctx.Done():
		return types.ContextPack{}, coreerrors.Timeout("pack")
	default:
	}

	p := pack.Pack(idx, cands, req.Budget, pack.Options{
		Zoom:            req.Zoom,
		Compress:        req.Compress,
		StripComments:   req.StripComments,
		CompressImports: req.CompressImports,
		SessionID:       req.SessionID,
		Estimator:       c.estimator,
		DeltaStore:      c.store,
	})
	return p, nil
}

// Status reports the published index's age, symbol count, and (best-effort)
// session count for the `Status` request (spec §6).
type Status struct {
	IndexAge     time.Duration
	SymbolCount  int
	FileCount    int
	SessionCount int
}

// Estimator returns the tokenizer this Coordinator was configured with, so
// callers rendering a pack (e.g. the cache-friendly serializer) report
// token counts consistent with the budget accounting that produced it.
func (c *Coordinator) Estimator() tokenest.Estimator {
	return c.estimator
}

func (c *Coordinator) Status() Status {
	st := c.state.Load()
	if st == nil {
		return Status{}
	}
	return Status{
		IndexAge:     time.Since(st.builtAt),
		SymbolCount:  len(st.idx.Symbols),
		FileCount:    st.fileCount,
		SessionCount: c.store.SessionCount(),
	}
}
