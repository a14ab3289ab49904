// Package pack implements the Context Pack Engine (spec §4.5): it renders
// each candidate's code per its zoom level, fits slices into a token
// budget whole-or-degraded, compresses oversized bodies, and (in delta
// mode) elides bodies already delivered on a prior turn.
package pack

import (
	"strconv"
	"strings"
	"time"

	"github.com/standardbeagle/tldrs/internal/compress"
	"github.com/standardbeagle/tldrs/internal/delta"
	"github.com/standardbeagle/tldrs/internal/tokenest"
	"github.com/standardbeagle/tldrs/internal/types"
)

// Soft ceilings (in estimator tokens) that trigger the Block Compressor,
// one named constant per compress mode, fixed process-wide rather than
// scattered across call sites.
const (
	SoftCeilingBlocks       = 400
	SoftCeilingTwoStage     = 250
	SoftCeilingChunkSummary = 600
)

// Options mirrors spec §4.5's pack() parameters.
type Options struct {
	Zoom            types.Zoom
	Compress        types.CompressMode
	StripComments   bool
	CompressImports bool
	SessionID       string

	Estimator tokenest.Estimator
	DeltaStore *delta.Store
}

// Pack assembles candidates into a ContextPack under budget, following
// §4.5's algorithm.
func Pack(index *types.ProjectIndex, candidates []types.Candidate, budget int, opts Options) types.ContextPack {
	estimator := opts.Estimator
	if estimator == nil {
		estimator = tokenest.LenOverFour{}
	}

	remaining := budget
	slices := make([]types.ContextSlice, 0, len(candidates))
	fingerprints := make(map[types.SymbolID]string, len(candidates))
	exhausted := false

	for _, cand := range candidates {
		sym, ok := index.Symbols[cand.SymbolID]
		if !ok {
			continue
		}

		signature := sym.Signature
		var lines []string
		if src, ok := index.SourceCache[sym.File]; ok {
			lines = strings.Split(string(src), "\n")
		}

		code := renderCode(sym, lines, opts.Zoom, cand.DiffLines)
		if opts.StripComments {
			code = stripComments(code, opts.Zoom)
		}
		var meta types.SliceMeta
		meta.DiffLines = cand.DiffLines
		if code != "" {
			bodyDiffLines := rebaseToBody(cand.DiffLines, sym.LineStart)
			edges := callEdgeNames(index, cand.SymbolID)
			code, meta.BlockCount, meta.DroppedBlocks, meta.Summary = applyCompress(
				code, sym.Language, opts.Compress, estimator, remaining, bodyDiffLines, edges)
		}

		full := estimator.Estimate(signature) + estimator.Estimate(code)
		sigOnly := estimator.Estimate(signature)

		var slice types.ContextSlice
		switch {
		case code != "" && full <= remaining:
			c := code
			slice = types.ContextSlice{
				ID: sym.ID, Signature: signature,
				Lines:     types.LineRange{Start: sym.LineStart, End: sym.LineEnd},
				Relevance: cand.Relevance, Code: &c, Meta: meta,
			}
			remaining -= full
		case sigOnly <= remaining:
			slice = types.ContextSlice{
				ID: sym.ID, Signature: signature,
				Lines:     types.LineRange{Start: sym.LineStart, End: sym.LineEnd},
				Relevance: cand.Relevance,
				Meta:      types.SliceMeta{DiffLines: cand.DiffLines},
			}
			remaining -= sigOnly
		default:
			exhausted = true
			continue
		}

		slice.Etag = Etag(slice.Signature, deref(slice.Code))
		fingerprints[slice.ID] = slice.Etag
		slices = append(slices, slice)
	}

	pack := types.ContextPack{
		Slices:             slices,
		Budget:             budget,
		BudgetUsed:         budget - remaining,
		ProjectFingerprint: ProjectFingerprint(fingerprints),
		BudgetExhausted:    exhausted,
	}

	if opts.SessionID != "" && opts.DeltaStore != nil {
		applyDelta(&pack, opts.DeltaStore, opts.SessionID)
	}

	return pack
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// rebaseToBody converts diff intervals from absolute file line numbers (as
// produced by the Diff Mapper, clipped to the symbol's file range) into line
// numbers relative to the rendered body's own first line, which is what the
// Block Compressor's segmenter uses (§4.6 step 2's diff-overlap signal).
func rebaseToBody(fileLines []types.LineRange, bodyStart uint32) []types.LineRange {
	if len(fileLines) == 0 {
		return nil
	}
	offset := int(bodyStart) - 1
	out := make([]types.LineRange, len(fileLines))
	for i, r := range fileLines {
		out[i] = types.LineRange{Start: shiftLine(r.Start, offset), End: shiftLine(r.End, offset)}
	}
	return out
}

func shiftLine(line uint32, offset int) uint32 {
	v := int(line) - offset
	if v < 1 {
		return 1
	}
	return uint32(v)
}

// callEdgeNames resolves id's forward call-graph neighbors to their short
// names, the identifiers the Block Compressor's scorer looks for in block
// text (§4.6 step 2's "+1 ... appear in the candidate's call edges").
func callEdgeNames(index *types.ProjectIndex, id types.SymbolID) []string {
	callees := index.ForwardCalls[id]
	if len(callees) == 0 {
		return nil
	}
	names := make([]string, 0, len(callees))
	for _, callee := range callees {
		if sym, ok := index.Symbols[callee]; ok {
			names = append(names, sym.Name)
		}
	}
	return names
}

// applyCompress dispatches to the Block Compressor (or a chunk summary) when
// code exceeds the soft ceiling for the active compress mode (§4.5 step 1
// last bullet, §4.6).
func applyCompress(code string, lang types.Language, mode types.CompressMode, estimator tokenest.Estimator, remaining int, bodyDiffLines []types.LineRange, callEdges []string) (out string, kept, dropped int, summary string) {
	if mode == types.CompressNone {
		return code, 0, 0, ""
	}

	tokens := estimator.Estimate(code)
	hints := compress.Hints{DiffLines: bodyDiffLines, CallEdges: callEdges}

	switch mode {
	case types.CompressBlocks:
		if tokens <= SoftCeilingBlocks {
			return code, 0, 0, ""
		}
		localBudget := min(remaining, SoftCeilingBlocks)
		res := compress.Body(code, lang, localBudget, hints, estimator)
		return res.Code, res.KeptBlocks, res.DroppedBlocks, ""

	case types.CompressTwoStage:
		if tokens <= SoftCeilingTwoStage {
			return code, 0, 0, ""
		}
		localBudget := min(remaining, SoftCeilingTwoStage)
		first := compress.Body(code, lang, localBudget, hints, estimator)
		if estimator.Estimate(first.Code) <= localBudget/2 {
			return first.Code, first.KeptBlocks, first.DroppedBlocks, ""
		}
		second := compress.Body(first.Code, lang, localBudget/2, hints, estimator)
		return second.Code, second.KeptBlocks, first.DroppedBlocks + second.DroppedBlocks, ""

	case types.CompressChunkSummary:
		if tokens <= SoftCeilingChunkSummary {
			return code, 0, 0, ""
		}
		s := chunkSummary(code)
		return s, 0, 0, s

	default:
		return code, 0, 0, ""
	}
}

// chunkSummary produces a one-line description of an oversized body instead
// of compressing it block-by-block (§2 "ChunkSummary... summarized instead
// of compressed").
func chunkSummary(code string) string {
	lineCount := strings.Count(code, "\n") + 1
	firstLine := strings.TrimSpace(strings.SplitN(code, "\n", 2)[0])
	if len(firstLine) > 80 {
		firstLine = firstLine[:80]
	}
	return "# " + firstLine + " ... (" + strconv.Itoa(lineCount) + " lines summarized)"
}

// applyDelta runs the Delta State Store reconcile pass (§4.5 step 4): slices
// whose etag matches what was already delivered for the same session lose
// their code and are listed in pack.Unchanged.
func applyDelta(pack *types.ContextPack, store *delta.Store, sessionID string) {
	etags := make([]delta.SliceEtag, len(pack.Slices))
	for i, s := range pack.Slices {
		etags[i] = delta.SliceEtag{ID: s.ID, Etag: s.Etag}
	}

	unchanged, err := store.Reconcile(sessionID, etags, time.Now())
	if err != nil {
		// Failure semantics (§4.7): delta tracking is non-essential, the
		// pack itself is still valid. The error isn't surfaced here; the
		// store has already logged it through its own debug output.
		_ = err
	}

	unchangedSet := make(map[types.SymbolID]bool, len(unchanged))
	for _, id := range unchanged {
		unchangedSet[id] = true
	}

	for i, s := range pack.Slices {
		if unchangedSet[s.ID] {
			pack.Slices[i].Code = nil
		}
	}
	pack.Unchanged = unchanged
	pack.CacheStats = types.CacheStats{
		Hits:   len(unchanged),
		Misses: len(pack.Slices) - len(unchanged),
	}
	if len(pack.Slices) > 0 {
		pack.CacheStats.HitRate = float64(pack.CacheStats.Hits) / float64(len(pack.Slices))
	}
}
