// Package candidates implements the Candidate Builder (spec §4.4): a tagged
// BFS over the call graph that expands a seed set outward up to a configured
// depth, annotating each reached symbol with a relevance tag. The graph is
// cyclic (§9 "Cyclic graphs"), so expansion tracks the best (lowest-priority)
// tag already assigned instead of recursing.
package candidates

import (
	"sort"

	"github.com/standardbeagle/tldrs/internal/types"
)

// Seed pairs a symbol with its initial relevance tag.
type Seed struct {
	SymbolID  types.SymbolID
	Relevance types.Relevance
}

type work struct {
	id            types.SymbolID
	depthRemaining int
	fromEntry     bool // true once expansion started from an EntryPoint seed
}

// Build runs the tagged BFS and returns an ordered, deduplicated candidate
// list. diffLines supplies the diff intervals for ContainsDiff seeds.
func Build(index *types.ProjectIndex, seeds []Seed, depth uint8, diffLines map[types.SymbolID][]types.LineRange) []types.Candidate {
	best := make(map[types.SymbolID]types.Relevance)
	queue := make([]work, 0, len(seeds))

	for _, s := range seeds {
		if _, ok := index.Symbols[s.SymbolID]; !ok {
			continue
		}
		if cur, ok := best[s.SymbolID]; !ok || s.Relevance.Priority() < cur.Priority() {
			best[s.SymbolID] = s.Relevance
		}
		queue = append(queue, work{
			id:             s.SymbolID,
			depthRemaining: int(depth),
			fromEntry:      s.Relevance.Tag == types.RelevanceEntryPoint,
		})
	}

	reverse := index.ReverseCalls()

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depthRemaining <= 0 {
			continue
		}
		nextDepth := cur.depthRemaining - 1
		expandedTag := uint8(int(depth) - nextDepth)

		for _, callee := range index.ForwardCalls[cur.id] {
			tag := types.Relevance{Tag: types.RelevanceCalleeOfDiff}
			if cur.fromEntry {
				tag = types.Relevance{Tag: types.RelevanceDepthK, Depth: expandedTag}
			}
			if enqueue(best, &queue, callee, tag, nextDepth, cur.fromEntry) {
				continue
			}
		}
		for _, caller := range reverse[cur.id] {
			tag := types.Relevance{Tag: types.RelevanceCallerOfDiff}
			if cur.fromEntry {
				tag = types.Relevance{Tag: types.RelevanceDepthK, Depth: expandedTag}
			}
			enqueue(best, &queue, caller, tag, nextDepth, cur.fromEntry)
		}
	}

	out := make([]types.Candidate, 0, len(best))
	for id, rel := range best {
		out = append(out, types.Candidate{
			SymbolID:  id,
			Relevance: rel,
			DiffLines: diffLines[id],
		})
	}

	sym := index.Symbols
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Relevance.Priority(), out[j].Relevance.Priority()
		if pi != pj {
			return pi < pj
		}
		si, sj := sym[out[i].SymbolID], sym[out[j].SymbolID]
		if si != nil && sj != nil {
			if si.File != sj.File {
				return si.File < sj.File
			}
			if si.LineStart != sj.LineStart {
				return si.LineStart < sj.LineStart
			}
		}
		return out[i].SymbolID < out[j].SymbolID
	})

	return out
}

// enqueue marks id with tag if it is new or strictly better than what it
// already holds, and pushes it onto the queue for further expansion when so.
// Returns true if id was already tagged at least as well (a cycle/visited
// skip), matching "skip already-tagged symbols to avoid cycles".
func enqueue(best map[types.SymbolID]types.Relevance, queue *[]work, id types.SymbolID, tag types.Relevance, depthRemaining int, fromEntry bool) bool {
	cur, seen := best[id]
	if seen && cur.Priority() <= tag.Priority() {
		return true
	}
	best[id] = tag
	*queue = append(*queue, work{id: id, depthRemaining: depthRemaining, fromEntry: fromEntry})
	return false
}

// Cap truncates an ordered candidate slice to n entries, applied after
// ordering per §4.4 step 4.
func Cap(cands []types.Candidate, n int) []types.Candidate {
	if n <= 0 || len(cands) <= n {
		return cands
	}
	return cands[:n]
}

// DefaultCap derives a candidate count ceiling from a token budget and a
// per-candidate floor (a signature alone rarely estimates under ~8 tokens).
func DefaultCap(budget int) int {
	const perCandidateFloor = 8
	if budget <= 0 {
		return 0
	}
	n := budget / perCandidateFloor
	if n < 1 {
		n = 1
	}
	return n
}
