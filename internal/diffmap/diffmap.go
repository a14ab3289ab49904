// Package diffmap implements the Diff Mapper (spec §4.3): mapping line-range
// hunks from an external diff source to the symbols they overlap.
package diffmap

import (
	"sort"

	"github.com/standardbeagle/tldrs/internal/types"
)

// SymbolHunks pairs a symbol with the diff intervals (clipped to its range)
// that overlap it.
type SymbolHunks struct {
	SymbolID types.SymbolID
	Lines    []types.LineRange
}

// Result is the mapper's output.
type Result struct {
	Mapping   []SymbolHunks
	Unmatched []types.Hunk
}

// Map groups hunks by file, sorts each file's hunks by start line, and
// checks every hunk against every symbol range of that file in ascending
// line_start order (a nested scan per hunk, not a two-pointer sweep); any
// hunk overlapping a symbol's [line_start, line_end] is clipped and
// attached. A hunk may attach to multiple symbols (a class and one of its
// methods); hunks touching no symbol land in Unmatched.
func Map(index *types.ProjectIndex, hunks []types.Hunk) Result {
	byFile := make(map[string][]types.Hunk)
	for _, h := range hunks {
		byFile[h.File] = append(byFile[h.File], h)
	}

	perSymbol := make(map[types.SymbolID][]types.LineRange)
	var unmatched []types.Hunk

	for file, fileHunks := range byFile {
		symbolIDs := index.FileIdx[file]
		if len(symbolIDs) == 0 {
			unmatched = append(unmatched, fileHunks...)
			continue
		}

		// file_index is already sorted by ascending line_start per the
		// ProjectIndex invariant; sort hunks too for the sweep.
		sortedHunks := append([]types.Hunk(nil), fileHunks...)
		sort.Slice(sortedHunks, func(i, j int) bool { return sortedHunks[i].NewStart < sortedHunks[j].NewStart })

		for _, h := range sortedHunks {
			hStart, hEnd := h.NewStart, h.NewEnd()
			matched := false
			for _, sid := range symbolIDs {
				r, ok := index.RangeIdx[sid]
				if !ok {
					continue
				}
				if hStart > r.End || hEnd < r.Start {
					continue
				}
				clipStart := max32(hStart, r.Start)
				clipEnd := min32(hEnd, r.End)
				perSymbol[sid] = append(perSymbol[sid], types.LineRange{Start: clipStart, End: clipEnd})
				matched = true
			}
			if !matched {
				unmatched = append(unmatched, h)
			}
		}
	}

	ids := make([]types.SymbolID, 0, len(perSymbol))
	for id := range perSymbol {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := index.Symbols[ids[i]], index.Symbols[ids[j]]
		if si.File != sj.File {
			return si.File < sj.File
		}
		return si.LineStart < sj.LineStart
	})

	mapping := make([]SymbolHunks, 0, len(ids))
	for _, id := range ids {
		mapping = append(mapping, SymbolHunks{SymbolID: id, Lines: perSymbol[id]})
	}

	return Result{Mapping: mapping, Unmatched: unmatched}
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
