// Package resolve implements ResolveEntry (spec §6 "Seed resolution"): turning
// a caller-supplied entry string — a short name, a qualified name, or a
// "path:name" pair — into either a single resolved symbol or, when the
// string is ambiguous or unknown, a set the caller can act on.
package resolve

import (
	"sort"
	"strings"

	edlib "github.com/hbollon/go-edlib"

	"github.com/standardbeagle/tldrs/internal/types"
)

// maxSuggestions bounds the near-miss list surfaced on an unknown entry
// (spec supplement: "up to 5 edit-distance-ranked near-miss SymbolIds").
const maxSuggestions = 5

// Result is the outcome of resolving one entry string.
type Result struct {
	Resolved    types.SymbolID   // set only when exactly one symbol matched
	Candidates  []types.SymbolID // set when the entry matched more than one symbol
	Suggestions []types.SymbolID // set when the entry matched nothing at all
}

// Ambiguous reports whether the entry matched more than one symbol.
func (r Result) Ambiguous() bool { return len(r.Candidates) > 1 }

// Unknown reports whether the entry matched nothing.
func (r Result) Unknown() bool {
	return r.Resolved == "" && len(r.Candidates) == 0
}

// Entry resolves an entry string against the index in this order: a
// "path:name" form (name or qualified name within that file), then an exact
// SymbolID, then a short name (unique or ambiguous), then an exact qualified
// name such as "Class.method". An entry matching none of these yields
// near-miss suggestions.
func Entry(index *types.ProjectIndex, entry string) Result {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return Result{}
	}

	if path, name, ok := splitPathName(entry); ok {
		if ids := sameFileMatches(index, path, name); len(ids) == 1 {
			return Result{Resolved: ids[0]}
		} else if len(ids) > 1 {
			sortByFileLine(index, ids)
			return Result{Candidates: ids}
		}
	}

	if sym, ok := index.Symbols[types.SymbolID(entry)]; ok {
		return Result{Resolved: sym.ID}
	}

	if ids, ok := index.NameIdx[entry]; ok && len(ids) > 0 {
		if len(ids) == 1 {
			return Result{Resolved: ids[0]}
		}
		dedup := append([]types.SymbolID{}, ids...)
		sortByFileLine(index, dedup)
		return Result{Candidates: dedup}
	}

	var qualified []types.SymbolID
	for id, sym := range index.Symbols {
		if sym.QualifiedName == entry {
			qualified = append(qualified, id)
		}
	}
	if len(qualified) == 1 {
		return Result{Resolved: qualified[0]}
	} else if len(qualified) > 1 {
		sortByFileLine(index, qualified)
		return Result{Candidates: qualified}
	}

	return Result{Suggestions: suggest(index, entry)}
}

// splitPathName splits a "path:name" entry on the last colon — relative
// paths never contain a colon on POSIX, the same assumption internal/serialize
// makes when splitting a SymbolID.
func splitPathName(entry string) (path, name string, ok bool) {
	i := strings.LastIndexByte(entry, ':')
	if i < 0 {
		return "", "", false
	}
	return entry[:i], entry[i+1:], true
}

func sameFileMatches(index *types.ProjectIndex, path, name string) []types.SymbolID {
	var out []types.SymbolID
	for _, id := range index.FileIdx[path] {
		sym, ok := index.Symbols[id]
		if !ok {
			continue
		}
		if sym.Name == name || sym.QualifiedName == name {
			out = append(out, id)
		}
	}
	return out
}

func sortByFileLine(index *types.ProjectIndex, ids []types.SymbolID) {
	sort.Slice(ids, func(i, j int) bool {
		si, sj := index.Symbols[ids[i]], index.Symbols[ids[j]]
		if si == nil || sj == nil {
			return ids[i] < ids[j]
		}
		if si.File != sj.File {
			return si.File < sj.File
		}
		return si.LineStart < sj.LineStart
	})
}

// suggest ranks every known short name by Levenshtein distance to entry and
// returns the SymbolIds of the closest maxSuggestions, grounded on the
// teacher's fuzzy symbol-type resolver (findClosestMatch).
func suggest(index *types.ProjectIndex, entry string) []types.SymbolID {
	type scored struct {
		id   types.SymbolID
		dist int
	}
	var ranked []scored
	for name, ids := range index.NameIdx {
		dist := edlib.LevenshteinDistance(entry, name)
		for _, id := range ids {
			ranked = append(ranked, scored{id: id, dist: dist})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].dist != ranked[j].dist {
			return ranked[i].dist < ranked[j].dist
		}
		return ranked[i].id < ranked[j].id
	})

	n := maxSuggestions
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]types.SymbolID, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].id
	}
	return out
}
