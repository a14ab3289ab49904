package index

import (
	"sort"

	"github.com/standardbeagle/tldrs/internal/types"
)

// resolveCallGraph resolves each caller's raw callee names against the
// project's name index using the precedence from §4.2 step 3:
//
//	(a) exact match on qualified name within the caller's own file,
//	(b) exact match on short name if unique in the project,
//	(c) same-file match by short name,
//	(d) otherwise drop the edge.
//
// Drops are silent; duplicates within one caller are deduplicated preserving
// first occurrence.
func resolveCallGraph(idx *types.ProjectIndex, pendingCalls map[types.SymbolID][]string) {
	callers := make([]types.SymbolID, 0, len(pendingCalls))
	for id := range pendingCalls {
		callers = append(callers, id)
	}
	sort.Slice(callers, func(i, j int) bool { return callers[i] < callers[j] })

	for _, caller := range callers {
		callerSym := idx.Symbols[caller]
		if callerSym == nil {
			continue
		}
		seen := make(map[types.SymbolID]bool)
		var callees []types.SymbolID
		for _, name := range pendingCalls[caller] {
			callee, ok := resolveOne(idx, callerSym.File, name)
			if !ok || callee == caller {
				continue
			}
			if seen[callee] {
				continue
			}
			seen[callee] = true
			callees = append(callees, callee)
		}
		if len(callees) > 0 {
			idx.ForwardCalls[caller] = callees
		}
	}
}

func resolveOne(idx *types.ProjectIndex, callerFile, name string) (types.SymbolID, bool) {
	// (a) exact qualified name match within the caller's own file: the
	// extractor's qualified names are dotted ("Class.method"); a call site
	// naming that exact qualified form in the same file matches directly.
	if sym, ok := idx.Symbols[types.NewSymbolID(callerFile, name)]; ok {
		return sym.ID, true
	}

	// (b) exact short-name match, if unique in the project.
	candidates := idx.NameIdx[name]
	if len(candidates) == 1 {
		return candidates[0], true
	}
	if len(candidates) == 0 {
		return "", false
	}

	// (c) same-file short-name match.
	for _, c := range candidates {
		if sym := idx.Symbols[c]; sym != nil && sym.File == callerFile {
			return c, true
		}
	}

	// (d) ambiguous across files with no same-file match: drop.
	return "", false
}
