package types

// ProjectIndex is the aggregate root built by a single index pass. It is
// immutable after construction and safe to share by reference across
// concurrent requests without locks (§5 Shared-resource policy).
type ProjectIndex struct {
	Symbols  map[SymbolID]*Symbol
	NameIdx  map[string][]SymbolID   // short name -> symbol ids, for ambiguous-entry resolution
	FileIdx  map[string][]SymbolID   // relative path -> symbol ids, sorted by LineStart
	RangeIdx map[SymbolID]LineRange  // redundant with Symbol, retained for hot-path lookups
	Imports  map[string][]string     // relative path -> ordered import statements

	ForwardCalls map[SymbolID][]SymbolID // caller -> callees, in first-seen order
	reverseCalls map[SymbolID][]SymbolID // computed lazily; use ReverseCalls()
	reverseBuilt bool

	SourceCache map[string][]byte // populated only if IncludeSources was requested

	// ProjectFingerprint over (SymbolID, etag) pairs is computed by the packer,
	// not stored here — the index itself has no notion of etags.
}

// NewProjectIndex returns an empty, fully-initialized index.
func NewProjectIndex() *ProjectIndex {
	return &ProjectIndex{
		Symbols:      make(map[SymbolID]*Symbol),
		NameIdx:      make(map[string][]SymbolID),
		FileIdx:      make(map[string][]SymbolID),
		RangeIdx:     make(map[SymbolID]LineRange),
		Imports:      make(map[string][]string),
		ForwardCalls: make(map[SymbolID][]SymbolID),
	}
}

// ReverseCalls returns the reverse call graph, computing and memoizing it on
// first use if it was not built eagerly. Safe for concurrent callers because
// a ProjectIndex is only ever mutated during construction; the memoization
// itself must happen before the index is published (see BuildReverseCalls).
func (p *ProjectIndex) ReverseCalls() map[SymbolID][]SymbolID {
	if !p.reverseBuilt {
		p.BuildReverseCalls()
	}
	return p.reverseCalls
}

// BuildReverseCalls transposes ForwardCalls into reverseCalls. Idempotent.
func (p *ProjectIndex) BuildReverseCalls() {
	rev := make(map[SymbolID][]SymbolID, len(p.ForwardCalls))
	seen := make(map[SymbolID]map[SymbolID]bool)
	for caller, callees := range p.ForwardCalls {
		for _, callee := range callees {
			if seen[callee] == nil {
				seen[callee] = make(map[SymbolID]bool)
			}
			if !seen[callee][caller] {
				seen[callee][caller] = true
				rev[callee] = append(rev[callee], caller)
			}
		}
	}
	p.reverseCalls = rev
	p.reverseBuilt = true
}

// Lookup returns a symbol by id, and whether it was found.
func (p *ProjectIndex) Lookup(id SymbolID) (*Symbol, bool) {
	s, ok := p.Symbols[id]
	return s, ok
}
