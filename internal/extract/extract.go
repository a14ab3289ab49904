// Package extract implements the Language Extractor (spec §4.1): parsing one
// source file into an ordered list of symbols and imports via a dispatch
// table keyed by language, following the teacher's tree-sitter query-capture
// pattern (internal/parser/parser_language_setup.go in the reference repo).
package extract

import (
	"fmt"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	coreerrors "github.com/standardbeagle/tldrs/internal/errors"
	"github.com/standardbeagle/tldrs/internal/types"
)

// Result is what one extraction pass yields.
type Result struct {
	Symbols []types.Symbol
	Imports []string
	// CallSites maps each extracted symbol to the raw (unresolved) callee
	// names referenced in its body, in first-occurrence order, deduplicated.
	// The Project Index resolves these against its name index (§4.2 step 3).
	CallSites map[types.SymbolID][]string
}

// SignatureOverrides lets a caller (the Project Index) substitute a
// canonicalized signature for display, consulted before the rendered form.
type SignatureOverrides map[types.SymbolID]string

// Extractor parses one file and yields its symbols.
type Extractor struct {
	mu      sync.Mutex
	parsers map[types.Language]*tree_sitter.Parser
	queries map[types.Language]*tree_sitter.Query
}

// New creates an Extractor. Parsers are built lazily on first use per
// language so a process that only ever sees Go files never pays for the
// other eight grammars.
func New() *Extractor {
	return &Extractor{
		parsers: make(map[types.Language]*tree_sitter.Parser),
		queries: make(map[types.Language]*tree_sitter.Query),
	}
}

func (e *Extractor) parserFor(lang types.Language) (*tree_sitter.Parser, *tree_sitter.Query, *languageSpec, bool) {
	spec, ok := specs[lang]
	if !ok {
		return nil, nil, nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.parsers[lang]; ok {
		return p, e.queries[lang], spec, true
	}

	p := tree_sitter.NewParser()
	grammar := spec.grammar()
	if err := p.SetLanguage(grammar); err != nil {
		return nil, nil, nil, false
	}
	q, qErr := tree_sitter.NewQuery(grammar, spec.query)
	if qErr != nil || q == nil {
		return nil, nil, nil, false
	}

	e.parsers[lang] = p
	e.queries[lang] = q
	return p, q, spec, true
}

// Extract parses one file. An unknown language returns an empty, non-error
// result. A parser panic (tree-sitter grammars can panic on pathological
// input) is recovered and reported as ExtractFailed; the caller treats the
// file as empty.
func (e *Extractor) Extract(path string, content []byte, lang types.Language, overrides SignatureOverrides) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = coreerrors.ExtractFailed(path, fmt.Errorf("panic: %v", r))
			result = &Result{CallSites: map[types.SymbolID][]string{}}
		}
	}()

	parser, query, spec, ok := e.parserFor(lang)
	if !ok {
		return &Result{CallSites: map[types.SymbolID][]string{}}, nil
	}

	// Parsers are not safe for concurrent reuse across goroutines; the
	// extractor serializes all parser use behind one mutex. Callers wanting
	// parallel extraction across files should use independent Extractor
	// instances (see internal/index, which creates one Extractor per file).
	e.mu.Lock()
	tree := parser.Parse(content, nil)
	e.mu.Unlock()
	if tree == nil {
		return nil, coreerrors.ExtractFailed(path, fmt.Errorf("parse returned nil tree"))
	}
	defer tree.Close()

	w := &walker{
		path:      path,
		content:   content,
		lang:      lang,
		spec:      spec,
		overrides: overrides,
		callSites: make(map[types.SymbolID][]string),
	}

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()
	matches := qc.Matches(query, tree.RootNode(), content)
	captureNames := query.CaptureNames()

	for {
		m := matches.Next()
		if m == nil {
			break
		}
		w.handleMatch(m, captureNames)
	}

	// Source order: the spec requires symbols in source order with nested
	// symbols (methods) after their enclosing class.
	w.sortSymbols()

	// Call-site extraction walks the whole tree once after the symbol list is final,
	// so nested scope boundaries (for attributing a call to its innermost
	// enclosing symbol) are known.
	w.collectCallSites(tree.RootNode())

	return &Result{Symbols: w.symbols, Imports: w.imports, CallSites: w.callSites}, nil
}
