package extract

import (
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/tldrs/internal/types"
)

type walker struct {
	path      string
	content   []byte
	lang      types.Language
	spec      *languageSpec
	overrides SignatureOverrides

	symbols   []types.Symbol
	imports   []string
	callSites map[types.SymbolID][]string
}

func (w *walker) text(n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(w.content[n.StartByte():n.EndByte()])
}

// qualifiedName walks a node's ancestors, collecting container names
// (outermost first) so "method" inside "class Foo" becomes "Foo.method".
func (w *walker) qualifiedName(n *tree_sitter.Node, ownName string) string {
	var chain []string
	p := n.Parent()
	for p != nil {
		kind := p.Kind()
		if w.spec.containerKind != nil && w.spec.containerKind[kind] {
			field := w.spec.nameFieldFor(kind)
			if nameNode := p.ChildByFieldName(field); nameNode != nil {
				chain = append(chain, w.text(nameNode))
			}
		}
		p = p.Parent()
	}
	if len(chain) == 0 {
		return ownName
	}
	// chain was collected innermost-first; reverse for outermost-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return strings.Join(chain, ".") + "." + ownName
}

// bodyStart returns the byte offset where a symbol's body begins, so the
// signature can be rendered as everything before it. Falls back to the
// node's own end when there is no separate body field (e.g. an abstract
// method with no braces).
func bodyStart(n *tree_sitter.Node) (uint, bool) {
	if body := n.ChildByFieldName("body"); body != nil {
		return body.StartByte(), true
	}
	return 0, false
}

// renderSignature collapses the source text preceding the body into a
// single-line, whitespace-normalized signature with no body and no
// trailing brace/colon.
func renderSignature(raw string) string {
	raw = strings.TrimRight(raw, " \t\r\n{:")
	fields := strings.Fields(raw)
	return strings.Join(fields, " ")
}

func (w *walker) makeSymbol(n *tree_sitter.Node, kind types.Kind, ownName string) types.Symbol {
	qname := w.qualifiedName(n, ownName)
	start := n.StartByte()
	end := n.EndByte()
	if bs, ok := bodyStart(n); ok {
		end = bs
	}
	sig := renderSignature(string(w.content[start:end]))

	id := types.NewSymbolID(w.path, qname)
	if w.overrides != nil {
		if o, ok := w.overrides[id]; ok {
			sig = o
		}
	}

	startRow := n.StartPosition().Row
	endRow := n.EndPosition().Row

	return types.Symbol{
		ID:            id,
		Name:          ownName,
		QualifiedName: qname,
		File:          w.path,
		LineStart:     uint32(startRow) + 1,
		LineEnd:       uint32(endRow) + 1,
		Language:      w.lang,
		Kind:          kind,
		Signature:     sig,
		DocLine:       w.leadingDocLine(n),
	}
}

// leadingDocLine returns the first non-blank line of a leading comment
// immediately preceding the node, if any.
func (w *walker) leadingDocLine(n *tree_sitter.Node) string {
	prev := n.PrevSibling()
	if prev == nil {
		return ""
	}
	k := prev.Kind()
	if !strings.Contains(k, "comment") && k != "string" {
		return ""
	}
	txt := w.text(prev)
	txt = strings.TrimPrefix(txt, "/**")
	txt = strings.TrimPrefix(txt, "/*")
	txt = strings.TrimPrefix(txt, "//")
	txt = strings.TrimPrefix(txt, "#")
	txt = strings.Trim(txt, `"'`)
	for _, line := range strings.Split(txt, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if line != "" {
			return line
		}
	}
	return ""
}

func (w *walker) handleMatch(m *tree_sitter.QueryMatch, captureNames []string) {
	var mainNode *tree_sitter.Node
	var mainCapture string
	var nameNode *tree_sitter.Node

	for i := range m.Captures {
		c := &m.Captures[i]
		cn := captureNames[c.Index]
		switch cn {
		case "function", "method", "class", "import":
			node := c.Node
			mainNode = &node
			mainCapture = cn
		case "function.name", "method.name", "class.name":
			node := c.Node
			nameNode = &node
		}
	}
	if mainNode == nil {
		return
	}

	switch mainCapture {
	case "function":
		if nameNode == nil {
			return
		}
		w.symbols = append(w.symbols, w.makeSymbol(mainNode, types.KindFunction, w.text(nameNode)))
	case "method":
		if nameNode == nil {
			return
		}
		w.symbols = append(w.symbols, w.makeSymbol(mainNode, types.KindMethod, w.text(nameNode)))
	case "class":
		if nameNode == nil {
			return
		}
		w.symbols = append(w.symbols, w.makeSymbol(mainNode, types.KindClass, w.text(nameNode)))
	case "import":
		w.imports = append(w.imports, w.text(mainNode))
	}
}

// sortSymbols orders by (LineStart, then nested-after-enclosing via
// qualified-name length so "Foo" precedes "Foo.bar").
func (w *walker) sortSymbols() {
	sort.SliceStable(w.symbols, func(i, j int) bool {
		if w.symbols[i].LineStart != w.symbols[j].LineStart {
			return w.symbols[i].LineStart < w.symbols[j].LineStart
		}
		return len(w.symbols[i].QualifiedName) < len(w.symbols[j].QualifiedName)
	})
}

// collectCallSites walks the whole tree once, attributing each call
// expression to its innermost enclosing extracted symbol by line range.
func (w *walker) collectCallSites(root *tree_sitter.Node) {
	if w.spec.callKinds == nil {
		return
	}
	for id := range w.callSites {
		delete(w.callSites, id)
	}
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil {
			return
		}
		if w.spec.callKinds[n.Kind()] {
			if name := w.calleeName(n); name != "" {
				if owner, ok := w.enclosingSymbol(n); ok {
					w.appendCallSite(owner, name)
				}
			}
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
}

func (w *walker) calleeName(call *tree_sitter.Node) string {
	fn := call.ChildByFieldName(w.spec.callFnField)
	if fn == nil {
		return ""
	}
	txt := w.text(fn)
	// Reduce "pkg.Func" / "obj.method" / "a::b::c" to the trailing identifier,
	// matching the short-name resolution precedence in the Project Index.
	txt = strings.TrimSuffix(txt, "()")
	if i := strings.LastIndexAny(txt, ".:"); i >= 0 {
		return txt[i+1:]
	}
	return txt
}

func (w *walker) enclosingSymbol(n *tree_sitter.Node) (types.SymbolID, bool) {
	line := uint32(n.StartPosition().Row) + 1
	var best *types.Symbol
	for i := range w.symbols {
		s := &w.symbols[i]
		if line >= s.LineStart && line <= s.LineEnd {
			if best == nil || (s.LineEnd-s.LineStart) < (best.LineEnd-best.LineStart) {
				best = s
			}
		}
	}
	if best == nil {
		return "", false
	}
	return best.ID, true
}

func (w *walker) appendCallSite(owner types.SymbolID, name string) {
	existing := w.callSites[owner]
	for _, e := range existing {
		if e == name {
			return
		}
	}
	w.callSites[owner] = append(existing, name)
}
