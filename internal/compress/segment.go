package compress

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/tldrs/internal/extract"
	"github.com/standardbeagle/tldrs/internal/types"
)

// block is one segment of a function body, carrying its source line range
// (1-indexed, relative to the body's own first line) and the text it covers.
type block struct {
	startLine int
	endLine   int
	text      string
}

// segment splits code into blocks, trying the AST-aware strategy first and
// falling back to indentation when the grammar is unknown or the parse
// doesn't yield a usable statement list (§4.6 step 1).
func segment(code string, lang types.Language) []block {
	if blocks, ok := segmentAST(code, lang); ok {
		return blocks
	}
	return segmentIndent(code)
}

// segmentAST parses code standalone and takes the named children of the
// node with the most named children (see widestStatementList) as blocks. A function body
// extracted on its own rarely parses as a complete, error-free program, so
// this walks past wrapper/error nodes rather than requiring a clean parse.
func segmentAST(code string, lang types.Language) ([]block, bool) {
	grammarFn, ok := extract.GrammarFor(lang)
	if !ok {
		return nil, false
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(grammarFn()); err != nil {
		return nil, false
	}

	src := []byte(code)
	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, false
	}
	defer tree.Close()

	container := widestStatementList(tree.RootNode())
	if container == nil {
		return nil, false
	}

	var blocks []block
	n := int(container.NamedChildCount())
	for i := 0; i < n; i++ {
		child := container.NamedChild(uint(i))
		if child == nil || child.EndByte() <= child.StartByte() {
			continue
		}
		start := int(child.StartPosition().Row) + 1
		end := int(child.EndPosition().Row) + 1
		blocks = append(blocks, block{
			startLine: start,
			endLine:   end,
			text:      string(src[child.StartByte():child.EndByte()]),
		})
	}
	if len(blocks) < 2 {
		return nil, false
	}
	return blocks, true
}

// widestStatementList returns the node with the most named children found
// in the top levels of the tree (root through depth 6), which is usually the
// node holding the body's top-level statements regardless of how the
// standalone parse wrapped them.
func widestStatementList(root *tree_sitter.Node) *tree_sitter.Node {
	var best *tree_sitter.Node
	bestCount := 0

	var walk func(n *tree_sitter.Node, depth int)
	walk = func(n *tree_sitter.Node, depth int) {
		if n == nil || depth > 6 {
			return
		}
		count := int(n.NamedChildCount())
		if count > bestCount {
			bestCount = count
			best = n
		}
		c := int(n.ChildCount())
		for i := 0; i < c; i++ {
			walk(n.Child(uint(i)), depth+1)
		}
	}
	walk(root, 0)
	return best
}

// segmentIndent splits on blank lines and indentation decreases, the
// fallback strategy when a language has no grammar wired in or the AST pass
// didn't find a usable statement list (§4.6 step 1b).
func segmentIndent(code string) []block {
	lines := strings.Split(code, "\n")
	var blocks []block
	var cur []string
	curStart := 1
	curIndent := -1

	flush := func(endLine int) {
		if len(cur) == 0 {
			return
		}
		blocks = append(blocks, block{
			startLine: curStart,
			endLine:   endLine,
			text:      strings.Join(cur, "\n"),
		})
		cur = nil
	}

	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush(lineNo - 1)
			curIndent = -1
			continue
		}
		indent := indentWidth(line)
		if len(cur) == 0 {
			curStart = lineNo
			curIndent = indent
		} else if indent < curIndent {
			flush(lineNo - 1)
			curStart = lineNo
			curIndent = indent
		}
		cur = append(cur, line)
	}
	flush(len(lines))

	if len(blocks) == 0 && code != "" {
		blocks = append(blocks, block{startLine: 1, endLine: len(lines), text: code})
	}
	return blocks
}

func indentWidth(line string) int {
	n := 0
	for _, r := range line {
		if r == ' ' {
			n++
		} else if r == '\t' {
			n += 4
		} else {
			break
		}
	}
	return n
}
