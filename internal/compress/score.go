package compress

import (
	"strings"

	"github.com/standardbeagle/tldrs/internal/types"
)

var controlKeywords = []string{
	"return", "if", "for", "while", "switch", "match", "try", "catch", "case",
}

// Hints supplies the signals the scorer (§4.6 step 2) needs beyond the block
// text itself.
type Hints struct {
	DiffLines []types.LineRange
	CallEdges []string // short names of the candidate's call-graph neighbors
}

func scoreBlock(b block, hints Hints) int {
	score := 0
	if overlapsDiff(b, hints.DiffLines) {
		score += 3
	}
	if containsControlKeyword(b.text) {
		score += 2
	}
	if containsCallEdge(b.text, hints.CallEdges) {
		score += 1
	}
	return score
}

func overlapsDiff(b block, diffLines []types.LineRange) bool {
	for _, r := range diffLines {
		if int(r.Start) <= b.endLine && int(r.End) >= b.startLine {
			return true
		}
	}
	return false
}

func containsControlKeyword(text string) bool {
	for _, kw := range controlKeywords {
		if containsWord(text, kw) {
			return true
		}
	}
	return false
}

func containsCallEdge(text string, edges []string) bool {
	for _, name := range edges {
		if name == "" {
			continue
		}
		if containsWord(text, name) {
			return true
		}
	}
	return false
}

// containsWord reports whether word appears in text at a token boundary,
// avoiding matches inside longer identifiers (e.g. "for" inside "format").
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		before := byte(0)
		if start > 0 {
			before = text[start-1]
		}
		after := byte(0)
		if end < len(text) {
			after = text[end]
		}
		if !isIdentByte(before) && !isIdentByte(after) {
			return true
		}
		idx = start + 1
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
