package pack

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/tldrs/internal/types"
)

var controlLineKeywords = []string{
	"if ", "if(", "for ", "for(", "while ", "while(", "switch ", "switch(",
	"case ", "else", "try", "catch", "match ", "return", "func ", "def ",
	"function ", "fn ", "class ", "}", "{",
}

var commentPreserveMarkers = []string{"TODO", "FIXME", "HACK"}

// renderCode produces a candidate's code content per its zoom level (§4.5
// step 1). lines holds the full file split on "\n"; sym.LineStart/LineEnd
// are 1-based absolute line numbers into it. An empty lines slice (no
// source cached for the file) degrades Sketch, Windowed and Full to empty
// code; Index still returns the symbol's doc line.
func renderCode(sym *types.Symbol, lines []string, zoom types.Zoom, diffLines []types.LineRange) string {
	switch zoom {
	case types.ZoomMap:
		return ""
	case types.ZoomIndex:
		doc := sym.DocLine
		if doc == "" {
			return ""
		}
		return doc
	case types.ZoomSketch:
		return sketch(sliceLines(lines, sym.LineStart, sym.LineEnd))
	case types.ZoomWindowed:
		body := sliceLines(lines, sym.LineStart, sym.LineEnd)
		return windowed(body, sym.LineStart, diffLines)
	case types.ZoomFull:
		return strings.Join(sliceLines(lines, sym.LineStart, sym.LineEnd), "\n")
	default:
		return ""
	}
}

// sliceLines returns the 1-based inclusive [start, end] lines, clamped to
// the available range.
func sliceLines(lines []string, start, end uint32) []string {
	if len(lines) == 0 || start == 0 || end < start {
		return nil
	}
	s := int(start) - 1
	e := int(end)
	if s >= len(lines) {
		return nil
	}
	if e > len(lines) {
		e = len(lines)
	}
	return lines[s:e]
}

// sketch approximates a control-flow skeleton: lines carrying a control
// keyword or brace survive verbatim, runs of other lines collapse to a
// single "..." placeholder (§4.5 "Sketch → control-flow skeleton").
func sketch(body []string) string {
	var out []string
	collapsed := false
	for _, line := range body {
		if isControlLine(line) {
			out = append(out, line)
			collapsed = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			collapsed = false
			continue
		}
		if !collapsed {
			out = append(out, strings.Repeat(" ", leadingSpace(line))+"...")
			collapsed = true
		}
	}
	return strings.Join(out, "\n")
}

func isControlLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, kw := range controlLineKeywords {
		if strings.HasPrefix(trimmed, strings.TrimSpace(kw)) || strings.Contains(trimmed, kw) {
			return true
		}
	}
	return false
}

func leadingSpace(line string) int {
	n := 0
	for _, r := range line {
		if r == ' ' {
			n++
		} else {
			break
		}
	}
	return n
}

// windowed merges 2-8 lines of context around each diff interval, with the
// window narrowing as diff density rises (a tightly packed set of diff
// lines needs less surrounding context to stay readable) (§4.5 "Windowed").
func windowed(body []string, bodyStart uint32, diffLines []types.LineRange) string {
	if len(body) == 0 {
		return strings.Join(body, "\n")
	}
	if len(diffLines) == 0 {
		return strings.Join(body, "\n")
	}

	context := contextWidth(diffLines)
	bodyEnd := bodyStart + uint32(len(body)) - 1

	type window struct{ start, end uint32 }
	var windows []window
	for _, dl := range diffLines {
		start := dl.Start
		if start > uint32(context) {
			start -= uint32(context)
		} else {
			start = 1
		}
		end := dl.End + uint32(context)
		if start < bodyStart {
			start = bodyStart
		}
		if end > bodyEnd {
			end = bodyEnd
		}
		windows = append(windows, window{start, end})
	}

	// Merge overlapping/adjacent windows.
	merged := windows[:0:0]
	for _, w := range windows {
		if len(merged) > 0 && w.start <= merged[len(merged)-1].end+1 {
			if w.end > merged[len(merged)-1].end {
				merged[len(merged)-1].end = w.end
			}
			continue
		}
		merged = append(merged, w)
	}

	var out []string
	prevEnd := uint32(0)
	for i, w := range merged {
		if i > 0 && w.start > prevEnd+1 {
			out = append(out, fmt.Sprintf("# ... (%d lines elided)", w.start-prevEnd-1))
		}
		out = append(out, sliceLines(body, w.start-bodyStart+1, w.end-bodyStart+1)...)
		prevEnd = w.end
	}
	return strings.Join(out, "\n")
}

// contextWidth picks a context-line width in [2, 8], shrinking it as the
// diff touches more lines (denser diffs already carry their own context).
func contextWidth(diffLines []types.LineRange) int {
	touched := uint32(0)
	for _, dl := range diffLines {
		if dl.End >= dl.Start {
			touched += dl.End - dl.Start + 1
		}
	}
	switch {
	case touched <= 2:
		return 8
	case touched <= 5:
		return 5
	case touched <= 10:
		return 3
	default:
		return 2
	}
}

// stripComments removes whole-line comments (// # and * continuation
// lines), preserving TODO/FIXME/HACK markers and, for zoom=Index, the first
// docstring line (§4.5 "strip_comments").
func stripComments(code string, zoom types.Zoom) string {
	if code == "" {
		return code
	}
	lines := strings.Split(code, "\n")
	var out []string
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if zoom == types.ZoomIndex && i == 0 {
			out = append(out, line)
			continue
		}
		if isCommentLine(trimmed) && !hasPreserveMarker(trimmed) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func isCommentLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "/*")
}

func hasPreserveMarker(trimmed string) bool {
	for _, m := range commentPreserveMarkers {
		if strings.Contains(trimmed, m) {
			return true
		}
	}
	return false
}
