// Package compress implements the Block Compressor (spec §4.6): when a
// candidate's body is too large to include whole, it segments the body into
// blocks, scores them against diff proximity and call-graph relevance, and
// solves a budget-constrained 0/1 knapsack to pick which blocks survive.
package compress

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/tldrs/internal/tokenest"
	"github.com/standardbeagle/tldrs/internal/types"
)

// Result is what one compress_body call yields.
type Result struct {
	Code          string
	KeptBlocks    int
	DroppedBlocks int
}

// Body compresses code to fit localBudget tokens (as measured by estimator),
// returning the kept blocks in original order with elision markers inserted
// between non-adjacent kept runs (§4.6 step 4).
func Body(code string, lang types.Language, localBudget int, hints Hints, estimator tokenest.Estimator) Result {
	blocks := segment(code, lang)
	if len(blocks) == 0 {
		return Result{Code: code}
	}

	weights := make([]int, len(blocks))
	scores := make([]int, len(blocks))
	for i, b := range blocks {
		weights[i] = estimator.Estimate(b.text)
		scores[i] = scoreBlock(b, hints)
	}

	kept := selectBlocks(weights, scores, localBudget)
	if len(kept) == len(blocks) {
		return Result{Code: code, KeptBlocks: len(blocks)}
	}

	keptSet := make(map[int]bool, len(kept))
	for _, i := range kept {
		keptSet[i] = true
	}

	var out strings.Builder
	prevKept := -1
	for i, b := range blocks {
		if !keptSet[i] {
			continue
		}
		if prevKept >= 0 && i != prevKept+1 {
			elidedLines := elidedLineCount(blocks, prevKept, i)
			if out.Len() > 0 {
				out.WriteByte('\n')
			}
			fmt.Fprintf(&out, "# ... (%d lines elided)", elidedLines)
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(b.text)
		prevKept = i
	}
	if prevKept >= 0 && prevKept < len(blocks)-1 {
		elidedLines := elidedLineCount(blocks, prevKept, len(blocks))
		out.WriteByte('\n')
		fmt.Fprintf(&out, "# ... (%d lines elided)", elidedLines)
	}

	return Result{
		Code:          out.String(),
		KeptBlocks:    len(kept),
		DroppedBlocks: len(blocks) - len(kept),
	}
}

// elidedLineCount sums the line spans of the dropped blocks strictly
// between the block at index `after` and the block at index `upto`
// (exclusive), so the marker reports the actual elided line count rather
// than a byte-range approximation.
func elidedLineCount(blocks []block, after, upto int) int {
	n := 0
	for i := after + 1; i < upto; i++ {
		n += blocks[i].endLine - blocks[i].startLine + 1
	}
	return n
}
