package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/tldrs/internal/tokenest"
	"github.com/standardbeagle/tldrs/internal/types"
)

func TestBody_FitsWhole_NoElision(t *testing.T) {
	code := "x := 1\ny := 2\nreturn x + y"
	res := Body(code, types.LangUnknown, 1000, Hints{}, tokenest.LenOverFour{})
	assert.Equal(t, code, res.Code)
	assert.Equal(t, 0, res.DroppedBlocks)
}

func TestBody_OverBudget_KeepsDiffBlockAndElides(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, "    noise_line_filler_value_here()", "")
	}
	// Insert the diff-touched line roughly in the middle, in its own block.
	lines[40] = "    touched_by_diff()"
	code := strings.Join(lines, "\n")

	hints := Hints{DiffLines: []types.LineRange{{Start: 41, End: 41}}}
	res := Body(code, types.LangUnknown, 50, hints, tokenest.LenOverFour{})

	require.Greater(t, res.DroppedBlocks, 0)
	assert.Contains(t, res.Code, "touched_by_diff")
	assert.Contains(t, res.Code, "elided")
}

func TestBody_EmptyCode(t *testing.T) {
	res := Body("", types.LangUnknown, 100, Hints{}, tokenest.LenOverFour{})
	assert.Equal(t, "", res.Code)
	assert.Equal(t, 0, res.KeptBlocks)
}

func TestSelectBlocks_DPKeepsAllUnderBudgetAndGreedyRespectsBudget(t *testing.T) {
	weights := []int{2, 3, 4, 5}
	scores := []int{3, 4, 5, 6}

	dpKept := selectBlocks(weights, scores, 100) // under cap, exercises DP
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, dpKept)

	greedyKept := greedySelect(weights, scores, 5)
	total := 0
	for _, i := range greedyKept {
		total += weights[i]
	}
	assert.LessOrEqual(t, total, 5)
}

func TestSegmentIndent_SplitsOnBlankLines(t *testing.T) {
	code := "a := 1\nb := 2\n\nc := 3\n"
	blocks := segmentIndent(code)
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0].text, "a := 1")
	assert.Contains(t, blocks[1].text, "c := 3")
}

func TestElidedLineCount(t *testing.T) {
	blocks := []block{
		{startLine: 1, endLine: 2},
		{startLine: 3, endLine: 5},
		{startLine: 6, endLine: 6},
	}
	assert.Equal(t, 3, elidedLineCount(blocks, 0, 2))
}
