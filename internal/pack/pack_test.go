package pack

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/tldrs/internal/delta"
	"github.com/standardbeagle/tldrs/internal/tokenest"
	"github.com/standardbeagle/tldrs/internal/types"
)

func newTestIndex() *types.ProjectIndex {
	idx := types.NewProjectIndex()
	sym := &types.Symbol{
		ID:        "a.go:Foo",
		Name:      "Foo",
		File:      "a.go",
		LineStart: 2,
		LineEnd:   4,
		Language:  types.LangGo,
		Kind:      types.KindFunction,
		Signature: "func Foo()",
		DocLine:   "Foo does a thing.",
	}
	idx.Symbols[sym.ID] = sym
	idx.SourceCache = map[string][]byte{"a.go": []byte("package a\nfunc Foo() {\n\tx := 1\n}\n")}
	return idx
}

func TestPack_MapZoom_NoCode(t *testing.T) {
	idx := newTestIndex()
	cands := []types.Candidate{{SymbolID: "a.go:Foo", Relevance: types.Relevance{Tag: types.RelevanceEntryPoint}}}

	p := Pack(idx, cands, 1000, Options{Zoom: types.ZoomMap})

	require.Len(t, p.Slices, 1)
	assert.Nil(t, p.Slices[0].Code)
	assert.Equal(t, "func Foo()", p.Slices[0].Signature)
}

func TestPack_FullZoom_IncludesBody(t *testing.T) {
	idx := newTestIndex()
	cands := []types.Candidate{{SymbolID: "a.go:Foo", Relevance: types.Relevance{Tag: types.RelevanceEntryPoint}}}

	p := Pack(idx, cands, 1000, Options{Zoom: types.ZoomFull})

	require.Len(t, p.Slices, 1)
	require.NotNil(t, p.Slices[0].Code)
	assert.Contains(t, *p.Slices[0].Code, "x := 1")
	assert.NotEmpty(t, p.Slices[0].Etag)
	assert.Len(t, p.Slices[0].Etag, 16)
}

func TestPack_TinyBudget_DegradesToSignatureOnly(t *testing.T) {
	idx := newTestIndex()
	cands := []types.Candidate{{SymbolID: "a.go:Foo", Relevance: types.Relevance{Tag: types.RelevanceEntryPoint}}}

	p := Pack(idx, cands, 3, Options{Zoom: types.ZoomFull, Estimator: tokenest.LenOverFour{}})

	require.Len(t, p.Slices, 1)
	assert.Nil(t, p.Slices[0].Code)
}

func TestPack_DeltaMode_SecondPackElidesUnchanged(t *testing.T) {
	idx := newTestIndex()
	cands := []types.Candidate{{SymbolID: "a.go:Foo", Relevance: types.Relevance{Tag: types.RelevanceEntryPoint}}}
	store := delta.New(t.TempDir())

	first := Pack(idx, cands, 1000, Options{Zoom: types.ZoomFull, SessionID: "s1", DeltaStore: store})
	require.Len(t, first.Slices, 1)
	require.NotNil(t, first.Slices[0].Code)
	assert.Empty(t, first.Unchanged)

	second := Pack(idx, cands, 1000, Options{Zoom: types.ZoomFull, SessionID: "s1", DeltaStore: store})
	require.Len(t, second.Slices, 1)
	assert.Nil(t, second.Slices[0].Code)
	assert.Equal(t, []types.SymbolID{"a.go:Foo"}, second.Unchanged)
}

func TestPack_NoDiff_MetaIsEmpty(t *testing.T) {
	idx := newTestIndex()
	cands := []types.Candidate{{SymbolID: "a.go:Foo", Relevance: types.Relevance{Tag: types.RelevanceEntryPoint}}}

	p := Pack(idx, cands, 1000, Options{Zoom: types.ZoomFull, Compress: types.CompressNone})

	require.Len(t, p.Slices, 1)
	assert.True(t, p.Slices[0].Meta.IsEmpty())
}

func TestProjectFingerprint_Deterministic(t *testing.T) {
	pairs := map[types.SymbolID]string{"b.go:Z": "etag2", "a.go:Y": "etag1"}
	f1 := ProjectFingerprint(pairs)
	f2 := ProjectFingerprint(pairs)
	assert.Equal(t, f1, f2)
}

func TestRebaseToBody_ShiftsAbsoluteToBodyRelative(t *testing.T) {
	out := rebaseToBody([]types.LineRange{{Start: 150, End: 152}}, 101)
	assert.Equal(t, []types.LineRange{{Start: 50, End: 52}}, out)
}

func TestRebaseToBody_ClampsBelowBodyStart(t *testing.T) {
	out := rebaseToBody([]types.LineRange{{Start: 5, End: 10}}, 101)
	assert.Equal(t, []types.LineRange{{Start: 1, End: 1}}, out)
}

func TestRebaseToBody_EmptyInputStaysNil(t *testing.T) {
	assert.Nil(t, rebaseToBody(nil, 101))
}

func TestCallEdgeNames_ResolvesForwardCallees(t *testing.T) {
	idx := types.NewProjectIndex()
	idx.Symbols["a.go:Foo"] = &types.Symbol{ID: "a.go:Foo", Name: "Foo"}
	idx.Symbols["a.go:Helper"] = &types.Symbol{ID: "a.go:Helper", Name: "Helper"}
	idx.ForwardCalls["a.go:Foo"] = []types.SymbolID{"a.go:Helper"}

	assert.Equal(t, []string{"Helper"}, callEdgeNames(idx, "a.go:Foo"))
}

func TestCallEdgeNames_NoCalleesIsNil(t *testing.T) {
	idx := types.NewProjectIndex()
	assert.Nil(t, callEdgeNames(idx, "a.go:Foo"))
}

// TestPack_CompressBlocks_RebasesAbsoluteDiffLinesToBody reproduces a symbol
// whose body does not start at file line 1 (the common case) and asserts the
// diff-touched block survives compression. Before the packer rebased
// cand.DiffLines (absolute file coordinates) into the block segmenter's
// body-relative coordinate space, this diff signal silently never matched.
func TestPack_CompressBlocks_RebasesAbsoluteDiffLinesToBody(t *testing.T) {
	var bodyLines []string
	for i := 0; i < 100; i++ {
		bodyLines = append(bodyLines, "    noise_line_filler_value_here()", "")
	}
	bodyLines[40] = "    touched_by_diff()"

	const lineStart = uint32(101)
	lineEnd := lineStart + uint32(len(bodyLines)) - 1

	var fileLines []string
	for i := uint32(1); i < lineStart; i++ {
		fileLines = append(fileLines, "// padding")
	}
	fileLines = append(fileLines, bodyLines...)
	fileContent := strings.Join(fileLines, "\n")

	idx := types.NewProjectIndex()
	sym := &types.Symbol{
		ID: "a.go:Big", Name: "Big", File: "a.go",
		LineStart: lineStart, LineEnd: lineEnd,
		Language: types.LangUnknown, Kind: types.KindFunction,
		Signature: "func Big()",
	}
	idx.Symbols[sym.ID] = sym
	idx.SourceCache = map[string][]byte{"a.go": []byte(fileContent)}

	absoluteDiffLine := lineStart + 40 // body-relative line 41, as in the compress package's own fixture
	cands := []types.Candidate{{
		SymbolID:  sym.ID,
		Relevance: types.Relevance{Tag: types.RelevanceEntryPoint},
		DiffLines: []types.LineRange{{Start: absoluteDiffLine, End: absoluteDiffLine}},
	}}

	p := Pack(idx, cands, 1000, Options{
		Zoom: types.ZoomFull, Compress: types.CompressBlocks,
		Estimator: tokenest.LenOverFour{},
	})

	require.Len(t, p.Slices, 1)
	require.NotNil(t, p.Slices[0].Code)
	assert.Greater(t, p.Slices[0].Meta.DroppedBlocks, 0)
	assert.Contains(t, *p.Slices[0].Code, "touched_by_diff")
}
