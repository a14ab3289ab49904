package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/tldrs/internal/types"
)

func newIndex(syms ...*types.Symbol) *types.ProjectIndex {
	idx := types.NewProjectIndex()
	for _, s := range syms {
		idx.Symbols[s.ID] = s
		idx.NameIdx[s.Name] = append(idx.NameIdx[s.Name], s.ID)
		idx.FileIdx[s.File] = append(idx.FileIdx[s.File], s.ID)
	}
	return idx
}

func sym(file, name string, line uint32) *types.Symbol {
	return &types.Symbol{
		ID: types.NewSymbolID(file, name), Name: name, QualifiedName: name,
		File: file, LineStart: line, LineEnd: line + 1,
	}
}

func TestEntry_ExactQualifiedMatch(t *testing.T) {
	idx := newIndex(sym("a.go", "Foo", 1))
	r := Entry(idx, "a.go:Foo")
	require.Equal(t, types.SymbolID("a.go:Foo"), r.Resolved)
	assert.False(t, r.Ambiguous())
}

func TestEntry_UniqueShortName(t *testing.T) {
	idx := newIndex(sym("a.go", "Foo", 1))
	r := Entry(idx, "Foo")
	assert.Equal(t, types.SymbolID("a.go:Foo"), r.Resolved)
}

func TestEntry_AmbiguousShortName_SortedByFileLine(t *testing.T) {
	idx := newIndex(sym("b.go", "handle", 10), sym("a.go", "handle", 5))
	r := Entry(idx, "handle")
	require.True(t, r.Ambiguous())
	require.Len(t, r.Candidates, 2)
	assert.Equal(t, types.SymbolID("a.go:handle"), r.Candidates[0])
	assert.Equal(t, types.SymbolID("b.go:handle"), r.Candidates[1])
}

func TestEntry_Unknown_SuggestsNearMisses(t *testing.T) {
	idx := newIndex(sym("a.go", "Foo", 1), sym("b.go", "Bar", 1))
	r := Entry(idx, "Fooo")
	assert.True(t, r.Unknown())
	require.NotEmpty(t, r.Suggestions)
	assert.Equal(t, types.SymbolID("a.go:Foo"), r.Suggestions[0])
}

func TestEntry_PathNameForm(t *testing.T) {
	idx := newIndex(sym("pkg/a.go", "Foo", 1))
	r := Entry(idx, "pkg/a.go:Foo")
	assert.Equal(t, types.SymbolID("pkg/a.go:Foo"), r.Resolved)
}
