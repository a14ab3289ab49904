package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/tldrs/internal/types"
)

func addSymbol(idx *types.ProjectIndex, file, name string) types.SymbolID {
	id := types.NewSymbolID(file, name)
	idx.Symbols[id] = &types.Symbol{ID: id, Name: name, QualifiedName: name, File: file}
	idx.NameIdx[name] = append(idx.NameIdx[name], id)
	return id
}

func TestResolveCallGraph_SameFileQualifiedMatch(t *testing.T) {
	idx := types.NewProjectIndex()
	caller := addSymbol(idx, "a.go", "Caller")
	callee := addSymbol(idx, "a.go", "Callee")

	resolveCallGraph(idx, map[types.SymbolID][]string{caller: {"Callee"}})

	assert.Equal(t, []types.SymbolID{callee}, idx.ForwardCalls[caller])
}

func TestResolveCallGraph_AmbiguousAcrossFilesWithNoSameFileMatch_Drops(t *testing.T) {
	idx := types.NewProjectIndex()
	caller := addSymbol(idx, "a.go", "Caller")
	addSymbol(idx, "b.go", "Helper")
	addSymbol(idx, "c.go", "Helper")

	resolveCallGraph(idx, map[types.SymbolID][]string{caller: {"Helper"}})

	assert.Empty(t, idx.ForwardCalls[caller])
}

func TestResolveCallGraph_AmbiguousResolvesToSameFileCandidate(t *testing.T) {
	idx := types.NewProjectIndex()
	caller := addSymbol(idx, "a.go", "Caller")
	local := addSymbol(idx, "a.go", "Helper")
	addSymbol(idx, "b.go", "Helper")

	resolveCallGraph(idx, map[types.SymbolID][]string{caller: {"Helper"}})

	assert.Equal(t, []types.SymbolID{local}, idx.ForwardCalls[caller])
}

func TestResolveCallGraph_UnknownNameDropped(t *testing.T) {
	idx := types.NewProjectIndex()
	caller := addSymbol(idx, "a.go", "Caller")

	resolveCallGraph(idx, map[types.SymbolID][]string{caller: {"Nope"}})

	assert.Empty(t, idx.ForwardCalls[caller])
}

func TestResolveCallGraph_DeduplicatesCallees(t *testing.T) {
	idx := types.NewProjectIndex()
	caller := addSymbol(idx, "a.go", "Caller")
	callee := addSymbol(idx, "a.go", "Callee")

	resolveCallGraph(idx, map[types.SymbolID][]string{caller: {"Callee", "Callee"}})

	assert.Equal(t, []types.SymbolID{callee}, idx.ForwardCalls[caller])
}

func TestResolveCallGraph_SelfCallDropped(t *testing.T) {
	idx := types.NewProjectIndex()
	caller := addSymbol(idx, "a.go", "Caller")

	resolveCallGraph(idx, map[types.SymbolID][]string{caller: {"Caller"}})

	assert.Empty(t, idx.ForwardCalls[caller])
}
