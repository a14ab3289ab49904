package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/tldrs/internal/config"
	coreerrors "github.com/standardbeagle/tldrs/internal/errors"
	"github.com/standardbeagle/tldrs/internal/tokenest"
	"github.com/standardbeagle/tldrs/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{Timeouts: config.DefaultTimeouts()}
}

func seedCoordinator(t *testing.T, idx *types.ProjectIndex) *Coordinator {
	t.Helper()
	c := New("/workspace", testConfig(), t.TempDir())
	c.SeedForTest(idx, time.Now())
	return c
}

func oneSymbolIndex() *types.ProjectIndex {
	idx := types.NewProjectIndex()
	sym := &types.Symbol{
		ID: types.NewSymbolID("a.go", "Foo"), Name: "Foo", QualifiedName: "Foo",
		File: "a.go", LineStart: 1, LineEnd: 3, Signature: "func Foo()",
	}
	idx.Symbols[sym.ID] = sym
	idx.NameIdx["Foo"] = []types.SymbolID{sym.ID}
	idx.FileIdx["a.go"] = []types.SymbolID{sym.ID}
	idx.RangeIdx[sym.ID] = types.LineRange{Start: 1, End: 3}
	idx.SourceCache = map[string][]byte{"a.go": []byte("func Foo() {\n\treturn\n}\n")}
	return idx
}

func TestCoordinator_ResolveEntry_BeforeBuild_IndexUnavailable(t *testing.T) {
	c := New("/workspace", testConfig(), t.TempDir())
	_, err := c.ResolveEntry("Foo")
	var coreErr *coreerrors.CoreError
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, coreerrors.KindIndexUnavailable, coreErr.Kind)
}

func TestCoordinator_ResolveEntry_Unique(t *testing.T) {
	c := seedCoordinator(t, oneSymbolIndex())
	r, err := c.ResolveEntry("Foo")
	require.NoError(t, err)
	assert.Equal(t, types.SymbolID("a.go:Foo"), r.Resolved)
}

func TestCoordinator_Pack_UnknownSeed(t *testing.T) {
	c := seedCoordinator(t, oneSymbolIndex())
	_, err := c.Pack(context.Background(), []types.SymbolID{"nope.go:Bar"}, PackRequest{Budget: 100})
	var coreErr *coreerrors.CoreError
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, coreerrors.KindUnknownEntry, coreErr.Kind)
}

func TestCoordinator_Pack_ReturnsSlice(t *testing.T) {
	c := seedCoordinator(t, oneSymbolIndex())
	p, err := c.Pack(context.Background(), []types.SymbolID{"a.go:Foo"}, PackRequest{
		Budget: 100, Zoom: types.ZoomFull,
	})
	require.NoError(t, err)
	require.Len(t, p.Slices, 1)
	assert.Equal(t, types.SymbolID("a.go:Foo"), p.Slices[0].ID)
}

func TestCoordinator_DiffPack_MapsHunkToSymbol(t *testing.T) {
	c := seedCoordinator(t, oneSymbolIndex())
	p, err := c.DiffPack(context.Background(), []types.Hunk{
		{File: "a.go", NewStart: 2, NewCount: 1},
	}, PackRequest{Budget: 100, Zoom: types.ZoomFull})
	require.NoError(t, err)
	require.Len(t, p.Slices, 1)
	assert.Equal(t, types.RelevanceContainsDiff, p.Slices[0].Relevance.Tag)
}

func TestCoordinator_Status_ReportsSymbolCount(t *testing.T) {
	c := seedCoordinator(t, oneSymbolIndex())
	st := c.Status()
	assert.Equal(t, 1, st.SymbolCount)
	assert.Equal(t, 1, st.FileCount)
}

func TestCoordinator_Estimator_MatchesTokenest(t *testing.T) {
	cfg := testConfig()
	cfg.PreciseTokenizer = true
	c := New("/workspace", cfg, t.TempDir())
	assert.IsType(t, tokenest.WordPunct{}, c.estimator)
}
