package mcpserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/tldrs/internal/config"
	"github.com/standardbeagle/tldrs/internal/coordinator"
	"github.com/standardbeagle/tldrs/internal/types"
)

func toolRequest(t *testing.T, args map[string]any) *mcp.CallToolRequest {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	return &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: raw}}
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

func newTestServer(t *testing.T) *Server {
	t.Helper()
	coord := coordinator.New("/workspace", &config.Config{Timeouts: config.DefaultTimeouts()}, t.TempDir())
	coord.SeedForTest(oneSymbolIndex(), time.Now())
	return New(coord, "/workspace")
}

func decodeText(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &out))
	return out
}

func TestHandleResolveEntry_Unique(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleResolveEntry(context.Background(), toolRequest(t, map[string]any{"entry": "Foo"}))
	require.NoError(t, err)
	out := decodeText(t, res)
	assert.Equal(t, "a.go:Foo", out["resolved"])
	assert.False(t, res.IsError)
}

func TestHandleResolveEntry_Unknown(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleResolveEntry(context.Background(), toolRequest(t, map[string]any{"entry": "Nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandlePack_ReturnsJSONPack(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handlePack(context.Background(), toolRequest(t, map[string]any{
		"seed": []string{"a.go:Foo"}, "budget": 100, "zoom": "full",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	out := decodeText(t, res)
	assert.Contains(t, out, "slices")
}

func TestHandlePack_UnknownSeed(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handlePack(context.Background(), toolRequest(t, map[string]any{
		"seed": []string{"nope.go:Bar"}, "budget": 100,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandlePack_InvalidZoom(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handlePack(context.Background(), toolRequest(t, map[string]any{
		"seed": []string{"a.go:Foo"}, "budget": 100, "zoom": "blurry",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleDiffPack_ExplicitHunks(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleDiffPack(context.Background(), toolRequest(t, map[string]any{
		"hunks": []map[string]any{
			{"file": "a.go", "new_start": 2, "new_count": 1},
		},
		"budget": 100,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	out := decodeText(t, res)
	assert.Contains(t, out, "slices")
}

func TestHandleStatus_ReportsSymbolCount(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleStatus(context.Background(), toolRequest(t, map[string]any{}))
	require.NoError(t, err)
	out := decodeText(t, res)
	assert.EqualValues(t, 1, out["symbol_count"])
}
