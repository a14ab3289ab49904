package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/tldrs/internal/coordinator"
	coreerrors "github.com/standardbeagle/tldrs/internal/errors"
	"github.com/standardbeagle/tldrs/internal/index"
	"github.com/standardbeagle/tldrs/internal/serialize"
	"github.com/standardbeagle/tldrs/internal/tokenest"
	"github.com/standardbeagle/tldrs/internal/types"
)

func (s *Server) handleBuildIndex(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p BuildIndexParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResult("build_index", fmt.Errorf("invalid parameters: %w", err))
	}

	fingerprint, err := s.coord.BuildIndex(ctx, index.Options{
		IncludeSources:          p.IncludeSources,
		IncludeRanges:           p.IncludeRanges,
		IncludeReverseAdjacency: p.IncludeReverseAdjacency,
	})
	if err != nil {
		return errorResult("build_index", err)
	}
	return jsonResult(map[string]any{
		"success":     true,
		"fingerprint": fingerprint,
	})
}

func (s *Server) handleResolveEntry(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p ResolveEntryParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResult("resolve_entry", fmt.Errorf("invalid parameters: %w", err))
	}

	result, err := s.coord.ResolveEntry(p.Entry)
	if err != nil {
		var coreErr *coreerrors.CoreError
		isAmbiguous := false
		if ce, ok := err.(*coreerrors.CoreError); ok {
			coreErr = ce
			isAmbiguous = ce.Kind == coreerrors.KindAmbiguousEntry
		}
		if isAmbiguous {
			return jsonResult(map[string]any{
				"success":    false,
				"kind":       string(coreErr.Kind),
				"candidates": result.Candidates,
			})
		}
		return errorResult("resolve_entry", err)
	}
	return jsonResult(map[string]any{
		"success":  true,
		"resolved": result.Resolved,
	})
}

func (s *Server) handlePack(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p PackParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResult("pack", fmt.Errorf("invalid parameters: %w", err))
	}

	zoom, err := ParseZoom(p.Zoom)
	if err != nil {
		return errorResult("pack", err)
	}
	compress, err := ParseCompress(p.Compress)
	if err != nil {
		return errorResult("pack", err)
	}
	format, err := ParseFormat(p.Format)
	if err != nil {
		return errorResult("pack", err)
	}

	pack, err := s.coord.Pack(ctx, toSymbolIDs(p.Seed), coordinator.PackRequest{
		Depth:           uint8(p.Depth),
		Budget:          p.Budget,
		Zoom:            zoom,
		Compress:        compress,
		StripComments:   p.StripComments,
		CompressImports: p.CompressImports,
		SessionID:       p.SessionID,
	})
	if err != nil {
		return errorResult("pack", err)
	}
	return s.renderPack(pack, format)
}

func (s *Server) handleDiffPack(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p DiffPackParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResult("diff_pack", fmt.Errorf("invalid parameters: %w", err))
	}

	zoom, err := ParseZoom(p.Zoom)
	if err != nil {
		return errorResult("diff_pack", err)
	}
	compress, err := ParseCompress(p.Compress)
	if err != nil {
		return errorResult("diff_pack", err)
	}
	format, err := ParseFormat(p.Format)
	if err != nil {
		return errorResult("diff_pack", err)
	}

	hunks := toHunks(p.Hunks)
	if len(hunks) == 0 {
		hunks, err = s.diffSource().Hunks(ctx)
		if err != nil {
			return errorResult("diff_pack", fmt.Errorf("resolve diff source: %w", err))
		}
	}

	pack, err := s.coord.DiffPack(ctx, hunks, coordinator.PackRequest{
		Depth:           uint8(p.Depth),
		Budget:          p.Budget,
		Zoom:            zoom,
		Compress:        compress,
		StripComments:   p.StripComments,
		CompressImports: p.CompressImports,
		SessionID:       p.SessionID,
	})
	if err != nil {
		return errorResult("diff_pack", err)
	}
	return s.renderPack(pack, format)
}

func (s *Server) handleStatus(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.coord.Status()
	return jsonResult(map[string]any{
		"index_age_seconds": st.IndexAge.Seconds(),
		"symbol_count":      st.SymbolCount,
		"file_count":        st.FileCount,
		"session_count":     st.SessionCount,
	})
}

func (s *Server) renderPack(pack types.ContextPack, format serialize.Mode) (*mcp.CallToolResult, error) {
	var estimator tokenest.Estimator = s.coord.Estimator()
	rendered, err := serialize.Render(pack, format, estimator)
	if err != nil {
		return errorResult("render_pack", err)
	}
	return textResult(rendered)
}
