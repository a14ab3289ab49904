package mcpserver

import (
	"fmt"

	"github.com/standardbeagle/tldrs/internal/serialize"
	"github.com/standardbeagle/tldrs/internal/types"
)

// ParseZoom maps a wire-level zoom name to its types.Zoom value; exported
// so the CLI front end can share the same vocabulary as the MCP tools.
func ParseZoom(s string) (types.Zoom, error) {
	switch s {
	case "", "full":
		return types.ZoomFull, nil
	case "map":
		return types.ZoomMap, nil
	case "index":
		return types.ZoomIndex, nil
	case "sketch":
		return types.ZoomSketch, nil
	case "windowed":
		return types.ZoomWindowed, nil
	default:
		return 0, fmt.Errorf("unknown zoom %q (want map|index|sketch|windowed|full)", s)
	}
}

// ParseCompress maps a wire-level compress mode name to its
// types.CompressMode value.
func ParseCompress(s string) (types.CompressMode, error) {
	switch s {
	case "", "none":
		return types.CompressNone, nil
	case "blocks":
		return types.CompressBlocks, nil
	case "two_stage":
		return types.CompressTwoStage, nil
	case "chunk_summary":
		return types.CompressChunkSummary, nil
	default:
		return 0, fmt.Errorf("unknown compress mode %q (want none|blocks|two_stage|chunk_summary)", s)
	}
}

// ParseFormat maps a wire-level serializer name to its serialize.Mode value.
func ParseFormat(s string) (serialize.Mode, error) {
	switch s {
	case "", "json":
		return serialize.ModeJSON, nil
	case "text":
		return serialize.ModeText, nil
	case "ultracompact":
		return serialize.ModeUltracompact, nil
	case "cache_friendly":
		return serialize.ModeCacheFriendly, nil
	default:
		return 0, fmt.Errorf("unknown format %q (want json|text|ultracompact|cache_friendly)", s)
	}
}

func toSymbolIDs(seed []string) []types.SymbolID {
	out := make([]types.SymbolID, len(seed))
	for i, s := range seed {
		out[i] = types.SymbolID(s)
	}
	return out
}

func toHunks(params []HunkParam) []types.Hunk {
	out := make([]types.Hunk, len(params))
	for i, h := range params {
		out[i] = types.Hunk{
			File:     h.File,
			OldStart: uint32(h.OldStart),
			OldCount: uint32(h.OldCount),
			NewStart: uint32(h.NewStart),
			NewCount: uint32(h.NewCount),
		}
	}
	return out
}
