package serialize

import (
	"encoding/json"

	"github.com/standardbeagle/tldrs/internal/types"
)

// packedSlice mirrors ContextSlice with the packed field aliases from §4.8
// ("JSON / Packed-JSON"): id→i, signature→g, code→c, relevance→r, lines→l,
// etag→e. omitempty on every optional field enforces the sparsity invariant.
type packedSlice struct {
	ID        string      `json:"i"`
	Signature string      `json:"g"`
	Code      *string     `json:"c,omitempty"`
	Relevance string      `json:"r"`
	Lines     [2]uint32   `json:"l"`
	Etag      string      `json:"e"`
	Meta      *packedMeta `json:"meta,omitempty"`
}

type packedMeta struct {
	BlockCount    int         `json:"block_count,omitempty"`
	DroppedBlocks int         `json:"dropped_blocks,omitempty"`
	DiffLines     [][2]uint32 `json:"diff_lines,omitempty"`
	Summary       string      `json:"summary,omitempty"`
}

type packedCacheStats struct {
	Hits    int     `json:"hits,omitempty"`
	Misses  int     `json:"misses,omitempty"`
	HitRate float64 `json:"hit_rate,omitempty"`
}

type packedPack struct {
	Slices             []packedSlice    `json:"slices"`
	Budget             int              `json:"budget"`
	BudgetUsed         int              `json:"budget_used"`
	Unchanged          *[]string        `json:"unchanged,omitempty"`
	CacheStats         packedCacheStats `json:"cache_stats"`
	ProjectFingerprint string           `json:"project_fingerprint"`
	BudgetExhausted    bool             `json:"budget_exhausted,omitempty"`
}

// JSON renders a pack as the packed-field-alias JSON document (§4.8).
func JSON(pack types.ContextPack) (string, error) {
	out := packedPack{
		Budget:             pack.Budget,
		BudgetUsed:         pack.BudgetUsed,
		ProjectFingerprint: pack.ProjectFingerprint,
		BudgetExhausted:    pack.BudgetExhausted,
		CacheStats: packedCacheStats{
			Hits: pack.CacheStats.Hits, Misses: pack.CacheStats.Misses, HitRate: pack.CacheStats.HitRate,
		},
	}
	if pack.Unchanged != nil {
		unchanged := make([]string, len(pack.Unchanged))
		for i, id := range pack.Unchanged {
			unchanged[i] = string(id)
		}
		out.Unchanged = &unchanged
	}

	for _, s := range pack.Slices {
		ps := packedSlice{
			ID:        string(s.ID),
			Signature: s.Signature,
			Code:      s.Code,
			Relevance: s.Relevance.Short(),
			Lines:     [2]uint32{s.Lines.Start, s.Lines.End},
			Etag:      s.Etag,
		}
		if !s.Meta.IsEmpty() {
			meta := &packedMeta{
				BlockCount:    s.Meta.BlockCount,
				DroppedBlocks: s.Meta.DroppedBlocks,
				Summary:       s.Meta.Summary,
			}
			for _, dl := range s.Meta.DiffLines {
				meta.DiffLines = append(meta.DiffLines, [2]uint32{dl.Start, dl.End})
			}
			ps.Meta = meta
		}
		out.Slices = append(out.Slices, ps)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
