package coordinator

import (
	"time"

	"github.com/standardbeagle/tldrs/internal/types"
)

// SeedForTest publishes idx directly, bypassing BuildIndex/index.Build so
// callers outside this package (mcpserver's handler tests) can exercise the
// Coordinator's request contract against a hand-built index without real
// tree-sitter extraction.
func (c *Coordinator) SeedForTest(idx *types.ProjectIndex, builtAt time.Time) {
	c.state.Store(&indexState{idx: idx, builtAt: builtAt, fileCount: len(idx.FileIdx)})
}
