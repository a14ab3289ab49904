// Package diffsource provides the abstract diff source the core consumes
// (spec §1 Non-goals: "Git operations; the core consumes a list of changed
// hunks from an abstract diff source"). A Source turns some external change
// record into the ordered []types.Hunk the Diff Mapper expects.
package diffsource

import (
	"context"

	"github.com/standardbeagle/tldrs/internal/types"
)

// Source produces the set of changed hunks for one request.
type Source interface {
	Hunks(ctx context.Context) ([]types.Hunk, error)
}

// StaticSource wraps an already-computed hunk list, useful for tests and
// for callers (the Coordinator's DiffPack request) that receive hunks
// directly as request parameters rather than deriving them locally.
type StaticSource struct {
	hunks []types.Hunk
}

// NewStaticSource returns a Source that always yields hunks unchanged.
func NewStaticSource(hunks []types.Hunk) StaticSource {
	return StaticSource{hunks: hunks}
}

func (s StaticSource) Hunks(ctx context.Context) ([]types.Hunk, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return s.hunks, nil
}
