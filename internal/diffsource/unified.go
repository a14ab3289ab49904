package diffsource

import (
	"strings"

	diffparse "github.com/sourcegraph/go-diff/diff"

	"github.com/standardbeagle/tldrs/internal/types"
)

// ParseUnified parses a unified-diff byte stream (the shape `git diff`
// emits) into the core's Hunk model, one types.Hunk per hunk per file.
func ParseUnified(data []byte) ([]types.Hunk, error) {
	fileDiffs, err := diffparse.ParseMultiFileDiff(data)
	if err != nil {
		return nil, err
	}

	var hunks []types.Hunk
	for _, fd := range fileDiffs {
		path := diffFilePath(fd)
		if path == "" {
			continue
		}
		for _, h := range fd.Hunks {
			hunks = append(hunks, types.Hunk{
				File:     path,
				OldStart: uint32(max32(h.OrigStartLine, 0)),
				OldCount: uint32(max32(h.OrigLines, 0)),
				NewStart: uint32(max32(h.NewStartLine, 0)),
				NewCount: uint32(max32(h.NewLines, 0)),
			})
		}
	}
	return hunks, nil
}

// diffFilePath prefers the "b/" (new) side of a diff, stripping a leading
// "b/" prefix `git diff` adds; a deleted file (NewName == "/dev/null")
// falls back to the old name so its hunks still map somewhere.
func diffFilePath(fd *diffparse.FileDiff) string {
	name := fd.NewName
	if name == "" || name == "/dev/null" {
		name = fd.OrigName
	}
	return strings.TrimPrefix(strings.TrimPrefix(name, "b/"), "a/")
}

func max32(n int32, floor int32) int32 {
	if n < floor {
		return floor
	}
	return n
}
