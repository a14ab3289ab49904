package serialize

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/tldrs/internal/types"
)

// Text renders a pack as human-readable blocks, one per slice, with no
// caching guarantees (§4.8 "Text").
func Text(pack types.ContextPack) string {
	unchanged := unchangedSet(pack)

	var b strings.Builder
	for i, s := range pack.Slices {
		if i > 0 {
			b.WriteString("\n\n")
		}
		file, qualified := splitSymbolID(s.ID)
		fmt.Fprintf(&b, "%s:%d-%d [%s]", file, s.Lines.Start, s.Lines.End, s.Relevance.Short())
		if unchanged[s.ID] {
			b.WriteString(" [UNCHANGED]")
		}
		b.WriteByte('\n')
		fmt.Fprintf(&b, "%s  // %s\n", s.Signature, qualified)
		if s.Code != nil {
			b.WriteString(*s.Code)
		}
		if !s.Meta.IsEmpty() && s.Meta.Summary != "" {
			fmt.Fprintf(&b, "\n%s", s.Meta.Summary)
		}
	}
	fmt.Fprintf(&b, "\n\n-- budget %d/%d used, fingerprint %s", pack.BudgetUsed, pack.Budget, pack.ProjectFingerprint)
	return b.String()
}
