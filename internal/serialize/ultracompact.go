package serialize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/tldrs/internal/types"
)

// Ultracompact renders one line per slice:
//
//	«PrefixRef»:«short_name» «signature» @«start»-«end» [«relevance»]«marker»
//
// with a header listing each PrefixRef's file path expansion once (§4.8
// "Ultracompact"). No blank lines between slices; no trailing whitespace.
func Ultracompact(pack types.ContextPack) string {
	unchanged := unchangedSet(pack)
	prefixes := newPrefixTable(pack)

	var b strings.Builder
	for i, alias := range prefixes.ordered {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s=%s", alias, prefixes.byAlias[alias])
	}
	if len(prefixes.ordered) > 0 {
		b.WriteByte('\n')
	}

	for _, s := range pack.Slices {
		file, qualified := splitSymbolID(s.ID)
		ref := prefixes.aliasFor(file)
		marker := ""
		if unchanged[s.ID] {
			marker = " [UNCHANGED]"
		}
		fmt.Fprintf(&b, "%s:%s %s @%d-%d [%s]%s\n",
			ref, shortName(qualified), s.Signature, s.Lines.Start, s.Lines.End, s.Relevance.Short(), marker)
	}

	return strings.TrimRight(b.String(), "\n")
}

// prefixTable assigns stable P0..Pn aliases to file paths, ordered by file
// path (not by first appearance in the pack).
type prefixTable struct {
	byFile  map[string]string
	byAlias map[string]string
	ordered []string
}

func newPrefixTable(pack types.ContextPack) *prefixTable {
	var files []string
	seen := make(map[string]bool)
	for _, s := range pack.Slices {
		file, _ := splitSymbolID(s.ID)
		if !seen[file] {
			seen[file] = true
			files = append(files, file)
		}
	}
	sort.Strings(files) // deterministic regardless of slice ordering changes upstream

	t := &prefixTable{byFile: make(map[string]string), byAlias: make(map[string]string)}
	for i, f := range files {
		alias := fmt.Sprintf("P%d", i)
		t.byFile[f] = alias
		t.byAlias[alias] = f
		t.ordered = append(t.ordered, alias)
	}
	return t
}

func (t *prefixTable) aliasFor(file string) string {
	return t.byFile[file]
}
