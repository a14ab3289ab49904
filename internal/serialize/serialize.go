// Package serialize implements the Output Serializers (spec §4.8): four
// deterministic renderings of a ContextPack — Text, Ultracompact, Packed
// JSON, and a Cache-friendly layout with a signature-stable prefix.
package serialize

import (
	"strings"

	"github.com/standardbeagle/tldrs/internal/tokenest"
	"github.com/standardbeagle/tldrs/internal/types"
)

// Mode selects one of the four output shapes.
type Mode int

const (
	ModeText Mode = iota
	ModeUltracompact
	ModeJSON
	ModeCacheFriendly
)

// Render dispatches to the serializer for mode. estimator must be the same
// instance the packer used, so token counts reported in the output agree
// with the budget accounting that produced the pack.
func Render(pack types.ContextPack, mode Mode, estimator tokenest.Estimator) (string, error) {
	if estimator == nil {
		estimator = tokenest.LenOverFour{}
	}
	switch mode {
	case ModeText:
		return Text(pack), nil
	case ModeUltracompact:
		return Ultracompact(pack), nil
	case ModeJSON:
		return JSON(pack)
	case ModeCacheFriendly:
		return CacheFriendly(pack, estimator), nil
	default:
		return "", errUnknownMode(mode)
	}
}

type errUnknownMode Mode

func (m errUnknownMode) Error() string {
	return "serialize: unknown mode"
}

// shortName returns the last dotted component of a qualified name, e.g.
// "Class.method" -> "method".
func shortName(qualifiedName string) string {
	if i := strings.LastIndexByte(qualifiedName, '.'); i >= 0 {
		return qualifiedName[i+1:]
	}
	return qualifiedName
}

// splitSymbolID recovers (file, qualifiedName) from a SymbolID of the form
// "relative/path:qualified_name".
func splitSymbolID(id types.SymbolID) (file, qualifiedName string) {
	s := string(id)
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

func unchangedSet(pack types.ContextPack) map[types.SymbolID]bool {
	set := make(map[types.SymbolID]bool, len(pack.Unchanged))
	for _, id := range pack.Unchanged {
		set[id] = true
	}
	return set
}
