package serialize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/tldrs/internal/tokenest"
	"github.com/standardbeagle/tldrs/internal/types"
)

// CacheFriendly renders the byte-deterministic layout from §4.8: the byte
// span from the header through the breakpoint marker depends only on which
// symbols exist and their signatures, never on body content, so an external
// prompt cache can reuse it across turns where only bodies changed.
func CacheFriendly(pack types.ContextPack, estimator tokenest.Estimator) string {
	ordered := orderedSlices(pack)
	unchanged := unchangedSet(pack)

	prefix := buildPrefix(ordered, unchanged)
	prefixTokens := estimator.Estimate(prefix)
	prefixHash := hex.EncodeToString(sha256Sum([]byte(prefix)))[:16]

	// The header sits inside the prefix, so it must carry a fingerprint that
	// depends only on which symbols exist and their signatures — never on
	// body content. pack.ProjectFingerprint is hashed over (SymbolId, etag)
	// pairs, and etag is body-dependent, so it cannot be reused here without
	// breaking the prefix-stability invariant.
	shortFingerprint := structureFingerprint(ordered)

	var b strings.Builder
	fmt.Fprintf(&b, "# context v1 :: project=%s\n", shortFingerprint)
	fmt.Fprintf(&b, `{"cache_hints":{"prefix_tokens":%d,"prefix_hash":"%s","format_version":1}}`+"\n", prefixTokens, prefixHash)
	b.WriteString(prefix)
	fmt.Fprintf(&b, "<!-- CACHE_BREAKPOINT: ~%d tokens -->\n", prefixTokens)

	dynamic := buildDynamic(ordered, unchanged)
	dynamicTokens := estimator.Estimate(dynamic)
	b.WriteString(dynamic)

	fmt.Fprintf(&b, "## STATS: prefix≈%d dynamic≈%d total≈%d\n",
		prefixTokens, dynamicTokens, prefixTokens+dynamicTokens)

	return b.String()
}

// orderedSlices returns slices sorted by (file, symbol_id), the ordering
// §4.8 specifies for both the prefix and dynamic blocks.
func orderedSlices(pack types.ContextPack) []types.ContextSlice {
	out := make([]types.ContextSlice, len(pack.Slices))
	copy(out, pack.Slices)
	sort.Slice(out, func(i, j int) bool {
		fi, _ := splitSymbolID(out[i].ID)
		fj, _ := splitSymbolID(out[j].ID)
		if fi != fj {
			return fi < fj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func buildPrefix(slices []types.ContextSlice, unchanged map[types.SymbolID]bool) string {
	var b strings.Builder
	for _, s := range slices {
		marker := ""
		if unchanged[s.ID] {
			marker = " [UNCHANGED]"
		}
		fmt.Fprintf(&b, "%s %s%s\n", s.ID, s.Signature, marker)
	}
	return b.String()
}

func buildDynamic(slices []types.ContextSlice, unchanged map[types.SymbolID]bool) string {
	var b strings.Builder
	for _, s := range slices {
		if s.Code == nil || unchanged[s.ID] {
			continue
		}
		fmt.Fprintf(&b, "### %s\n```\n%s\n```\n", s.ID, *s.Code)
	}
	return b.String()
}

func sha256Sum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// structureFingerprint hashes the sorted (SymbolId, signature) pairs of
// slices, the same shape as pack.ProjectFingerprint but over signatures
// instead of etags, so it stays fixed across builds that only change a body.
func structureFingerprint(slices []types.ContextSlice) string {
	var b strings.Builder
	for _, s := range slices {
		b.WriteString(string(s.ID))
		b.WriteByte('\x00')
		b.WriteString(s.Signature)
		b.WriteByte('\x00')
	}
	sum := sha256Sum([]byte(b.String()))
	return hex.EncodeToString(sum)[:16]
}
