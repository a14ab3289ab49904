package serialize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/tldrs/internal/tokenest"
	"github.com/standardbeagle/tldrs/internal/types"
)

func samplePack() types.ContextPack {
	code := "func Foo() {\n\treturn\n}"
	return types.ContextPack{
		Slices: []types.ContextSlice{
			{
				ID: "a.go:Foo", Signature: "func Foo()",
				Lines: types.LineRange{Start: 2, End: 4},
				Relevance: types.Relevance{Tag: types.RelevanceEntryPoint},
				Code: &code, Etag: "aaaa1111bbbb2222",
			},
		},
		Budget: 100, BudgetUsed: 20,
		ProjectFingerprint: "deadbeefdeadbeefcafef00dcafef00d",
	}
}

func TestUltracompact_NoTrailingWhitespace(t *testing.T) {
	out := Ultracompact(samplePack())
	assert.False(t, strings.HasSuffix(out, "\n"))
	assert.Contains(t, out, "P0=a.go")
	assert.Contains(t, out, "P0:Foo func Foo() @2-4 [entry]")
}

func TestUltracompact_UnchangedMarker(t *testing.T) {
	pack := samplePack()
	pack.Unchanged = []types.SymbolID{"a.go:Foo"}
	out := Ultracompact(pack)
	assert.Contains(t, out, "[UNCHANGED]")
}

func TestJSON_PackedAliases(t *testing.T) {
	out, err := JSON(samplePack())
	require.NoError(t, err)
	assert.Contains(t, out, `"i":"a.go:Foo"`)
	assert.Contains(t, out, `"g":"func Foo()"`)
	assert.Contains(t, out, `"c":"func Foo`)
	assert.NotContains(t, out, `"meta"`)
}

func TestCacheFriendly_PrefixStableAcrossBodyChange(t *testing.T) {
	est := tokenest.LenOverFour{}
	pack1 := samplePack()
	out1 := CacheFriendly(pack1, est)

	pack2 := samplePack()
	newCode := "func Foo() {\n\treturn 42\n}"
	pack2.Slices[0].Code = &newCode
	pack2.Slices[0].Etag = "ffff9999eeee8888"
	// A real second build re-derives ProjectFingerprint from the new etag, so
	// it differs here even though the signature didn't change.
	pack2.ProjectFingerprint = "00000000000000000000000000000000000000000000000000000000000000"
	out2 := CacheFriendly(pack2, est)

	prefix1 := out1[:strings.Index(out1, "CACHE_BREAKPOINT")]
	prefix2 := out2[:strings.Index(out2, "CACHE_BREAKPOINT")]
	assert.Equal(t, prefix1, prefix2)
	assert.NotEqual(t, out1, out2)
}

func TestText_IncludesBudgetFooter(t *testing.T) {
	out := Text(samplePack())
	assert.Contains(t, out, "budget 20/100")
}
