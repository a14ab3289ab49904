package diffsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/pkg/foo.go b/pkg/foo.go
index 1111111..2222222 100644
--- a/pkg/foo.go
+++ b/pkg/foo.go
@@ -10,3 +10,4 @@ func Foo() {
 	a := 1
 	b := 2
+	c := 3
 }
`

func TestParseUnified_ExtractsHunkRanges(t *testing.T) {
	hunks, err := ParseUnified([]byte(sampleDiff))
	require.NoError(t, err)
	require.Len(t, hunks, 1)

	h := hunks[0]
	assert.Equal(t, "pkg/foo.go", h.File)
	assert.Equal(t, uint32(10), h.OldStart)
	assert.Equal(t, uint32(10), h.NewStart)
	assert.Equal(t, uint32(4), h.NewCount)
}
