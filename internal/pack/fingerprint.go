package pack

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/standardbeagle/tldrs/internal/types"
)

// Etag is a 16-hex-character prefix of SHA-256(signature ++ "\n" ++
// code_or_empty) (§4.5 "Fingerprint (etag)").
func Etag(signature, code string) string {
	sum := sha256.Sum256([]byte(signature + "\n" + code))
	return hex.EncodeToString(sum[:])[:16]
}

// ProjectFingerprint hashes the sorted (SymbolId, etag) pairs of every slice
// in a pack (§4.5 "Project fingerprint").
func ProjectFingerprint(pairs map[types.SymbolID]string) string {
	ids := make([]string, 0, len(pairs))
	for id := range pairs {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte('\x00')
		b.WriteString(pairs[types.SymbolID(id)])
		b.WriteByte('\x00')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
