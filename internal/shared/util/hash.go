package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// OwnerKey returns a storage-safe namespace for a principal such as
// "guest:abc" or "user:42": the principal kind, a slash, then 32 hex chars of
// its SHA-256. Raw ids never appear in object keys.
func OwnerKey(ownerID string) string {
	kind := "owner"
	if i := strings.IndexByte(ownerID, ':'); i > 0 {
		switch k := ownerID[:i]; k {
		case "user", "guest":
			kind = k
		}
	}
	sum := sha256.Sum256([]byte(ownerID))
	return kind + "/" + hex.EncodeToString(sum[:16])
}
