package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// EdgeID derives a deterministic edge identifier from the source and
// target node ids. Repeated edges between the same pair share an id; the
// graph model keeps the duplicates.
func EdgeID(source, target string) string {
	input := fmt.Sprintf("%s->%s", source, target)
	hash := sha256.Sum256([]byte(input))
	return "edge-" + hex.EncodeToString(hash[:6])
}
