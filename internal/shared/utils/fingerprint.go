package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint derives the deterministic cache key for one (source, query)
// pair. Queries are normalized (trimmed, lowercased, inner whitespace
// collapsed) so that visually identical queries share a cache slot.
func Fingerprint(sourceID, query string) string {
	combined := sourceID + "|" + NormalizeQuery(query)
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:])
}

// NormalizeQuery canonicalizes a free-text query for fingerprinting and
// substring matching.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// ShortFingerprint returns an 8-character prefix for log output.
func ShortFingerprint(fp string) string {
	if len(fp) < 8 {
		return fp
	}
	return fp[:8]
}

// ContainsFold reports whether substr occurs in s, case-insensitively.
// The engine's query filter is exact substring containment, nothing more.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
