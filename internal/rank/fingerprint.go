// Package rank computes item identities, removes duplicates within a
// batch, and imposes the strict total order used to select the digest.
package rank

import (
	"crypto/md5"
	"encoding/hex"

	"t1ddigest/internal/domain"
)

// Fingerprint derives the 8-hex-char identity of an item from its URL.
// It is stable byte-for-byte across runs and platforms. Items sharing a
// URL (the empty string included) collapse to the same fingerprint; that
// collision is a documented limitation of the identity scheme, kept for
// archive compatibility.
func Fingerprint(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:8]
}

// Dedup drops later occurrences of entries whose fingerprint was already
// seen, preserving first-seen order.
func Dedup(entries []domain.DigestEntry) []domain.DigestEntry {
	seen := make(map[string]bool, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}
