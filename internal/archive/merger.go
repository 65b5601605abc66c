// Package archive maintains the deduplicated, size-bounded history of
// previously emitted digest entries.
package archive

import (
	"time"

	"t1ddigest/internal/domain"
)

// DefaultCap is the number of entries the archive retains; the oldest
// insertions are evicted first.
const DefaultCap = 50

// Merge appends digest entries whose IDs are not already archived,
// stamping each with now as its archival time, then truncates to the most
// recent capEntries by insertion order (front-dropped), regardless of each
// entry's own published date. Merging the same digest twice is a no-op
// after the first application, barring the eviction boundary.
func Merge(existing []domain.ArchiveEntry, digest []domain.DigestEntry, now time.Time, capEntries int) []domain.ArchiveEntry {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.ID] = true
	}

	merged := make([]domain.ArchiveEntry, len(existing), len(existing)+len(digest))
	copy(merged, existing)

	for _, entry := range digest {
		if seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true
		merged = append(merged, domain.ArchiveEntry{
			DigestEntry:  entry,
			ArchivedDate: now,
		})
	}

	if capEntries > 0 && len(merged) > capEntries {
		merged = merged[len(merged)-capEntries:]
	}
	return merged
}
