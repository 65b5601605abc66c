package rank

import (
	"sort"

	"t1ddigest/internal/domain"
)

// priorityOrder maps priorities to sort weights; unknown values rank as
// medium.
func priorityOrder(p domain.Priority) int {
	switch p {
	case domain.PriorityHigh:
		return 0
	case domain.PriorityLow:
		return 2
	default:
		return 1
	}
}

// sortKey is the composite ascending key, compared field by field until a
// tiebreak resolves.
type sortKey struct {
	excitement int
	notSpecial int
	priority   int
	published  string
}

func keyOf(e domain.DigestEntry) sortKey {
	k := sortKey{
		excitement: e.ExcitementRank,
		priority:   priorityOrder(e.Meta.Priority),
		published:  e.Meta.Published,
	}
	if k.excitement == 0 {
		k.excitement = domain.ExcitementUnranked
	}
	if !e.Special {
		k.notSpecial = 1
	}
	return k
}

func (a sortKey) less(b sortKey) bool {
	if a.excitement != b.excitement {
		return a.excitement < b.excitement
	}
	if a.notSpecial != b.notSpecial {
		return a.notSpecial < b.notSpecial
	}
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.published < b.published
}

// Sort orders entries by (excitement rank, special first, priority,
// published-as-text). The sort is stable: equal-key entries keep their
// input order, which downstream treats as a recency signal. Published is
// compared as a raw string, not a parsed date; sources are expected to
// supply comparable formats.
func Sort(entries []domain.DigestEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return keyOf(entries[i]).less(keyOf(entries[j]))
	})
}

// Select sorts a copy of entries and returns the top n. Fewer than n
// entries is not an error.
func Select(entries []domain.DigestEntry, n int) []domain.DigestEntry {
	sorted := make([]domain.DigestEntry, len(entries))
	copy(sorted, entries)
	Sort(sorted)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
