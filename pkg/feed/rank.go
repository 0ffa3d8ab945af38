package feed

import "sort"

// ranked pairs a candidate with its dense rank.
type ranked struct {
	candidate
	rank int
}

// rankCandidates orders candidates deterministically and assigns dense
// ranks. The sort key, in priority order: window priority ascending,
// popularity score descending, best timestamp descending, id ascending.
// The id tail makes the order total, so re-running on the same input
// always yields identical ranks.
func rankCandidates(cands []candidate) []ranked {
	sorted := make([]candidate, len(cands))
	copy(sorted, cands)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		as, bs := a.PopularityOrZero(), b.PopularityOrZero()
		if as != bs {
			return as > bs
		}
		at, bt := a.BestTimestamp(), b.BestTimestamp()
		if !at.Equal(bt) {
			return at.After(bt)
		}
		return a.ID < b.ID
	})

	// Dense rank: equal full keys share a rank, the next distinct key gets
	// previous+1. IDs are unique, so distinct records never actually tie,
	// but the comparison stays on the full key rather than assuming that.
	out := make([]ranked, len(sorted))
	rank := 0
	for i, c := range sorted {
		if i == 0 || !sameKey(sorted[i-1], c) {
			rank++
		}
		out[i] = ranked{candidate: c, rank: rank}
	}
	return out
}

func sameKey(a, b candidate) bool {
	return a.priority == b.priority &&
		a.PopularityOrZero() == b.PopularityOrZero() &&
		a.BestTimestamp().Equal(b.BestTimestamp()) &&
		a.ID == b.ID
}
