package news

import (
	"sort"
	"strings"
)

// DefaultLimit caps how many ranked candidates one run processes.
const DefaultLimit = 50

// Aggregate merges the combined fetcher output into a deduplicated,
// ranked list truncated to limit. Within a duplicate-title group the
// candidate with the highest score survives, ties broken by the most
// recent publish time. The final order is descending by score, then by
// publish time, and is stable for identical input.
func Aggregate(candidates []Candidate, limit int) []RankedCandidate {
	if limit <= 0 {
		limit = DefaultLimit
	}

	best := make(map[string]Candidate, len(candidates))
	order := make([]string, 0, len(candidates))

	for _, c := range candidates {
		key := NormalizeTitle(c.Title)
		if key == "" {
			continue
		}
		cur, seen := best[key]
		if !seen {
			best[key] = c
			order = append(order, key)
			continue
		}
		if c.Score > cur.Score || (c.Score == cur.Score && c.Published.After(cur.Published)) {
			best[key] = c
		}
	}

	ranked := make([]RankedCandidate, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, RankedCandidate{Candidate: best[key]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Published.After(ranked[j].Published)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// NormalizeTitle is the deduplication key: case-folded and trimmed.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
