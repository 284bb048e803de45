package recommend

import "sort"

// Scored is a corpus row with its similarity score.
type Scored struct {
	Row   int
	Score float64
}

// Rank returns the topN rows by descending score. topN is clamped to len(scores).
// Ties go to the lower row index, so results are deterministic.
func Rank(scores []float64, topN int) []Scored {
	if topN > len(scores) {
		topN = len(scores)
	}
	if topN <= 0 {
		return []Scored{}
	}

	all := make([]Scored, len(scores))
	for i, s := range scores {
		all[i] = Scored{Row: i, Score: s}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].Row < all[j].Row
	})
	return all[:topN:topN]
}
