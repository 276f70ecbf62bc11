package analytics

import "math"

// PercentileRank ranks value among peers as the share of peers it dominates,
// counting ties as dominating, expressed 0-100 and rounded to the nearest
// integer. An empty peer set returns the no-information default of 50.
func PercentileRank(value float64, peers []float64, lowerIsBetter bool) int {
	if len(peers) == 0 {
		return 50
	}

	dominated := 0
	for _, p := range peers {
		if lowerIsBetter {
			if value <= p {
				dominated++
			}
		} else {
			if value >= p {
				dominated++
			}
		}
	}

	return int(math.Round(100 * float64(dominated) / float64(len(peers))))
}
