package analytics

import (
	"sort"

	"SectorPulse/internal/domain/models"
)

// recentWindow is the number of most recent closes considered when looking
// for a drop from the recent high.
const recentWindow = 5

// DetectDrop compares the most recent close against the maximum close among
// the most recent five points and reports a drop when the percent change
// magnitude meets or exceeds thresholdPercent.
func DetectDrop(series []models.PricePoint, thresholdPercent float64) models.DropSignal {
	if len(series) == 0 {
		return models.DropSignal{}
	}

	sorted := make([]models.PricePoint, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	window := sorted
	if len(window) > recentWindow {
		window = window[:recentWindow]
	}

	current := window[0].Close
	recentHigh := window[0].Close
	for _, p := range window[1:] {
		if p.Close > recentHigh {
			recentHigh = p.Close
		}
	}

	var dropPercent float64
	if recentHigh != 0 {
		dropPercent = 100 * (current - recentHigh) / recentHigh
	}

	return models.DropSignal{
		Detected:    dropPercent < 0 && -dropPercent >= thresholdPercent,
		DropPercent: dropPercent,
		Current:     current,
		RecentHigh:  recentHigh,
	}
}
