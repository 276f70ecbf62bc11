package analytics

import "SectorPulse/internal/domain/models"

// ComputeRangePosition expresses price within the [low, high] 52-week span.
// The output is deliberately not clamped: a position outside [0,100] or a
// delta with an unexpected sign is diagnostic of stale range data, and
// callers display the raw values. When high equals low the position is
// defined as the midpoint, 50.
func ComputeRangePosition(price, high, low float64) models.RangePosition {
	pos := 50.0
	if high != low {
		pos = 100 * (price - low) / (high - low)
	}

	var fromHigh, fromLow float64
	if high != 0 {
		fromHigh = 100 * (price - high) / high
	}
	if low != 0 {
		fromLow = 100 * (price - low) / low
	}

	return models.RangePosition{
		PositionPercent: pos,
		PercentFromHigh: fromHigh,
		PercentFromLow:  fromLow,
		Label:           positionLabel(pos),
	}
}

func positionLabel(pos float64) string {
	switch {
	case pos <= 20:
		return "near 52-week low"
	case pos <= 40:
		return "lower range"
	case pos <= 60:
		return "mid range"
	case pos <= 80:
		return "upper range"
	default:
		return "near 52-week high"
	}
}
