package analytics

import (
	"testing"

	"SectorPulse/internal/domain/models"
)

func series(closes ...float64) []models.PricePoint {
	// newest first: descending dates
	dates := []string{"20240105", "20240104", "20240103", "20240102", "20240101", "20231229", "20231228"}
	out := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = models.PricePoint{Date: dates[i], Close: c}
	}
	return out
}

func TestDetectDropMonotonicDecline(t *testing.T) {
	// current close is also the recent high, so no drop is reported
	got := DetectDrop(series(100, 95, 90, 85, 80), 10)
	if got.Detected {
		t.Fatalf("expected no drop, got %+v", got)
	}
	if got.DropPercent != 0 || got.Current != 100 || got.RecentHigh != 100 {
		t.Fatalf("unexpected signal %+v", got)
	}
}

func TestDetectDropFromRecentHigh(t *testing.T) {
	got := DetectDrop(series(70, 100, 98, 95, 92), 10)
	if !got.Detected {
		t.Fatalf("expected drop, got %+v", got)
	}
	if got.DropPercent != -30 {
		t.Fatalf("expected -30, got %v", got.DropPercent)
	}
	if got.Current != 70 || got.RecentHigh != 100 {
		t.Fatalf("unexpected signal %+v", got)
	}
}

func TestDetectDropBelowThreshold(t *testing.T) {
	got := DetectDrop(series(95, 100, 98, 97, 96), 10)
	if got.Detected {
		t.Fatalf("a 5%% drop should not trip a 10%% threshold: %+v", got)
	}
	if got.DropPercent != -5 {
		t.Fatalf("expected -5, got %v", got.DropPercent)
	}
}

func TestDetectDropSortsByDate(t *testing.T) {
	// shuffled input; most recent date carries close 70
	pts := []models.PricePoint{
		{Date: "20240103", Close: 98},
		{Date: "20240105", Close: 70},
		{Date: "20240101", Close: 92},
		{Date: "20240104", Close: 100},
		{Date: "20240102", Close: 95},
	}
	got := DetectDrop(pts, 10)
	if !got.Detected || got.Current != 70 || got.RecentHigh != 100 {
		t.Fatalf("unexpected signal %+v", got)
	}
}

func TestDetectDropWindowLimitedToFive(t *testing.T) {
	// the 200 close sits outside the 5-point window and must be ignored
	got := DetectDrop(series(90, 95, 94, 93, 92, 200, 199), 10)
	if got.Detected {
		t.Fatalf("expected no drop inside 5-point window, got %+v", got)
	}
	if got.RecentHigh != 95 {
		t.Fatalf("recent high should come from the window, got %v", got.RecentHigh)
	}
}

func TestDetectDropEmptySeries(t *testing.T) {
	got := DetectDrop(nil, 10)
	if got.Detected || got.DropPercent != 0 {
		t.Fatalf("unexpected signal %+v", got)
	}
}
