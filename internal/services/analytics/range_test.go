package analytics

import (
	"math"
	"testing"
)

func TestComputeRangePositionExact(t *testing.T) {
	cases := []struct {
		price, high, low float64
		want             float64
	}{
		{price: 75, high: 100, low: 50, want: 50},
		{price: 50, high: 100, low: 50, want: 0},
		{price: 100, high: 100, low: 50, want: 100},
		{price: 60, high: 100, low: 50, want: 20},
	}
	for _, c := range cases {
		got := ComputeRangePosition(c.price, c.high, c.low)
		want := 100 * (c.price - c.low) / (c.high - c.low)
		if got.PositionPercent != want || got.PositionPercent != c.want {
			t.Fatalf("price=%v: got %v want %v", c.price, got.PositionPercent, c.want)
		}
	}
}

func TestComputeRangePositionNoClamping(t *testing.T) {
	// price outside the recorded span: raw values must pass through
	got := ComputeRangePosition(120, 100, 50)
	if got.PositionPercent != 140 {
		t.Fatalf("expected 140, got %v", got.PositionPercent)
	}
	got = ComputeRangePosition(40, 100, 50)
	if got.PositionPercent != -20 {
		t.Fatalf("expected -20, got %v", got.PositionPercent)
	}
	if got.PercentFromLow >= 0 {
		t.Fatalf("expected negative from-low delta, got %v", got.PercentFromLow)
	}
}

func TestComputeRangePositionDegenerateSpan(t *testing.T) {
	for _, price := range []float64{0, 10, 100, 1e9} {
		got := ComputeRangePosition(price, 80, 80)
		if got.PositionPercent != 50 {
			t.Fatalf("price=%v: expected midpoint 50, got %v", price, got.PositionPercent)
		}
	}
}

func TestComputeRangePositionDeltas(t *testing.T) {
	got := ComputeRangePosition(90, 100, 50)
	if math.Abs(got.PercentFromHigh-(-10)) > 1e-9 {
		t.Fatalf("from high: got %v", got.PercentFromHigh)
	}
	if math.Abs(got.PercentFromLow-80) > 1e-9 {
		t.Fatalf("from low: got %v", got.PercentFromLow)
	}
}

func TestPositionLabels(t *testing.T) {
	cases := map[float64]string{
		5:  "near 52-week low",
		30: "lower range",
		50: "mid range",
		70: "upper range",
		95: "near 52-week high",
	}
	for pos, want := range cases {
		if got := positionLabel(pos); got != want {
			t.Fatalf("pos=%v: got %q want %q", pos, got, want)
		}
	}
}
