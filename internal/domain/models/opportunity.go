package models

import "time"

// MatchKind tags how an instrument was located within a dataset. The
// substring fallback is a deliberately lower-confidence strategy and stays
// visible to callers.
type MatchKind string

const (
	MatchExact     MatchKind = "exact"
	MatchSubstring MatchKind = "substring"
)

// RangePosition expresses a price within its 52-week span. PositionPercent is
// the raw value of 100*(price-low)/(high-low) with no clamping; values
// outside [0,100] are diagnostic of stale range data.
type RangePosition struct {
	PositionPercent float64 `json:"positionPercent"`
	PercentFromHigh float64 `json:"percentFromHigh"`
	PercentFromLow  float64 `json:"percentFromLow"`
	Label           string  `json:"label"`
}

// ConstituentSnapshot is one representative instrument inside a ranked
// sector.
type ConstituentSnapshot struct {
	Symbol   string        `json:"symbol"`
	Quote    Quote         `json:"quote"`
	Position RangePosition `json:"rangePosition"`
}

// SectorOpportunity is one ranked sector with its proxy position,
// representative constituents and optional narrative. Recomputed whole on
// every cache miss, never partially updated.
type SectorOpportunity struct {
	SectorKey    string                `json:"sectorKey"`
	ProxySymbol  string                `json:"proxySymbol"`
	Position     RangePosition         `json:"rangePosition"`
	Constituents []ConstituentSnapshot `json:"representativeInstruments"`
	Narrative    string                `json:"narrative,omitempty"`
}

// SectorRanking is the weakest-N selection across the proxy universe.
type SectorRanking struct {
	Opportunities []SectorOpportunity `json:"opportunities"`
	Surveyed      int                 `json:"surveyed"`
	Survived      int                 `json:"survived"`
	Degraded      bool                `json:"degraded"`
	GeneratedAt   time.Time           `json:"generatedAt"`
}

// InstrumentResult is one instrument's outcome inside a batch. It carries
// either data or a structured error; one instrument's failure never aborts
// the batch.
type InstrumentResult struct {
	Ticker        string     `json:"ticker"`
	Market        string     `json:"market"`
	Date          string     `json:"date,omitempty"`
	Name          string     `json:"name,omitempty"`
	Price         float64    `json:"price,omitempty"`
	ChangePercent float64    `json:"changePercent,omitempty"`
	Open          float64    `json:"open,omitempty"`
	High          float64    `json:"high,omitempty"`
	Low           float64    `json:"low,omitempty"`
	Volume        float64    `json:"volume,omitempty"`
	MarketCap     float64    `json:"marketCap,omitempty"`
	Match         MatchKind  `json:"match,omitempty"`
	Source        string     `json:"source,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// Failed reports whether this result carries an error instead of data.
func (r *InstrumentResult) Failed() bool {
	return r.Error != ""
}

// MarketSnapshot is the facade's batch response: a flat ordered list of
// instrument results.
type MarketSnapshot struct {
	Results  []InstrumentResult `json:"results"`
	AsOf     time.Time          `json:"asOf"`
	Degraded bool               `json:"degraded"`
}
