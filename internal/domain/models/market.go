package models

import "time"

// Quote is a point-in-time quote for one instrument. Produced fresh per
// provider call and never mutated.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previousClose"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	DayHigh       float64   `json:"dayHigh"`
	DayLow        float64   `json:"dayLow"`
	DayOpen       float64   `json:"dayOpen"`
	AsOf          time.Time `json:"asOf"`
}

// RangeMetrics holds 52-week range bounds and market capitalization.
type RangeMetrics struct {
	Symbol           string  `json:"symbol"`
	FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow"`
	MarketCap        float64 `json:"marketCap"`
}

// TradeRecord is one exchange daily trade row. Numeric fields arrive as
// comma-separated strings upstream and are normalized at the client.
type TradeRecord struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Close         float64 `json:"close"`
	ChangePercent float64 `json:"changePercent"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        float64 `json:"volume"`
	TradingValue  float64 `json:"tradingValue"`
	MarketCap     float64 `json:"marketCap"`
	ListedShares  float64 `json:"listedShares"`
}

// PricePoint is one (date, close) observation in a daily series.
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// DropSignal reports whether the most recent close fell from the recent high
// by at least the configured threshold.
type DropSignal struct {
	Detected    bool    `json:"detected"`
	DropPercent float64 `json:"dropPercent"`
	Current     float64 `json:"current"`
	RecentHigh  float64 `json:"recentHigh"`
}

// YieldPoint is one (date, value) observation from the treasury-yield
// endpoint.
type YieldPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// YieldTenor is the latest value and day-over-day change for one maturity.
type YieldTenor struct {
	Tenor  string  `json:"tenor"`
	Latest float64 `json:"latest"`
	Change float64 `json:"change"`
	AsOf   string  `json:"asOf"`
}

// YieldSnapshot is the assembled yield curve view. Partial is set when some
// tenors failed this cycle; the snapshot then gets the degraded cache TTL.
type YieldSnapshot struct {
	Tenors  []YieldTenor `json:"tenors"`
	Partial bool         `json:"partial"`
}

// NewsItem is one market news headline.
type NewsItem struct {
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary,omitempty"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

// SentimentIndex is the fear/greed style market sentiment reading.
type SentimentIndex struct {
	Score  float64   `json:"score"`
	Rating string    `json:"rating"`
	AsOf   time.Time `json:"asOf"`
}
