package repository

import (
	"context"
	"errors"

	"SectorPulse/internal/domain/models"
)

// SourceKind distinguishes the two overlapping exchange datasets under the
// same market.
type SourceKind string

const (
	SourceFund   SourceKind = "fund"
	SourceEquity SourceKind = "equity"
)

// TradeDataSource fetches one day of exchange trade records. An empty slice
// with a nil error is a valid "no trading that day" outcome.
type TradeDataSource interface {
	Kind() SourceKind
	FetchDaily(ctx context.Context, market Market, date string) ([]models.TradeRecord, error)
}

// QuoteProvider fetches a current quote for one symbol.
type QuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (models.Quote, error)
}

// MetricProvider fetches 52-week range metrics for one symbol.
type MetricProvider interface {
	FetchRangeMetrics(ctx context.Context, symbol string) (models.RangeMetrics, error)
}

// YieldProvider fetches a time-ordered yield series for one maturity tenor.
type YieldProvider interface {
	FetchYieldSeries(ctx context.Context, tenor string) ([]models.YieldPoint, error)
}

// NewsProvider fetches recent market news.
type NewsProvider interface {
	FetchNews(ctx context.Context, limit int) ([]models.NewsItem, error)
}

// SentimentProvider fetches the market sentiment index.
type SentimentProvider interface {
	FetchSentiment(ctx context.Context) (models.SentimentIndex, error)
}

// Narrator turns a structured summary into commentary text. Implementations
// may fail or be absent; callers substitute a fixed fallback and never block
// on it.
type Narrator interface {
	Narrate(ctx context.Context, prompt string) (string, error)
}

// Metrics records operational metrics.
type Metrics interface {
	RecordProviderRequest(provider, outcome string)
	RecordCacheEvent(key, event string)
	RecordRangePosition(sector string, position float64)
	RecordLatency(op string, seconds float64)
}

// Provider request outcomes for Metrics.RecordProviderRequest.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeRateLimited = "rate_limited"
	OutcomeTransport   = "transport"
	OutcomeParse       = "parse"
)

// OutcomeForError maps an error to a metrics outcome label.
func OutcomeForError(err error) string {
	var pe *models.ParseError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &pe):
		return OutcomeParse
	case models.IsUnavailable(err):
		return OutcomeTransport
	case errors.Is(err, models.ErrRateLimited):
		return OutcomeRateLimited
	case errors.Is(err, models.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeTransport
	}
}
