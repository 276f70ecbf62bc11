package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/service/ratelimit"
	xhttp "SectorPulse/pkg/http"
	xlogger "SectorPulse/pkg/logger"
)

const (
	providerName   = "finnhub"
	defaultBaseURL = "https://finnhub.io/api/v1"

	limiterKey = "finnhub"
)

// Client fetches quotes and 52-week range metrics over the Finnhub REST API.
// A local token bucket keeps us under the per-minute call budget; exhaustion
// is surfaced as a rate-limited outcome without touching the provider.
type Client struct {
	apiKey      string
	baseURL     string
	callsPerMin int
	http        *xhttp.Client
	limiter     *ratelimit.Limiter
	logger      *xlogger.Logger
	rec         domrepo.Metrics
}

func NewClient(apiKey, baseURL string, callsPerMin int, limiter *ratelimit.Limiter, logger *xlogger.Logger, rec domrepo.Metrics) (*Client, error) {
	if apiKey == "" {
		return nil, &models.ConfigError{Provider: providerName, Key: "FINNHUB_API_KEY"}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if callsPerMin <= 0 {
		callsPerMin = 60
	}
	return &Client{
		apiKey:      apiKey,
		baseURL:     baseURL,
		callsPerMin: callsPerMin,
		http:        xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		limiter:     limiter,
		logger:      logger,
		rec:         rec,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, raw *[]byte) error {
	if c.limiter != nil && !c.limiter.Allow(limiterKey, float64(c.callsPerMin), float64(c.callsPerMin)/60) {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeRateLimited)
		return models.ErrRateLimited
	}

	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		Headers:     map[string]string{"X-Finnhub-Token": c.apiKey},
		QueryParams: query,
	}, raw)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests {
			c.rec.RecordProviderRequest(providerName, domrepo.OutcomeRateLimited)
			return models.ErrRateLimited
		}
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeTransport)
		c.logger.Warn("finnhub fetch failed", xlogger.String("path", path), xlogger.Error(err))
		return &models.TransportError{Provider: providerName, Err: err}
	}
	return nil
}

type quotePayload struct {
	Current       float64 `json:"c"`
	PreviousClose float64 `json:"pc"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	Timestamp     int64   `json:"t"`
}

// FetchQuote implements domrepo.QuoteProvider. A payload where both current
// and previous close are exactly zero means the symbol is not recognized.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	var raw []byte
	if err := c.get(ctx, "/quote", map[string]string{"symbol": symbol}, &raw); err != nil {
		return models.Quote{}, err
	}

	var q quotePayload
	if err := json.Unmarshal(raw, &q); err != nil {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeParse)
		perr := models.NewParseError(providerName, raw, err)
		c.logger.Error("finnhub quote not parseable",
			xlogger.String("symbol", symbol),
			xlogger.String("payload", perr.Payload))
		return models.Quote{}, perr
	}

	if q.Current == 0 && q.PreviousClose == 0 {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeNotFound)
		return models.Quote{}, &models.NotFoundError{Ticker: symbol, Market: string(domrepo.MarketUS)}
	}

	c.rec.RecordProviderRequest(providerName, domrepo.OutcomeOK)
	return models.Quote{
		Symbol:        symbol,
		Price:         q.Current,
		PreviousClose: q.PreviousClose,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		DayHigh:       q.High,
		DayLow:        q.Low,
		DayOpen:       q.Open,
		AsOf:          time.Unix(q.Timestamp, 0).UTC(),
	}, nil
}

type metricPayload struct {
	Metric struct {
		FiftyTwoWeekHigh *float64 `json:"52WeekHigh"`
		FiftyTwoWeekLow  *float64 `json:"52WeekLow"`
		MarketCap        float64  `json:"marketCapitalization"`
	} `json:"metric"`
}

// FetchRangeMetrics implements domrepo.MetricProvider. A payload missing
// either 52-week bound is treated as "no data" for the symbol.
func (c *Client) FetchRangeMetrics(ctx context.Context, symbol string) (models.RangeMetrics, error) {
	var raw []byte
	if err := c.get(ctx, "/stock/metric", map[string]string{"symbol": symbol, "metric": "all"}, &raw); err != nil {
		return models.RangeMetrics{}, err
	}

	var m metricPayload
	if err := json.Unmarshal(raw, &m); err != nil {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeParse)
		perr := models.NewParseError(providerName, raw, err)
		c.logger.Error("finnhub metric not parseable",
			xlogger.String("symbol", symbol),
			xlogger.String("payload", perr.Payload))
		return models.RangeMetrics{}, perr
	}

	if m.Metric.FiftyTwoWeekHigh == nil || m.Metric.FiftyTwoWeekLow == nil {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeNotFound)
		return models.RangeMetrics{}, &models.NotFoundError{Ticker: symbol, Market: string(domrepo.MarketUS)}
	}

	c.rec.RecordProviderRequest(providerName, domrepo.OutcomeOK)
	return models.RangeMetrics{
		Symbol:           symbol,
		FiftyTwoWeekHigh: *m.Metric.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  *m.Metric.FiftyTwoWeekLow,
		MarketCap:        m.Metric.MarketCap,
	}, nil
}
