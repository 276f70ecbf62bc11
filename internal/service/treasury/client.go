package treasury

import (
	"context"
	"encoding/json"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/service/ratelimit"
	xhttp "SectorPulse/pkg/http"
	xlogger "SectorPulse/pkg/logger"
)

const (
	providerName   = "treasury"
	defaultBaseURL = "https://www.alphavantage.co/query"

	pacerKey = "treasury"
)

// Client fetches treasury-yield series. The provider allows roughly five
// calls per minute, so sequential calls are paced a fixed interval apart;
// exceeding the budget makes the provider return an advisory field instead
// of data, which must read as "no data this cycle" rather than a value.
type Client struct {
	apiKey      string
	baseURL     string
	minInterval time.Duration
	http        *xhttp.Client
	pacer       *ratelimit.Pacer
	logger      *xlogger.Logger
	rec         domrepo.Metrics
}

func NewClient(apiKey, baseURL string, minInterval time.Duration, pacer *ratelimit.Pacer, logger *xlogger.Logger, rec domrepo.Metrics) (*Client, error) {
	if apiKey == "" {
		return nil, &models.ConfigError{Provider: providerName, Key: "TREASURY_API_KEY"}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if minInterval <= 0 {
		minInterval = 13 * time.Second
	}
	return &Client{
		apiKey:      apiKey,
		baseURL:     baseURL,
		minInterval: minInterval,
		http:        xhttp.NewClient(xhttp.WithTimeout(20 * time.Second)),
		pacer:       pacer,
		logger:      logger,
		rec:         rec,
	}, nil
}

type yieldPayload struct {
	Information string `json:"Information"`
	Note        string `json:"Note"`
	Data        []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"data"`
}

// FetchYieldSeries implements domrepo.YieldProvider. The returned series is
// ordered as delivered (newest first).
func (c *Client) FetchYieldSeries(ctx context.Context, tenor string) ([]models.YieldPoint, error) {
	if c.pacer != nil {
		if err := c.pacer.Wait(ctx, pacerKey, c.minInterval); err != nil {
			return nil, err
		}
	}

	var raw []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string]string{
			"function": "TREASURY_YIELD",
			"interval": "daily",
			"maturity": tenor,
			"apikey":   c.apiKey,
		},
	}, &raw)
	if err != nil {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeTransport)
		c.logger.Warn("treasury fetch failed", xlogger.String("tenor", tenor), xlogger.Error(err))
		return nil, &models.TransportError{Provider: providerName, Err: err}
	}

	var payload yieldPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeParse)
		perr := models.NewParseError(providerName, raw, err)
		c.logger.Error("treasury payload not parseable",
			xlogger.String("tenor", tenor),
			xlogger.String("payload", perr.Payload))
		return nil, perr
	}

	// The advisory field signals rate limiting and must short-circuit: it is
	// never parsed as a value.
	if payload.Information != "" || payload.Note != "" {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeRateLimited)
		c.logger.Warn("treasury advisory received", xlogger.String("tenor", tenor))
		return nil, models.ErrRateLimited
	}

	if len(payload.Data) == 0 {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeNotFound)
		return nil, &models.NotFoundError{Ticker: tenor, Market: providerName}
	}

	points := make([]models.YieldPoint, 0, len(payload.Data))
	for _, d := range payload.Data {
		v, ok := parseValue(d.Value)
		if !ok {
			// "." marks a market holiday in the series; skip it
			continue
		}
		points = append(points, models.YieldPoint{Date: d.Date, Value: v})
	}

	c.rec.RecordProviderRequest(providerName, domrepo.OutcomeOK)
	return points, nil
}

func parseValue(s string) (float64, bool) {
	if s == "" || s == "." {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return 0, false
	}
	return v, true
}
