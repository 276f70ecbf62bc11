package sentiment

import (
	"context"
	"encoding/json"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	xhttp "SectorPulse/pkg/http"
	xlogger "SectorPulse/pkg/logger"
)

const (
	providerName   = "sentiment"
	defaultBaseURL = "https://api.rapidapi.com/fear-and-greed"
)

// Client fetches the fear/greed market sentiment index.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	logger  *xlogger.Logger
	rec     domrepo.Metrics
}

func NewClient(apiKey, baseURL string, logger *xlogger.Logger, rec domrepo.Metrics) (*Client, error) {
	if apiKey == "" {
		return nil, &models.ConfigError{Provider: providerName, Key: "SENTIMENT_API_KEY"}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		logger:  logger,
		rec:     rec,
	}, nil
}

type sentimentPayload struct {
	FGI struct {
		Now struct {
			Value     float64 `json:"value"`
			ValueText string  `json:"valueText"`
		} `json:"now"`
	} `json:"fgi"`
	LastUpdated struct {
		EpochUnix int64 `json:"epochUnixSeconds"`
	} `json:"lastUpdated"`
}

// FetchSentiment implements domrepo.SentimentProvider.
func (c *Client) FetchSentiment(ctx context.Context) (models.SentimentIndex, error) {
	var raw []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     c.baseURL,
		Headers: map[string]string{"X-Api-Key": c.apiKey},
	}, &raw)
	if err != nil {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeTransport)
		c.logger.Warn("sentiment fetch failed", xlogger.Error(err))
		return models.SentimentIndex{}, &models.TransportError{Provider: providerName, Err: err}
	}

	var payload sentimentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeParse)
		return models.SentimentIndex{}, models.NewParseError(providerName, raw, err)
	}
	if payload.FGI.Now.ValueText == "" {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeNotFound)
		return models.SentimentIndex{}, &models.NotFoundError{Ticker: providerName}
	}

	asOf := time.Now().UTC()
	if payload.LastUpdated.EpochUnix > 0 {
		asOf = time.Unix(payload.LastUpdated.EpochUnix, 0).UTC()
	}

	c.rec.RecordProviderRequest(providerName, domrepo.OutcomeOK)
	return models.SentimentIndex{
		Score:  payload.FGI.Now.Value,
		Rating: payload.FGI.Now.ValueText,
		AsOf:   asOf,
	}, nil
}
