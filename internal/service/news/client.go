package news

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
	providerName   = "news"
	defaultBaseURL = "https://newsapi.org/v2"
)

// Client fetches market news headlines.
type Client struct {
	apiKey   string
	baseURL  string
	category string
	http     *xhttp.Client
	logger   *xlogger.Logger
	rec      domrepo.Metrics
}

func NewClient(apiKey, baseURL, category string, logger *xlogger.Logger, rec domrepo.Metrics) (*Client, error) {
	if apiKey == "" {
		return nil, &models.ConfigError{Provider: providerName, Key: "NEWS_API_KEY"}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if category == "" {
		category = "business"
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		category: category,
		http:     xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		logger:   logger,
		rec:      rec,
	}, nil
}

type newsPayload struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// FetchNews implements domrepo.NewsProvider.
func (c *Client) FetchNews(ctx context.Context, limit int) ([]models.NewsItem, error) {
	var raw []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     c.baseURL + "/top-headlines",
		Headers: map[string]string{"X-Api-Key": c.apiKey},
		QueryParams: map[string]string{
			"category": c.category,
		},
	}, &raw)
	if err != nil {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeTransport)
		c.logger.Warn("news fetch failed", xlogger.Error(err))
		return nil, &models.TransportError{Provider: providerName, Err: err}
	}

	var payload newsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeParse)
		return nil, models.NewParseError(providerName, raw, err)
	}

	items := make([]models.NewsItem, 0, limit)
	for _, a := range payload.Articles {
		if len(items) >= limit {
			break
		}
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		items = append(items, models.NewsItem{
			Headline:    a.Title,
			Summary:     a.Description,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: published,
		})
	}

	c.rec.RecordProviderRequest(providerName, domrepo.OutcomeOK)
	return items, nil
}
