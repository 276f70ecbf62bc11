package narrative

import (
	"context"
	"fmt"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	xhttp "SectorPulse/pkg/http"
	xlogger "SectorPulse/pkg/logger"
)

const (
	providerName   = "narrative"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"

	systemInstruction = "You are a market analyst. In two sentences of plain " +
		"prose, explain what the given sector positioning data suggests. No " +
		"investment advice, no markdown."
)

// Client generates short sector commentary through the Gemini REST API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *xhttp.Client
	logger  *xlogger.Logger
	rec     domrepo.Metrics
}

func NewClient(apiKey, baseURL, model string, timeout time.Duration, logger *xlogger.Logger, rec domrepo.Metrics) (*Client, error) {
	if apiKey == "" {
		return nil, &models.ConfigError{Provider: providerName, Key: "GEMINI_API_KEY"}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		logger:  logger,
		rec:     rec,
	}, nil
}

type generateRequest struct {
	SystemInstruction struct {
		Parts []part `json:"parts"`
	} `json:"system_instruction"`
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Narrate implements domrepo.Narrator.
func (c *Client) Narrate(ctx context.Context, prompt string) (string, error) {
	var req generateRequest
	req.SystemInstruction.Parts = []part{{Text: systemInstruction}}
	req.Contents = []content{{Parts: []part{{Text: prompt}}}}

	var resp generateResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodPost,
		URL:         fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model),
		QueryParams: map[string]string{"key": c.apiKey},
		Body:        req,
	}, &resp)
	if err != nil {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeTransport)
		c.logger.Warn("narrative generation failed", xlogger.Error(err))
		return "", &models.TransportError{Provider: providerName, Err: err}
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeParse)
		return "", &models.ParseError{Provider: providerName, Err: fmt.Errorf("no candidates in response")}
	}

	c.rec.RecordProviderRequest(providerName, domrepo.OutcomeOK)
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
