package krx

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	xhttp "SectorPulse/pkg/http"
	xlogger "SectorPulse/pkg/logger"
)

const (
	providerName = "krx"

	defaultBaseURL = "https://data-dbnfm.krx.co.kr/svc/apis"

	pathETFDaily    = "/etp/etf_bydd_trd"
	pathStockDaily  = "/sto/stk_bydd_trd"
	pathKosdaqDaily = "/sto/ksq_bydd_trd"
	pathKonexDaily  = "/sto/knx_bydd_trd"
)

// Client talks to the exchange daily trade-data endpoints. The fund-type
// (ETF) and equity-type datasets are exposed as two TradeDataSource values
// sharing one transport.
type Client struct {
	authKey string
	baseURL string
	http    *xhttp.Client
	logger  *xlogger.Logger
	rec     domrepo.Metrics
}

func NewClient(authKey, baseURL string, logger *xlogger.Logger, rec domrepo.Metrics) (*Client, error) {
	if authKey == "" {
		return nil, &models.ConfigError{Provider: providerName, Key: "KRX_AUTH_KEY"}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		authKey: authKey,
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
		logger:  logger,
		rec:     rec,
	}, nil
}

// FundSource returns the fund-type (ETF) daily dataset.
func (c *Client) FundSource() domrepo.TradeDataSource {
	return &fundSource{c: c}
}

// EquitySource returns the equity-type daily dataset.
func (c *Client) EquitySource() domrepo.TradeDataSource {
	return &equitySource{c: c}
}

type tradeRow struct {
	Code          string `json:"ISU_CD"`
	Name          string `json:"ISU_NM"`
	Close         string `json:"TDD_CLSPRC"`
	ChangePercent string `json:"FLUC_RT"`
	Open          string `json:"TDD_OPNPRC"`
	High          string `json:"TDD_HGPRC"`
	Low           string `json:"TDD_LWPRC"`
	Volume        string `json:"ACC_TRDVOL"`
	TradingValue  string `json:"ACC_TRDVAL"`
	MarketCap     string `json:"MKTCAP"`
	ListedShares  string `json:"LIST_SHRS"`
}

type dailyPayload struct {
	Rows []tradeRow `json:"OutBlock_1"`
}

func (c *Client) fetchDaily(ctx context.Context, path, date string) ([]models.TradeRecord, error) {
	var raw []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		Headers:     map[string]string{"AUTH_KEY": c.authKey},
		QueryParams: map[string]string{"basDd": date},
	}, &raw)
	if err != nil {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeTransport)
		c.logger.Warn("krx fetch failed",
			xlogger.String("path", path),
			xlogger.String("date", date),
			xlogger.Error(err))
		return nil, &models.TransportError{Provider: providerName, Err: err}
	}

	var payload dailyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.rec.RecordProviderRequest(providerName, domrepo.OutcomeParse)
		perr := models.NewParseError(providerName, raw, err)
		c.logger.Error("krx payload not parseable",
			xlogger.String("path", path),
			xlogger.String("date", date),
			xlogger.String("payload", perr.Payload))
		return nil, perr
	}

	// An empty block is a valid "no trading that day" response, not an error.
	records := make([]models.TradeRecord, 0, len(payload.Rows))
	for _, row := range payload.Rows {
		records = append(records, models.TradeRecord{
			Code:          row.Code,
			Name:          row.Name,
			Close:         parseNumeric(row.Close),
			ChangePercent: parseNumeric(row.ChangePercent),
			Open:          parseNumeric(row.Open),
			High:          parseNumeric(row.High),
			Low:           parseNumeric(row.Low),
			Volume:        parseNumeric(row.Volume),
			TradingValue:  parseNumeric(row.TradingValue),
			MarketCap:     parseNumeric(row.MarketCap),
			ListedShares:  parseNumeric(row.ListedShares),
		})
	}

	c.rec.RecordProviderRequest(providerName, domrepo.OutcomeOK)
	return records, nil
}

// parseNumeric normalizes the exchange's comma-separated numeric strings.
// Dashes and blanks mean "no value" and become zero.
func parseNumeric(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

type fundSource struct {
	c *Client
}

func (s *fundSource) Kind() domrepo.SourceKind {
	return domrepo.SourceFund
}

func (s *fundSource) FetchDaily(ctx context.Context, market domrepo.Market, date string) ([]models.TradeRecord, error) {
	// the fund dataset is exchange-wide; only the primary market routes here
	return s.c.fetchDaily(ctx, pathETFDaily, date)
}

type equitySource struct {
	c *Client
}

func (s *equitySource) Kind() domrepo.SourceKind {
	return domrepo.SourceEquity
}

func (s *equitySource) FetchDaily(ctx context.Context, market domrepo.Market, date string) ([]models.TradeRecord, error) {
	path, err := equityPath(market)
	if err != nil {
		return nil, err
	}
	return s.c.fetchDaily(ctx, path, date)
}

func equityPath(market domrepo.Market) (string, error) {
	switch market {
	case domrepo.MarketKOSPI:
		return pathStockDaily, nil
	case domrepo.MarketKOSDAQ:
		return pathKosdaqDaily, nil
	case domrepo.MarketKONEX:
		return pathKonexDaily, nil
	default:
		return "", fmt.Errorf("no equity dataset for market %s", market)
	}
}
