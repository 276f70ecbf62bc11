package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	svccache "SectorPulse/internal/service/cache"
	"SectorPulse/internal/usecase"
	"SectorPulse/pkg/metrics"

	xlogger "SectorPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubQuotes struct{}

func (stubQuotes) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	return models.Quote{Symbol: symbol, Price: 190.5, ChangePercent: 1.2}, nil
}

type stubSource struct {
	kind domrepo.SourceKind
}

func (s stubSource) Kind() domrepo.SourceKind { return s.kind }

func (s stubSource) FetchDaily(ctx context.Context, market domrepo.Market, date string) ([]models.TradeRecord, error) {
	return nil, nil
}

func newTestHandler() *MarketEchoHandler {
	ir := usecase.NewInstrumentResolver(stubSource{kind: domrepo.SourceFund}, stubSource{kind: domrepo.SourceEquity}, true)
	days := usecase.NewTradingDayResolver(ir, 14, xlogger.Nop())
	agg := usecase.NewMarketAggregator(svccache.NewTTLCache(), stubQuotes{}, days,
		nil, nil, nil, nil,
		usecase.TTLs{Snapshot: time.Minute, Degraded: time.Minute},
		xlogger.Nop(), metrics.NewNoop())
	return NewMarketEchoHandler(xlogger.Nop(), agg)
}

func performRequest(h *MarketEchoHandler, target string) *httptest.ResponseRecorder {
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestQuotesRequiresSymbols(t *testing.T) {
	rec := performRequest(newTestHandler(), "/api/quotes")
	if rec.Code != http.StatusOK {
		t.Fatalf("envelope status = %d", rec.Code)
	}
	var body struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", body.Status)
	}
}

func TestQuotesInvalidDate(t *testing.T) {
	rec := performRequest(newTestHandler(), "/api/quotes?symbols=AAPL&date=2024-01-05")
	var body struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", body.Status)
	}
}

func TestQuotesSuccess(t *testing.T) {
	rec := performRequest(newTestHandler(), "/api/quotes?symbols=AAPL,MSFT")
	var body struct {
		Status int                  `json:"status"`
		Data   models.MarketSnapshot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != http.StatusOK {
		t.Fatalf("status = %d", body.Status)
	}
	if len(body.Data.Results) != 2 {
		t.Fatalf("results = %d", len(body.Data.Results))
	}
	if body.Data.Results[0].Price != 190.5 {
		t.Fatalf("price = %v", body.Data.Results[0].Price)
	}
}

func TestHealth(t *testing.T) {
	rec := performRequest(newTestHandler(), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}
