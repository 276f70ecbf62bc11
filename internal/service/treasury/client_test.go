package treasury

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SectorPulse/internal/domain/models"
	xlogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/metrics"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient("av-key", srv.URL, time.Millisecond, nil, xlogger.Nop(), metrics.NewNoop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("", "", 0, nil, xlogger.Nop(), metrics.NewNoop())
	var cfgErr *models.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestFetchYieldSeries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("function") != "TREASURY_YIELD" || q.Get("maturity") != "10year" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("apikey") != "av-key" {
			t.Errorf("missing apikey param")
		}
		w.Write([]byte(`{"name":"10-Year Treasury Constant Maturity Rate","data":[
			{"date":"2024-01-05","value":"4.05"},
			{"date":"2024-01-04","value":"4.00"},
			{"date":"2024-01-03","value":"."},
			{"date":"2024-01-02","value":"3.95"}]}`))
	})

	points, err := c.FetchYieldSeries(context.Background(), "10year")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("holiday point should be skipped, got %d points", len(points))
	}
	if points[0].Value != 4.05 || points[1].Value != 4.00 {
		t.Fatalf("unexpected points %+v", points[:2])
	}
}

func TestFetchYieldSeriesAdvisoryShortCircuits(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Information":"Thank you for using our API. Our standard volume limit is 5 requests per minute."}`))
	})

	_, err := c.FetchYieldSeries(context.Background(), "10year")
	if !errors.Is(err, models.ErrRateLimited) {
		t.Fatalf("advisory must read as rate-limited, got %v", err)
	}
}

func TestFetchYieldSeriesEmptyData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"x","data":[]}`))
	})

	_, err := c.FetchYieldSeries(context.Background(), "30year")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestFetchYieldSeriesTransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.FetchYieldSeries(context.Background(), "10year")
	if !models.IsUnavailable(err) {
		t.Fatalf("expected transport failure, got %v", err)
	}
}
