package krx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	xlogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/metrics"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient("test-key", srv.URL, xlogger.Nop(), metrics.NewNoop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, srv
}

func TestNewClientRequiresAuthKey(t *testing.T) {
	_, err := NewClient("", "", xlogger.Nop(), metrics.NewNoop())
	var cfgErr *models.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Provider != "krx" {
		t.Fatalf("unexpected provider %q", cfgErr.Provider)
	}
}

func TestFetchDailyNormalizesCommaNumbers(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("AUTH_KEY") != "test-key" {
			t.Errorf("missing auth header")
		}
		if r.URL.Query().Get("basDd") != "20240105" {
			t.Errorf("unexpected basDd %q", r.URL.Query().Get("basDd"))
		}
		w.Write([]byte(`{"OutBlock_1":[{
			"ISU_CD":"005930","ISU_NM":"SamsungElec",
			"TDD_CLSPRC":"71,500","FLUC_RT":"1.25",
			"TDD_OPNPRC":"70,800","TDD_HGPRC":"71,900","TDD_LWPRC":"70,600",
			"ACC_TRDVOL":"12,345,678","ACC_TRDVAL":"881,234,567,890",
			"MKTCAP":"426,000,000,000,000","LIST_SHRS":"5,969,782,550"}]}`))
	})

	records, err := c.EquitySource().FetchDaily(context.Background(), domrepo.MarketKOSPI, "20240105")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Code != "005930" || r.Close != 71500 || r.Volume != 12345678 {
		t.Fatalf("unexpected record %+v", r)
	}
	if r.ListedShares != 5969782550 {
		t.Fatalf("listed shares not normalized: %v", r.ListedShares)
	}
}

func TestFetchDailyEmptyBlockIsValid(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"OutBlock_1":[]}`))
	})

	records, err := c.FundSource().FetchDaily(context.Background(), domrepo.MarketKOSPI, "20240101")
	if err != nil {
		t.Fatalf("empty trading day must not error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestFetchDailyTransportFailure(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_ = srv

	_, err := c.EquitySource().FetchDaily(context.Background(), domrepo.MarketKOSPI, "20240105")
	if !models.IsUnavailable(err) {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestFetchDailyParseFailureKeepsPayloadPrefix(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance window</html>`))
	})

	_, err := c.EquitySource().FetchDaily(context.Background(), domrepo.MarketKOSPI, "20240105")
	var perr *models.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Payload == "" {
		t.Fatalf("parse error should keep payload prefix")
	}
	if !models.IsUnavailable(err) {
		t.Fatalf("parse failure must count as unavailable for fallback")
	}
}

func TestParseNumeric(t *testing.T) {
	cases := map[string]float64{
		"71,500":    71500,
		"1.25":      1.25,
		"-":         0,
		"":          0,
		" 2,000 ":   2000,
		"-3.50":     -3.5,
		"1,234,567": 1234567,
	}
	for in, want := range cases {
		if got := parseNumeric(in); got != want {
			t.Fatalf("parseNumeric(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEquityPathPerMarket(t *testing.T) {
	if p, _ := equityPath(domrepo.MarketKOSDAQ); p != pathKosdaqDaily {
		t.Fatalf("unexpected kosdaq path %q", p)
	}
	if p, _ := equityPath(domrepo.MarketKONEX); p != pathKonexDaily {
		t.Fatalf("unexpected konex path %q", p)
	}
	if _, err := equityPath(domrepo.MarketUS); err == nil {
		t.Fatalf("US market must not map to an equity dataset")
	}
}
