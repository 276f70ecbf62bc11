package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"

	xlogger "SectorPulse/pkg/logger"
)

// fakeSource serves canned per-date datasets and records every fetch.
type fakeSource struct {
	kind  domrepo.SourceKind
	data  map[string][]models.TradeRecord
	errs  map[string]error
	calls []string
}

func (f *fakeSource) Kind() domrepo.SourceKind { return f.kind }

func (f *fakeSource) FetchDaily(ctx context.Context, market domrepo.Market, date string) ([]models.TradeRecord, error) {
	f.calls = append(f.calls, date)
	if err, ok := f.errs[date]; ok {
		return nil, err
	}
	return f.data[date], nil
}

func newResolver(fund, equity *fakeSource, lookback int) *TradingDayResolver {
	ir := NewInstrumentResolver(fund, equity, true)
	r := NewTradingDayResolver(ir, lookback, xlogger.Nop())
	r.now = func() time.Time {
		return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	}
	return r
}

func TestResolveExplicitDateNoWalk(t *testing.T) {
	fund := &fakeSource{kind: domrepo.SourceFund}
	equity := &fakeSource{kind: domrepo.SourceEquity}
	r := newResolver(fund, equity, 14)

	_, err := r.Resolve(context.Background(), domrepo.MarketKOSPI, "005930", "20240105")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := err.Error(); got != "No trading data available for date 20240105" {
		t.Fatalf("message = %q", got)
	}
	if len(fund.calls) != 1 || len(equity.calls) != 1 {
		t.Fatalf("explicit date must probe each source exactly once, fund=%d equity=%d",
			len(fund.calls), len(equity.calls))
	}
}

func TestResolveWalksBackward(t *testing.T) {
	fund := &fakeSource{kind: domrepo.SourceFund}
	equity := &fakeSource{
		kind: domrepo.SourceEquity,
		data: map[string][]models.TradeRecord{
			"20240105": {{Code: "005930", Name: "SamsungElec", Close: 76600}},
		},
	}
	r := newResolver(fund, equity, 14)

	res, err := r.Resolve(context.Background(), domrepo.MarketKOSPI, "005930", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Date != "20240105" {
		t.Fatalf("resolved date = %s", res.Date)
	}
	if res.Source != domrepo.SourceEquity {
		t.Fatalf("source = %s", res.Source)
	}
	if res.Match != models.MatchExact {
		t.Fatalf("match = %s", res.Match)
	}
	// 2024-01-15 back to 2024-01-05 inclusive is eleven candidate days.
	if len(equity.calls) != 11 {
		t.Fatalf("equity probes = %d, want 11", len(equity.calls))
	}
	if equity.calls[0] != "20240115" || equity.calls[10] != "20240105" {
		t.Fatalf("walk order wrong: first=%s last=%s", equity.calls[0], equity.calls[10])
	}
}

func TestResolveSourcePriorityPerDay(t *testing.T) {
	fund := &fakeSource{
		kind: domrepo.SourceFund,
		data: map[string][]models.TradeRecord{
			"20240115": {{Code: "069500", Name: "KODEX 200"}},
		},
	}
	equity := &fakeSource{
		kind: domrepo.SourceEquity,
		data: map[string][]models.TradeRecord{
			"20240115": {{Code: "069500", Name: "shadow listing"}},
		},
	}
	r := newResolver(fund, equity, 14)

	res, err := r.Resolve(context.Background(), domrepo.MarketKOSPI, "069500", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Source != domrepo.SourceFund {
		t.Fatalf("fund-first ordering not honored, source = %s", res.Source)
	}
	if len(equity.calls) != 0 {
		t.Fatal("equity probed despite fund hit on the same day")
	}
}

func TestResolveUnreachableSourceFallsThrough(t *testing.T) {
	fund := &fakeSource{
		kind: domrepo.SourceFund,
		errs: map[string]error{
			"20240115": &models.TransportError{Provider: "krx", Err: errors.New("connection refused")},
		},
	}
	equity := &fakeSource{
		kind: domrepo.SourceEquity,
		data: map[string][]models.TradeRecord{
			"20240115": {{Code: "005930", Name: "SamsungElec"}},
		},
	}
	r := newResolver(fund, equity, 14)

	res, err := r.Resolve(context.Background(), domrepo.MarketKOSPI, "005930", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Source != domrepo.SourceEquity {
		t.Fatalf("source = %s", res.Source)
	}
}

func TestResolveWindowExhausted(t *testing.T) {
	fund := &fakeSource{kind: domrepo.SourceFund}
	equity := &fakeSource{kind: domrepo.SourceEquity}
	r := newResolver(fund, equity, 14)

	_, err := r.Resolve(context.Background(), domrepo.MarketKOSPI, "005930", "")
	var nw *models.NoDataInWindowError
	if !errors.As(err, &nw) {
		t.Fatalf("expected NoDataInWindowError, got %v", err)
	}
	if nw.WindowDays != 14 {
		t.Fatalf("WindowDays = %d", nw.WindowDays)
	}
	// offsets 0..13 from 2024-01-15
	if nw.LastDate != "20240102" {
		t.Fatalf("LastDate = %s", nw.LastDate)
	}
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatal("window exhaustion must satisfy errors.Is(err, ErrNotFound)")
	}
	if len(equity.calls) != 14 {
		t.Fatalf("equity probes = %d, want 14", len(equity.calls))
	}
}

func TestResolveSecondaryMarketSkipsFundDataset(t *testing.T) {
	fund := &fakeSource{kind: domrepo.SourceFund}
	equity := &fakeSource{
		kind: domrepo.SourceEquity,
		data: map[string][]models.TradeRecord{
			"20240115": {{Code: "035720", Name: "Kakao"}},
		},
	}
	r := newResolver(fund, equity, 14)

	res, err := r.Resolve(context.Background(), domrepo.MarketKOSDAQ, "035720", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Match != models.MatchExact {
		t.Fatalf("match = %s", res.Match)
	}
	if len(fund.calls) != 0 {
		t.Fatal("fund dataset must not be probed for a secondary market")
	}
}

func TestFindRecordSubstringFallback(t *testing.T) {
	records := []models.TradeRecord{
		{Code: "KR7005930003", Name: "SamsungElectronics"},
		{Code: "KR7000660001", Name: "SKhynix"},
	}

	rec, match, ok := FindRecord(records, "005930")
	if !ok {
		t.Fatal("substring match expected")
	}
	if match != models.MatchSubstring {
		t.Fatalf("match = %s", match)
	}
	if rec.Name != "SamsungElectronics" {
		t.Fatalf("wrong record: %+v", rec)
	}

	if _, _, ok := FindRecord(records, "999999"); ok {
		t.Fatal("no match expected")
	}
}

func TestFindRecordExactBeatsSubstring(t *testing.T) {
	records := []models.TradeRecord{
		{Code: "10059300", Name: "containing code"},
		{Code: "005930", Name: "exact"},
	}
	rec, match, _ := FindRecord(records, "005930")
	if match != models.MatchExact || rec.Name != "exact" {
		t.Fatalf("exact match must win: %+v match=%s", rec, match)
	}
}
