package usecase

import (
	"strings"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
)

// InstrumentResolver owns the dual-source lookup for exchange-listed
// instruments: which datasets apply to a market, in what priority order, and
// how a record is matched inside a dataset.
type InstrumentResolver struct {
	fund      domrepo.TradeDataSource
	equity    domrepo.TradeDataSource
	fundFirst bool
}

func NewInstrumentResolver(fund, equity domrepo.TradeDataSource, fundFirst bool) *InstrumentResolver {
	return &InstrumentResolver{fund: fund, equity: equity, fundFirst: fundFirst}
}

// SourcesFor returns the ordered dataset list for a market. The primary
// market carries both the fund-type and equity-type datasets; the others only
// have equities listed.
func (r *InstrumentResolver) SourcesFor(market domrepo.Market) []domrepo.TradeDataSource {
	if market == domrepo.MarketKOSPI {
		if r.fundFirst {
			return []domrepo.TradeDataSource{r.fund, r.equity}
		}
		return []domrepo.TradeDataSource{r.equity, r.fund}
	}
	return []domrepo.TradeDataSource{r.equity}
}

// FindRecord locates code within records. An exact code match wins; failing
// that, substring containment against code and name is tried as a
// lower-confidence fallback and tagged as such.
func FindRecord(records []models.TradeRecord, code string) (models.TradeRecord, models.MatchKind, bool) {
	for _, rec := range records {
		if rec.Code == code {
			return rec, models.MatchExact, true
		}
	}
	for _, rec := range records {
		if strings.Contains(rec.Code, code) || strings.Contains(rec.Name, code) {
			return rec, models.MatchSubstring, true
		}
	}
	return models.TradeRecord{}, "", false
}
