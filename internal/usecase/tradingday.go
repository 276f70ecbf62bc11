package usecase

import (
	"context"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	xlogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/util"
)

// ResolvedInstrument is the outcome of a successful lookup: the trade record,
// the dataset and date it came from, and how it was matched.
type ResolvedInstrument struct {
	Record models.TradeRecord
	Date   string
	Source domrepo.SourceKind
	Match  models.MatchKind
}

// TradingDayResolver reconciles the irregular trading calendar. Without an
// explicit date it walks backward from today, one candidate day at a time,
// probing that day's datasets in priority order before moving to the previous
// day. The walk is strictly sequential so a hit on a recent day never waits
// on older probes.
type TradingDayResolver struct {
	resolver     *InstrumentResolver
	lookbackDays int
	logger       *xlogger.Logger

	now func() time.Time
}

func NewTradingDayResolver(resolver *InstrumentResolver, lookbackDays int, logger *xlogger.Logger) *TradingDayResolver {
	if lookbackDays <= 0 {
		lookbackDays = 14
	}
	return &TradingDayResolver{
		resolver:     resolver,
		lookbackDays: lookbackDays,
		logger:       logger,
		now:          time.Now,
	}
}

// Resolve locates code in market. An explicit date disables the backward walk
// entirely: only that date's datasets are probed, and absence is reported for
// that date. A source that cannot be reached counts as having no data for
// that (day, dataset) pair; the walk moves on rather than aborting.
func (t *TradingDayResolver) Resolve(ctx context.Context, market domrepo.Market, code, explicitDate string) (*ResolvedInstrument, error) {
	sources := t.resolver.SourcesFor(market)

	if explicitDate != "" {
		if res := t.probeDay(ctx, sources, market, code, explicitDate); res != nil {
			return res, nil
		}
		return nil, &models.NotFoundError{Ticker: code, Market: string(market), Date: explicitDate}
	}

	start := t.now()
	lastTried := util.FormatBasisDate(start)
	for offset := 0; offset < t.lookbackDays; offset++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date := util.DaysBack(start, offset)
		lastTried = date
		if res := t.probeDay(ctx, sources, market, code, date); res != nil {
			return res, nil
		}
	}

	return nil, &models.NoDataInWindowError{
		Ticker:     code,
		Market:     string(market),
		WindowDays: t.lookbackDays,
		LastDate:   lastTried,
	}
}

// probeDay tries each dataset for one candidate date. nil means the
// instrument was not found on that date through any dataset.
func (t *TradingDayResolver) probeDay(ctx context.Context, sources []domrepo.TradeDataSource, market domrepo.Market, code, date string) *ResolvedInstrument {
	for _, src := range sources {
		records, err := src.FetchDaily(ctx, market, date)
		if err != nil {
			t.logger.Warn("dataset unavailable, treating as no data",
				xlogger.String("source", string(src.Kind())),
				xlogger.String("date", date),
				xlogger.Error(err))
			continue
		}
		if rec, match, ok := FindRecord(records, code); ok {
			return &ResolvedInstrument{
				Record: rec,
				Date:   date,
				Source: src.Kind(),
				Match:  match,
			}
		}
	}
	return nil
}
