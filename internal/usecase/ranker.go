package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/services/analytics"
	"SectorPulse/pkg/config"
	xlogger "SectorPulse/pkg/logger"
)

// narrativeFallback is used whenever the narrator is absent, times out or
// fails. Commentary is decoration; it never costs a ranking.
const narrativeFallback = "Commentary unavailable for this cycle."

// SectorRanker surveys the proxy universe and selects the sectors trading
// closest to their 52-week lows. Proxies are surveyed concurrently; a proxy
// whose data cannot be fetched is dropped from the survey rather than
// failing it.
type SectorRanker struct {
	quotes   domrepo.QuoteProvider
	metrics  domrepo.MetricProvider
	narrator domrepo.Narrator

	sectors          []config.Sector
	narrativeTimeout time.Duration

	logger *xlogger.Logger
	rec    domrepo.Metrics
}

func NewSectorRanker(quotes domrepo.QuoteProvider, metricProv domrepo.MetricProvider, narrator domrepo.Narrator,
	sectors []config.Sector, narrativeTimeout time.Duration, logger *xlogger.Logger, rec domrepo.Metrics) *SectorRanker {
	if len(sectors) == 0 {
		sectors = config.DefaultSectors()
	}
	if narrativeTimeout <= 0 {
		narrativeTimeout = 10 * time.Second
	}
	return &SectorRanker{
		quotes:           quotes,
		metrics:          metricProv,
		narrator:         narrator,
		sectors:          sectors,
		narrativeTimeout: narrativeTimeout,
		logger:           logger,
		rec:              rec,
	}
}

// surveyed is one proxy's fetched state before ranking.
type surveyed struct {
	sector   config.Sector
	position models.RangePosition
	ok       bool
}

// WeakestSectors ranks the full proxy universe and returns the n sectors
// with the lowest range position, each enriched with representative
// constituents and optional commentary.
func (s *SectorRanker) WeakestSectors(ctx context.Context, n int, withNarrative bool) (models.SectorRanking, error) {
	started := time.Now()
	if n <= 0 || n > len(s.sectors) {
		n = len(s.sectors)
	}

	results := make([]surveyed, len(s.sectors))
	var wg sync.WaitGroup
	for i, sector := range s.sectors {
		wg.Add(1)
		go func(i int, sector config.Sector) {
			defer wg.Done()
			pos, err := s.proxyPosition(ctx, sector.Proxy)
			if err != nil {
				s.logger.Warn("proxy dropped from survey",
					xlogger.String("sector", sector.Key),
					xlogger.String("proxy", sector.Proxy),
					xlogger.Error(err))
				results[i] = surveyed{sector: sector}
				return
			}
			s.rec.RecordRangePosition(sector.Key, pos.PositionPercent)
			results[i] = surveyed{sector: sector, position: pos, ok: true}
		}(i, sector)
	}
	wg.Wait()

	survivors := results[:0:0]
	for _, r := range results {
		if r.ok {
			survivors = append(survivors, r)
		}
	}
	if len(survivors) == 0 {
		return models.SectorRanking{}, fmt.Errorf("sector survey: %w", models.ErrInsufficientData)
	}

	sort.Slice(survivors, func(a, b int) bool {
		return survivors[a].position.PositionPercent < survivors[b].position.PositionPercent
	})
	if n > len(survivors) {
		n = len(survivors)
	}

	opportunities := make([]models.SectorOpportunity, n)
	wg = sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			weak := survivors[i]
			opportunities[i] = models.SectorOpportunity{
				SectorKey:    weak.sector.Key,
				ProxySymbol:  weak.sector.Proxy,
				Position:     weak.position,
				Constituents: s.enrichConstituents(ctx, weak.sector.Constituents),
			}
		}(i)
	}
	wg.Wait()

	if withNarrative {
		s.attachNarratives(ctx, opportunities)
	}

	ranking := models.SectorRanking{
		Opportunities: opportunities,
		Surveyed:      len(s.sectors),
		Survived:      len(survivors),
		Degraded:      len(survivors) < len(s.sectors),
		GeneratedAt:   time.Now().UTC(),
	}
	s.rec.RecordLatency("weakest_sectors", time.Since(started).Seconds())
	return ranking, nil
}

// proxyPosition fetches the quote and range metrics for one symbol
// concurrently and folds them into a range position.
func (s *SectorRanker) proxyPosition(ctx context.Context, symbol string) (models.RangePosition, error) {
	var (
		wg         sync.WaitGroup
		quote      models.Quote
		rng        models.RangeMetrics
		qErr, mErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		quote, qErr = s.quotes.FetchQuote(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		rng, mErr = s.metrics.FetchRangeMetrics(ctx, symbol)
	}()
	wg.Wait()

	if qErr != nil {
		return models.RangePosition{}, qErr
	}
	if mErr != nil {
		return models.RangePosition{}, mErr
	}
	return analytics.ComputeRangePosition(quote.Price, rng.FiftyTwoWeekHigh, rng.FiftyTwoWeekLow), nil
}

// enrichConstituents fetches the representative instruments concurrently. A
// failed constituent is simply omitted.
func (s *SectorRanker) enrichConstituents(ctx context.Context, symbols []string) []models.ConstituentSnapshot {
	snaps := make([]*models.ConstituentSnapshot, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			var (
				inner      sync.WaitGroup
				quote      models.Quote
				rng        models.RangeMetrics
				qErr, mErr error
			)
			inner.Add(2)
			go func() {
				defer inner.Done()
				quote, qErr = s.quotes.FetchQuote(ctx, symbol)
			}()
			go func() {
				defer inner.Done()
				rng, mErr = s.metrics.FetchRangeMetrics(ctx, symbol)
			}()
			inner.Wait()
			if qErr != nil || mErr != nil {
				s.logger.Warn("constituent omitted",
					xlogger.String("symbol", symbol))
				return
			}
			snaps[i] = &models.ConstituentSnapshot{
				Symbol:   symbol,
				Quote:    quote,
				Position: analytics.ComputeRangePosition(quote.Price, rng.FiftyTwoWeekHigh, rng.FiftyTwoWeekLow),
			}
		}(i, symbol)
	}
	wg.Wait()

	out := make([]models.ConstituentSnapshot, 0, len(symbols))
	for _, snap := range snaps {
		if snap != nil {
			out = append(out, *snap)
		}
	}
	return out
}

// attachNarratives asks the narrator for commentary on each opportunity
// under a bounded deadline. Any failure substitutes the fixed fallback.
func (s *SectorRanker) attachNarratives(ctx context.Context, opportunities []models.SectorOpportunity) {
	for i := range opportunities {
		opportunities[i].Narrative = s.narrate(ctx, &opportunities[i])
	}
}

func (s *SectorRanker) narrate(ctx context.Context, op *models.SectorOpportunity) string {
	if s.narrator == nil {
		return narrativeFallback
	}
	nctx, cancel := context.WithTimeout(ctx, s.narrativeTimeout)
	defer cancel()

	prompt := fmt.Sprintf("Sector %s (proxy %s) trades at %.1f%% of its 52-week range and %.1f%% off its high.",
		op.SectorKey, op.ProxySymbol, op.Position.PositionPercent, -op.Position.PercentFromHigh)
	text, err := s.narrator.Narrate(nctx, prompt)
	if err != nil || text == "" {
		s.logger.Warn("narrative fallback used",
			xlogger.String("sector", op.SectorKey),
			xlogger.Error(err))
		return narrativeFallback
	}
	return text
}
