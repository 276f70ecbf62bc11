package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	svccache "SectorPulse/internal/service/cache"
	pkgcache "SectorPulse/pkg/cache"
	xlogger "SectorPulse/pkg/logger"
)

// TTLs carries the per-endpoint cache lifetimes. Degraded is the shortened
// lifetime applied to results assembled from partial upstream data.
type TTLs struct {
	Snapshot  time.Duration
	Ranking   time.Duration
	Yield     time.Duration
	News      time.Duration
	Sentiment time.Duration
	Degraded  time.Duration
}

// MarketAggregator is the facade the HTTP layer talks to. Every operation is
// memoized through the TTL cache; a cache hit performs no upstream I/O.
type MarketAggregator struct {
	cache     *svccache.TTLCache
	quotes    domrepo.QuoteProvider
	days      *TradingDayResolver
	ranker    *SectorRanker
	yields    *YieldCurve
	news      domrepo.NewsProvider
	sentiment domrepo.SentimentProvider

	ttls   TTLs
	logger *xlogger.Logger
	rec    domrepo.Metrics
}

func NewMarketAggregator(
	cache *svccache.TTLCache,
	quotes domrepo.QuoteProvider,
	days *TradingDayResolver,
	ranker *SectorRanker,
	yields *YieldCurve,
	news domrepo.NewsProvider,
	sentiment domrepo.SentimentProvider,
	ttls TTLs,
	logger *xlogger.Logger,
	rec domrepo.Metrics,
) *MarketAggregator {
	return &MarketAggregator{
		cache:     cache,
		quotes:    quotes,
		days:      days,
		ranker:    ranker,
		yields:    yields,
		news:      news,
		sentiment: sentiment,
		ttls:      ttls,
		logger:    logger,
		rec:       rec,
	}
}

// Snapshot fetches a batch of instruments. Instruments succeed and fail
// independently: each result carries either data or the structured error
// message for that instrument, and one failure never aborts the batch.
func (a *MarketAggregator) Snapshot(ctx context.Context, symbols []string, date string) (models.MarketSnapshot, error) {
	key := pkgcache.GenerateKeyWithParams("snapshot", strings.Join(symbols, ","), date)
	snap, hit, err := svccache.GetOrCompute(ctx, a.cache, key,
		a.ttls.Snapshot, a.ttls.Degraded,
		func(s models.MarketSnapshot) bool { return s.Degraded },
		func(ctx context.Context) (models.MarketSnapshot, error) {
			return a.assembleSnapshot(ctx, symbols, date), nil
		})
	a.recordCache("snapshot", hit)
	return snap, err
}

func (a *MarketAggregator) assembleSnapshot(ctx context.Context, symbols []string, date string) models.MarketSnapshot {
	started := time.Now()
	results := make([]models.InstrumentResult, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			results[i] = a.fetchInstrument(ctx, symbol, date)
		}(i, symbol)
	}
	wg.Wait()

	snap := models.MarketSnapshot{Results: results, AsOf: time.Now().UTC()}
	for i := range results {
		if results[i].Failed() {
			snap.Degraded = true
			break
		}
	}
	a.rec.RecordLatency("snapshot", time.Since(started).Seconds())
	return snap
}

func (a *MarketAggregator) fetchInstrument(ctx context.Context, symbol, date string) models.InstrumentResult {
	market, code := domrepo.ClassifyMarket(symbol)
	res := models.InstrumentResult{Ticker: symbol, Market: string(market)}

	if !market.IsExchangeMarket() {
		quote, err := a.quotes.FetchQuote(ctx, code)
		if err != nil {
			res.Error = err.Error()
			a.logger.Warn("instrument fetch failed",
				xlogger.String("symbol", symbol),
				xlogger.Error(err))
			return res
		}
		res.Price = quote.Price
		res.ChangePercent = quote.ChangePercent
		res.Open = quote.DayOpen
		res.High = quote.DayHigh
		res.Low = quote.DayLow
		res.Source = "quote"
		return res
	}

	resolved, err := a.days.Resolve(ctx, market, code, date)
	if err != nil {
		res.Error = err.Error()
		a.logger.Warn("instrument fetch failed",
			xlogger.String("symbol", symbol),
			xlogger.String("date", date),
			xlogger.Error(err))
		return res
	}
	rec := resolved.Record
	res.Date = resolved.Date
	res.Name = rec.Name
	res.Price = rec.Close
	res.ChangePercent = rec.ChangePercent
	res.Open = rec.Open
	res.High = rec.High
	res.Low = rec.Low
	res.Volume = rec.Volume
	res.MarketCap = rec.MarketCap
	res.Match = resolved.Match
	res.Source = string(resolved.Source)
	return res
}

// WeakestSectors returns the cached sector ranking, recomputing it whole on
// a miss. A degraded ranking (some proxies dropped) lives for the shortened
// TTL so the next caller retries sooner.
func (a *MarketAggregator) WeakestSectors(ctx context.Context, n int, withNarrative bool) (models.SectorRanking, error) {
	key := pkgcache.GenerateKeyWithParams("ranking", n, withNarrative)
	ranking, hit, err := svccache.GetOrCompute(ctx, a.cache, key,
		a.ttls.Ranking, a.ttls.Degraded,
		func(r models.SectorRanking) bool { return r.Degraded },
		func(ctx context.Context) (models.SectorRanking, error) {
			return a.ranker.WeakestSectors(ctx, n, withNarrative)
		})
	a.recordCache("ranking", hit)
	return ranking, err
}

// YieldCurve returns the cached treasury snapshot; partial snapshots get the
// shortened TTL.
func (a *MarketAggregator) YieldCurve(ctx context.Context) (models.YieldSnapshot, error) {
	snap, hit, err := svccache.GetOrCompute(ctx, a.cache, "yields",
		a.ttls.Yield, a.ttls.Degraded,
		func(s models.YieldSnapshot) bool { return s.Partial },
		func(ctx context.Context) (models.YieldSnapshot, error) {
			return a.yields.Snapshot(ctx)
		})
	a.recordCache("yields", hit)
	return snap, err
}

// News returns cached market headlines.
func (a *MarketAggregator) News(ctx context.Context, limit int) ([]models.NewsItem, error) {
	key := pkgcache.GenerateKeyWithParams("news", limit)
	items, hit, err := svccache.GetOrCompute(ctx, a.cache, key,
		a.ttls.News, a.ttls.Degraded, nil,
		func(ctx context.Context) ([]models.NewsItem, error) {
			return a.news.FetchNews(ctx, limit)
		})
	a.recordCache("news", hit)
	return items, err
}

// Sentiment returns the cached fear/greed reading.
func (a *MarketAggregator) Sentiment(ctx context.Context) (models.SentimentIndex, error) {
	idx, hit, err := svccache.GetOrCompute(ctx, a.cache, "sentiment",
		a.ttls.Sentiment, a.ttls.Degraded, nil,
		func(ctx context.Context) (models.SentimentIndex, error) {
			return a.sentiment.FetchSentiment(ctx)
		})
	a.recordCache("sentiment", hit)
	return idx, err
}

func (a *MarketAggregator) recordCache(key string, hit bool) {
	if hit {
		a.rec.RecordCacheEvent(key, "hit")
		return
	}
	a.rec.RecordCacheEvent(key, "miss")
}
