package di

import (
	"errors"
	"fmt"

	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/handler/api"
	"SectorPulse/internal/service/finnhub"
	"SectorPulse/internal/service/krx"
	"SectorPulse/internal/service/narrative"
	"SectorPulse/internal/service/news"
	"SectorPulse/internal/service/ratelimit"
	"SectorPulse/internal/service/sentiment"
	"SectorPulse/internal/service/treasury"
	"SectorPulse/internal/usecase"
	pkgcache "SectorPulse/pkg/cache"
	"SectorPulse/pkg/config"
	xhttp "SectorPulse/pkg/http"
	"SectorPulse/pkg/metrics"
	"SectorPulse/pkg/server"

	"SectorPulse/internal/domain/models"
	svccache "SectorPulse/internal/service/cache"
	xlogger "SectorPulse/pkg/logger"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	l, err := xlogger.New(&xlogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideTTLCache creates the in-process memoization cache.
func ProvideTTLCache() *svccache.TTLCache {
	return svccache.NewTTLCache()
}

// ProvideLimiter creates the shared token-bucket limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvidePacer creates the shared call pacer.
func ProvidePacer() *ratelimit.Pacer {
	return ratelimit.NewPacer()
}

// ProvideInstrumentResolver builds the dual-source resolver over the exchange
// client.
func ProvideInstrumentResolver(cfg *config.Config, l *xlogger.Logger, rec domrepo.Metrics) (*usecase.InstrumentResolver, error) {
	client, err := krx.NewClient(cfg.KRX.AuthKey, cfg.KRX.BaseURL, l, rec)
	if err != nil {
		return nil, err
	}
	return usecase.NewInstrumentResolver(client.FundSource(), client.EquitySource(), cfg.FundFirst()), nil
}

// ProvideTradingDayResolver builds the backward-walk resolver.
func ProvideTradingDayResolver(cfg *config.Config, resolver *usecase.InstrumentResolver, l *xlogger.Logger) *usecase.TradingDayResolver {
	return usecase.NewTradingDayResolver(resolver, cfg.KRX.LookbackDays, l)
}

// ProvideFinnhubClient creates the quote/metric client.
func ProvideFinnhubClient(cfg *config.Config, limiter *ratelimit.Limiter, l *xlogger.Logger, rec domrepo.Metrics) (*finnhub.Client, error) {
	return finnhub.NewClient(cfg.Finnhub.APIKey, cfg.Finnhub.BaseURL, cfg.Finnhub.CallsPerMin, limiter, l, rec)
}

// ProvideQuoteProvider exposes the Finnhub client as a quote source.
func ProvideQuoteProvider(c *finnhub.Client) domrepo.QuoteProvider { return c }

// ProvideMetricProvider exposes the Finnhub client as a range-metric source.
func ProvideMetricProvider(c *finnhub.Client) domrepo.MetricProvider { return c }

// ProvideYieldProvider creates the treasury client.
func ProvideYieldProvider(cfg *config.Config, pacer *ratelimit.Pacer, l *xlogger.Logger, rec domrepo.Metrics) (domrepo.YieldProvider, error) {
	return treasury.NewClient(cfg.Treasury.APIKey, cfg.Treasury.BaseURL, cfg.Treasury.MinInterval, pacer, l, rec)
}

// ProvideNewsProvider creates the news client.
func ProvideNewsProvider(cfg *config.Config, l *xlogger.Logger, rec domrepo.Metrics) (domrepo.NewsProvider, error) {
	return news.NewClient(cfg.News.APIKey, cfg.News.BaseURL, cfg.News.Category, l, rec)
}

// ProvideSentimentProvider creates the sentiment client.
func ProvideSentimentProvider(cfg *config.Config, l *xlogger.Logger, rec domrepo.Metrics) (domrepo.SentimentProvider, error) {
	return sentiment.NewClient(cfg.Sentiment.APIKey, cfg.Sentiment.BaseURL, l, rec)
}

// ProvideNarrator creates the commentary generator. A missing credential
// disables narration rather than failing startup; the ranker substitutes its
// fallback text.
func ProvideNarrator(cfg *config.Config, l *xlogger.Logger, rec domrepo.Metrics) (domrepo.Narrator, error) {
	c, err := narrative.NewClient(cfg.Narrative.APIKey, "", cfg.Narrative.Model, cfg.Narrative.Timeout, l, rec)
	if err != nil {
		var cfgErr *models.ConfigError
		if errors.As(err, &cfgErr) {
			l.Warn("narrative disabled", xlogger.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ProvideSectorRanker builds the ranker over the configured universe,
// trimming each sector to the configured number of representatives.
func ProvideSectorRanker(cfg *config.Config, quotes domrepo.QuoteProvider, metricProv domrepo.MetricProvider,
	narrator domrepo.Narrator, l *xlogger.Logger, rec domrepo.Metrics) *usecase.SectorRanker {
	sectors := make([]config.Sector, len(cfg.Ranking.Sectors))
	copy(sectors, cfg.Ranking.Sectors)
	for i := range sectors {
		if len(sectors[i].Constituents) > cfg.Ranking.PerSector {
			sectors[i].Constituents = sectors[i].Constituents[:cfg.Ranking.PerSector]
		}
	}
	return usecase.NewSectorRanker(quotes, metricProv, narrator, sectors, cfg.Narrative.Timeout, l, rec)
}

// ProvideYieldCurve builds the yield-curve use case.
func ProvideYieldCurve(cfg *config.Config, provider domrepo.YieldProvider, l *xlogger.Logger) *usecase.YieldCurve {
	return usecase.NewYieldCurve(provider, cfg.Treasury.Tenors, l)
}

// ProvideAggregator builds the facade.
func ProvideAggregator(
	cfg *config.Config,
	cache *svccache.TTLCache,
	quotes domrepo.QuoteProvider,
	days *usecase.TradingDayResolver,
	ranker *usecase.SectorRanker,
	yields *usecase.YieldCurve,
	newsProv domrepo.NewsProvider,
	sentimentProv domrepo.SentimentProvider,
	l *xlogger.Logger,
	rec domrepo.Metrics,
) *usecase.MarketAggregator {
	ttls := usecase.TTLs{
		Snapshot:  cfg.Cache.SnapshotTTL,
		Ranking:   cfg.Cache.RankingTTL,
		Yield:     cfg.Cache.YieldTTL,
		News:      cfg.Cache.NewsTTL,
		Sentiment: cfg.Cache.NewsTTL,
		Degraded:  cfg.Cache.DegradedTTL,
	}
	return usecase.NewMarketAggregator(cache, quotes, days, ranker, yields, newsProv, sentimentProv, ttls, l, rec)
}

// ProvideSharedCache creates the optional cross-process response cache. With
// Redis disabled there is no shared cache; the in-process TTL cache suffices.
func ProvideSharedCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
		pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPrefix("sectorpulse"),
	)
	if err != nil {
		return nil, err
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideHandler builds the Echo handler.
func ProvideHandler(cfg *config.Config, l *xlogger.Logger, agg *usecase.MarketAggregator, shared pkgcache.Service) xhttp.Handler {
	h := api.NewMarketEchoHandler(l, agg)
	if shared != nil {
		h.SetSharedCache(shared, cfg.Cache.RankingTTL)
	}
	return h
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, l *xlogger.Logger, agg *usecase.MarketAggregator, handler xhttp.Handler, shared pkgcache.Service) *server.App {
	app := server.New(cfg, l, agg, handler)
	if shared != nil {
		app.SetSharedCache(shared)
	}
	return app
}
