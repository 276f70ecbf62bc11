package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SectorPulse/internal/usecase"
	pkgcache "SectorPulse/pkg/cache"
	"SectorPulse/pkg/config"
	xhttp "SectorPulse/pkg/http"
	xlogger "SectorPulse/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server, optional warm
// cache refresher, graceful shutdown.
type App struct {
	cfg         *config.Config
	logger      *xlogger.Logger
	agg         *usecase.MarketAggregator
	httpHandler xhttp.Handler
	shared      pkgcache.Service
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, logger *xlogger.Logger, agg *usecase.MarketAggregator, handler xhttp.Handler) *App {
	return &App{cfg: cfg, logger: logger, agg: agg, httpHandler: handler}
}

// SetSharedCache passes ownership of the shared cache so shutdown closes it.
func (a *App) SetSharedCache(c pkgcache.Service) { a.shared = c }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.cfg.Ranking.WarmEnabled {
		go a.warmRanking(ctx)
		a.logger.Info("warm refresher started",
			xlogger.Duration("interval", a.cfg.Ranking.WarmInterval))
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", xlogger.Error(err))
		return err
	}
	a.logger.Info("server started", xlogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// warmRanking re-primes the sector ranking before the cache expires so the
// first request after expiry is not the one paying the fan-out.
func (a *App) warmRanking(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Ranking.WarmInterval)
	defer ticker.Stop()

	prime := func() {
		if _, err := a.agg.WeakestSectors(ctx, a.cfg.Ranking.TopN, true); err != nil {
			a.logger.Warn("warm ranking refresh failed", xlogger.Error(err))
		}
	}
	prime()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prime()
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", xlogger.Error(err))
		return err
	}
	if a.shared != nil {
		if err := a.shared.Close(); err != nil {
			a.logger.Warn("shared cache close error", xlogger.Error(err))
		}
	}
	a.logger.Info("shutdown complete")
	return nil
}
