//go:build wireinject
// +build wireinject

package di

import (
	"SectorPulse/pkg/config"
	"SectorPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideTTLCache,
		ProvideLimiter,
		ProvidePacer,

		// Provider clients
		ProvideInstrumentResolver,
		ProvideFinnhubClient,
		ProvideQuoteProvider,
		ProvideMetricProvider,
		ProvideYieldProvider,
		ProvideNewsProvider,
		ProvideSentimentProvider,
		ProvideNarrator,

		// Use cases
		ProvideTradingDayResolver,
		ProvideSectorRanker,
		ProvideYieldCurve,
		ProvideAggregator,

		// HTTP surface
		ProvideSharedCache,
		ProvideHandler,

		ProvideApp,
	)
	return &server.App{}, nil
}
