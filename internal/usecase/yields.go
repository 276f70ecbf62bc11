package usecase

import (
	"context"
	"fmt"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	xlogger "SectorPulse/pkg/logger"
)

// YieldCurve assembles the treasury view across the configured maturity
// tenors. Tenors are fetched sequentially because the provider paces its own
// calls; fanning out would only queue behind the pacer anyway.
type YieldCurve struct {
	provider domrepo.YieldProvider
	tenors   []string
	logger   *xlogger.Logger
}

func NewYieldCurve(provider domrepo.YieldProvider, tenors []string, logger *xlogger.Logger) *YieldCurve {
	if len(tenors) == 0 {
		tenors = []string{"3month", "2year", "10year"}
	}
	return &YieldCurve{provider: provider, tenors: tenors, logger: logger}
}

// Snapshot fetches every tenor and keeps whatever succeeded. A failed tenor
// marks the snapshot partial; only a fully empty snapshot is an error.
func (y *YieldCurve) Snapshot(ctx context.Context) (models.YieldSnapshot, error) {
	snap := models.YieldSnapshot{Tenors: make([]models.YieldTenor, 0, len(y.tenors))}

	for _, tenor := range y.tenors {
		series, err := y.provider.FetchYieldSeries(ctx, tenor)
		if err != nil {
			y.logger.Warn("tenor skipped",
				xlogger.String("tenor", tenor),
				xlogger.Error(err))
			snap.Partial = true
			continue
		}
		if len(series) == 0 {
			snap.Partial = true
			continue
		}

		// series arrives newest first
		t := models.YieldTenor{
			Tenor:  tenor,
			Latest: series[0].Value,
			AsOf:   series[0].Date,
		}
		if len(series) > 1 {
			t.Change = series[0].Value - series[1].Value
		}
		snap.Tenors = append(snap.Tenors, t)
	}

	if len(snap.Tenors) == 0 {
		return models.YieldSnapshot{}, fmt.Errorf("yield curve: %w", models.ErrInsufficientData)
	}
	return snap, nil
}
