package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/signals"
	"equity-consensus-lab/internal/storage"
)

// BaselineLocator resolves historical comparison rows for diff computation.
// For each horizon it finds the most recent persisted row at or before the
// lagged date, so weekends and holidays fall back to the prior trading day.
type BaselineLocator struct {
	metrics storage.ConsensusMetricStore
}

func NewBaselineLocator(metrics storage.ConsensusMetricStore) *BaselineLocator {
	return &BaselineLocator{metrics: metrics}
}

// Locate returns the D1/W1/M1 baselines for a ticker and target-year pair
// relative to asOf. A horizon with no persisted history is left nil.
func (l *BaselineLocator) Locate(ctx context.Context, ticker string, targetY1, targetY2 int, asOf time.Time) (signals.Baselines, error) {
	var b signals.Baselines

	lags := []struct {
		cutoff time.Time
		dst    **domain.ConsensusMetricDaily
	}{
		{asOf.AddDate(0, 0, -1), &b.D1},
		{asOf.AddDate(0, 0, -7), &b.W1},
		{asOf.AddDate(0, -1, 0), &b.M1},
	}

	for _, lag := range lags {
		row, err := l.metrics.GetLatestOnOrBefore(ctx, ticker, targetY1, targetY2, lag.cutoff)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return signals.Baselines{}, fmt.Errorf("locate baseline for %s at %s: %w", ticker, lag.cutoff.Format("2006-01-02"), err)
		}
		*lag.dst = row
	}

	return b, nil
}
