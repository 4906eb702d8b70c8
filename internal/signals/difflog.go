package signals

import (
	"fmt"

	"equity-consensus-lab/internal/domain"
)

// Trend thresholds per diff horizon.
const (
	monthlyTrendThreshold = 0.05
	dailyTrendThreshold   = 0.02
)

// Baselines are the optional prior daily rows per horizon for the same
// (ticker, year-pair). Locating the closest available snapshot is the
// caller's concern; this package only subtracts.
type Baselines struct {
	D1 *domain.ConsensusMetricDaily // previous day
	W1 *domain.ConsensusMetricDaily // previous week
	M1 *domain.ConsensusMetricDaily // previous month
}

// Any reports whether at least one baseline is present.
func (b Baselines) Any() bool {
	return b.D1 != nil || b.W1 != nil || b.M1 != nil
}

// Build computes the persistable diff-log record for a current daily row.
// With zero baselines the record still carries tags and alerts derived from
// the current snapshot alone, with all diffs nil.
func Build(current *domain.ConsensusMetricDaily, baselines Baselines) *domain.ConsensusDiffLog {
	log := &domain.ConsensusDiffLog{
		SnapshotDate: current.SnapshotDate,
		Ticker:       current.Ticker,
		CompanyID:    current.CompanyID,
		TargetY1:     current.TargetY1,
		TargetY2:     current.TargetY2,

		D1: diffAgainst(current, baselines.D1),
		W1: diffAgainst(current, baselines.W1),
		M1: diffAgainst(current, baselines.M1),
	}

	tags := GenerateTags(current, &log.M1)
	log.SignalTags = tags
	log.TagCount = len(tags)

	log.FVBTrend = DetermineTrend(log.D1.FVBDiff, log.M1.FVBDiff)
	log.HGSTrend = DetermineTrend(log.D1.HGSDiff, log.M1.HGSDiff)
	log.RRSTrend = DetermineTrend(log.D1.RRSDiff, log.M1.RRSDiff)

	log.Alerts = GenerateAlertFlags(current)

	return log
}

// diffAgainst computes one horizon's deltas. A score diff is nil when either
// side is nil; the quadrant shift string is written only on an actual change.
func diffAgainst(current, baseline *domain.ConsensusMetricDaily) domain.HorizonDiff {
	if baseline == nil {
		return domain.HorizonDiff{}
	}

	diff := domain.HorizonDiff{
		FVBDiff: subFloat(current.FVBScore, baseline.FVBScore),
		HGSDiff: subFloat(current.HGSScore, baseline.HGSScore),
		RRSDiff: subFloat(current.RRSScore, baseline.RRSScore),
	}

	if current.QuadPosition != nil && baseline.QuadPosition != nil &&
		*current.QuadPosition != *baseline.QuadPosition {
		shift := fmt.Sprintf("%s->%s", *baseline.QuadPosition, *current.QuadPosition)
		diff.QuadShift = &shift
	}

	return diff
}

// DetermineTrend classifies a metric's movement. The monthly diff decides
// whenever it is present, even when below its own threshold; the daily diff
// is consulted only when the monthly diff is entirely absent. Returns nil
// when neither diff exists.
func DetermineTrend(daily, monthly *float64) *domain.TrendDirection {
	switch {
	case monthly != nil:
		return trendAt(*monthly, monthlyTrendThreshold)
	case daily != nil:
		return trendAt(*daily, dailyTrendThreshold)
	}
	return nil
}

// trendAt applies a symmetric threshold to one diff value.
func trendAt(diff, threshold float64) *domain.TrendDirection {
	direction := domain.TrendStable
	if diff > threshold {
		direction = domain.TrendImproving
	} else if diff < -threshold {
		direction = domain.TrendDeclining
	}
	return &direction
}

// subFloat subtracts two nullable scores; nil if either side is nil.
func subFloat(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := *a - *b
	return &d
}
