package domain

import "time"

// Horizon identifies a historical baseline lag for diff computation.
type Horizon string

const (
	HorizonD1 Horizon = "D1" // previous day
	HorizonW1 Horizon = "W1" // previous week
	HorizonM1 Horizon = "M1" // previous month
)

// HorizonDiff holds score deltas against one historical baseline.
// A diff is nil when either side of the subtraction is nil.
// QuadShift is "{from}->{to}" and set only when the quadrant actually changed.
type HorizonDiff struct {
	FVBDiff   *float64
	HGSDiff   *float64
	RRSDiff   *float64
	QuadShift *string
}

// AlertFlags are the five boolean alerts derived from a daily metric row.
type AlertFlags struct {
	IsOverheat   bool // RRS > 30
	IsTargetZone bool // quadrant Q2
	IsTurnaround bool // status TURNAROUND
	IsHighGrowth bool // HGS > 30
	IsHealthy    bool // HGS > 20 and RRS < 10
}

// ConsensusDiffLog is the persisted period-over-period record for one daily row.
// Corresponds to consensus_diff_log table in PostgreSQL.
//
// Shares the natural key of ConsensusMetricDaily. Created or refreshed
// alongside the daily row; when no historical baseline exists the record still
// exists with all diffs nil and tags derived from the current snapshot alone.
type ConsensusDiffLog struct {
	SnapshotDate time.Time
	Ticker       string
	CompanyID    string
	TargetY1     int
	TargetY2     int

	D1 HorizonDiff
	W1 HorizonDiff
	M1 HorizonDiff

	SignalTags []SignalTag // canonical order, see AllSignalTags
	TagCount   int

	// Per-metric trend directions, nil when no diff was available.
	FVBTrend *TrendDirection
	HGSTrend *TrendDirection
	RRSTrend *TrendDirection

	Alerts AlertFlags

	CreatedAt time.Time
}

// HasTag reports whether the record carries the given signal tag.
func (l *ConsensusDiffLog) HasTag(tag SignalTag) bool {
	for _, t := range l.SignalTags {
		if t == tag {
			return true
		}
	}
	return false
}
