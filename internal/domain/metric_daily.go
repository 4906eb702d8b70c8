package domain

import "time"

// ConsensusMetricDaily is the persisted form of a ConsensusResult.
// Corresponds to consensus_metric_daily table in PostgreSQL.
//
// Natural/unique key: (snapshot_date, ticker, company_id, target_y1, target_y2).
// Rows are created once per ticker per day per year-pair by a batch run and are
// never mutated in place; a new day re-upserts with a later snapshot date.
// Consumers must treat metric/quadrant fields as authoritative only when
// CalcStatus is NORMAL.
type ConsensusMetricDaily struct {
	SnapshotDate time.Time // as-of date, truncated to UTC midnight
	Ticker       string
	CompanyID    string
	TargetY1     int
	TargetY2     int

	CalcStatus CalcStatus
	CalcReason *string // nullable, set for every non-NORMAL status

	// Raw input snapshot for audit, nullable (matches YearPair).
	EPSY1 *float64
	EPSY2 *float64
	PERY1 *float64
	PERY2 *float64

	// Derived metrics, nullable, populated only when CalcStatus is NORMAL.
	EPSGrowthPct *float64
	PERGrowthPct *float64
	FVBScore     *float64
	HGSScore     *float64
	RRSScore     *float64

	// Quadrant coordinates, nullable, populated only when CalcStatus is NORMAL.
	QuadX        *float64
	QuadY        *float64
	QuadPosition *QuadPosition

	CreatedAt time.Time
}

// MetricKey is the natural key tuple, used for logging and map grouping.
type MetricKey struct {
	SnapshotDate time.Time
	Ticker       string
	CompanyID    string
	TargetY1     int
	TargetY2     int
}

// Key returns the natural key of the row.
func (m *ConsensusMetricDaily) Key() MetricKey {
	return MetricKey{
		SnapshotDate: m.SnapshotDate,
		Ticker:       m.Ticker,
		CompanyID:    m.CompanyID,
		TargetY1:     m.TargetY1,
		TargetY2:     m.TargetY2,
	}
}
