package reporting

import (
	"time"

	"equity-consensus-lab/internal/domain"
)

// Report is the daily dashboard snapshot rendered to Markdown and CSV.
type Report struct {
	// Metadata
	GeneratedAt  time.Time
	SnapshotDate time.Time

	// Universe summary
	Summary Summary

	// Per-quadrant counts, in Q1..Q4 order
	QuadrantBreakdown []QuadrantRow

	// Ranked rows, priority DESC then ticker ASC
	Ranking []RankingRow

	// Signal tag totals in canonical tag order
	TagCounts []TagCountRow

	// Alert flag totals
	Alerts AlertSummary
}

// Summary describes the processed universe and batch-level score averages.
type Summary struct {
	TotalRows       int
	NormalCount     int
	TurnaroundCount int
	DeficitCount    int
	ErrorCount      int

	AvgEPSGrowthPct float64
	AvgPERGrowthPct float64
	AvgFVBScore     float64
	AvgHGSScore     float64
	AvgRRSScore     float64
}

// QuadrantRow is one quadrant's share of the NORMAL universe.
type QuadrantRow struct {
	Position domain.QuadPosition
	Count    int
}

// RankingRow is one ticker's line in the priority table.
// Score fields are nil for non-NORMAL rows.
type RankingRow struct {
	Ticker     string
	Status     domain.CalcStatus
	Quadrant   *domain.QuadPosition
	EPSGrowth  *float64
	PERGrowth  *float64
	FVBScore   *float64
	HGSScore   *float64
	RRSScore   *float64
	SignalTags []domain.SignalTag
	Priority   int
}

// TagCountRow is the batch-wide total for one signal tag.
type TagCountRow struct {
	Tag   domain.SignalTag
	Count int
}

// AlertSummary totals each alert flag across the batch.
type AlertSummary struct {
	Overheat   int
	TargetZone int
	Turnaround int
	HighGrowth int
	Healthy    int
}
