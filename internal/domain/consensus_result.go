package domain

// CalculatedMetrics holds the derived growth rates and core scores for a
// YearPair screened as NORMAL. Growth percentages and HGS/RRS are rounded to
// 2 decimals, FVB to 4.
type CalculatedMetrics struct {
	EPSGrowthPct float64
	PERGrowthPct float64
	FVBScore     float64
	HGSScore     float64
	RRSScore     float64
}

// ConsensusResult is the transient outcome of running the consensus engine on
// one YearPair. Metrics and Quadrant are nil for non-NORMAL statuses; Input is
// always the raw pair, kept for audit.
type ConsensusResult struct {
	Status   CalcStatus
	Reason   string
	Input    YearPair
	Metrics  *CalculatedMetrics
	Quadrant *QuadrantCoords
}
