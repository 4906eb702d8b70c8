package consensus

import (
	"time"

	"equity-consensus-lab/internal/domain"
)

// Assemble runs the full engine for one year pair: screen, then compute and
// classify when safe. The raw input is always copied into the result for
// audit regardless of status.
func Assemble(pair domain.YearPair) *domain.ConsensusResult {
	edge := Detect(pair)

	result := &domain.ConsensusResult{
		Status: edge.Status,
		Reason: edge.Reason,
		Input:  pair,
	}

	if !ShouldCalculate(edge.Status) {
		return result
	}

	metrics := Calculate(pair)
	quadrant := Classify(metrics.EPSGrowthPct, metrics.PERGrowthPct)
	result.Metrics = &metrics
	result.Quadrant = &quadrant
	return result
}

// AssembleBatch evaluates many tickers independently.
// No inter-ticker coupling: results depend only on each ticker's own pair.
func AssembleBatch(pairs map[string]domain.YearPair) map[string]*domain.ConsensusResult {
	results := make(map[string]*domain.ConsensusResult, len(pairs))
	for ticker, pair := range pairs {
		results[ticker] = Assemble(pair)
	}
	return results
}

// ToDaily converts an engine result into its persisted daily form for the
// given identity key. Metric and quadrant fields stay nil for non-NORMAL rows.
func ToDaily(snapshotDate time.Time, ticker, companyID string, r *domain.ConsensusResult) *domain.ConsensusMetricDaily {
	row := &domain.ConsensusMetricDaily{
		SnapshotDate: snapshotDate,
		Ticker:       ticker,
		CompanyID:    companyID,
		TargetY1:     r.Input.TargetY1,
		TargetY2:     r.Input.TargetY2,
		CalcStatus:   r.Status,
		EPSY1:        copyFloat(r.Input.EPSY1),
		EPSY2:        copyFloat(r.Input.EPSY2),
		PERY1:        copyFloat(r.Input.PERY1),
		PERY2:        copyFloat(r.Input.PERY2),
	}

	if r.Reason != "" {
		reason := r.Reason
		row.CalcReason = &reason
	}

	if r.Metrics != nil {
		m := *r.Metrics
		row.EPSGrowthPct = &m.EPSGrowthPct
		row.PERGrowthPct = &m.PERGrowthPct
		row.FVBScore = &m.FVBScore
		row.HGSScore = &m.HGSScore
		row.RRSScore = &m.RRSScore
	}

	if r.Quadrant != nil {
		q := *r.Quadrant
		row.QuadX = &q.QuadX
		row.QuadY = &q.QuadY
		row.QuadPosition = &q.Position
	}

	return row
}

// copyFloat clones a nullable float so the persisted row does not share
// pointers with the transient input.
func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
