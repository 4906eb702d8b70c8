package consensus

import (
	"math"

	"equity-consensus-lab/internal/domain"
)

// Calculate derives growth rates and the three core scores for a pair already
// screened as NORMAL. It does not re-validate: degenerate input produces
// NaN/garbage, so callers must gate on ShouldCalculate. Internal to the
// engine; external callers go through Assemble.
//
// Rounding: growth percentages and HGS/RRS to 2 decimals, FVB to 4.
func Calculate(pair domain.YearPair) domain.CalculatedMetrics {
	epsRatio := *pair.EPSY2 / *pair.EPSY1
	perRatio := *pair.PERY2 / *pair.PERY1

	epsGrowthPct := round2((epsRatio - 1) * 100)
	perGrowthPct := round2((perRatio - 1) * 100)

	return domain.CalculatedMetrics{
		EPSGrowthPct: epsGrowthPct,
		PERGrowthPct: perGrowthPct,

		// Log-ratio balance: positive means earnings grew faster than the
		// multiple expanded, i.e. valuation is not keeping pace (cheapening).
		FVBScore: round4(math.Log(epsRatio) - math.Log(perRatio)),

		// Earnings growth net of any re-rating tailwind.
		HGSScore: round2(epsGrowthPct - math.Max(perGrowthPct, 0)),

		// Multiple expansion net of earnings growth; flags speculative re-rating.
		RRSScore: round2(perGrowthPct - math.Max(epsGrowthPct, 0)),
	}
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round4 rounds to 4 decimal places.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
