package consensus

import "equity-consensus-lab/internal/domain"

// Classify maps EPS growth and PER change signs to one of the four quadrants.
// Boundary convention: zero counts as the growth/re-rating side.
func Classify(epsGrowthPct, perGrowthPct float64) domain.QuadrantCoords {
	var position domain.QuadPosition
	switch {
	case epsGrowthPct >= 0 && perGrowthPct >= 0:
		position = domain.QuadGrowthRerating
	case epsGrowthPct >= 0:
		position = domain.QuadGrowthDerating
	case perGrowthPct >= 0:
		position = domain.QuadDeclineRerating
	default:
		position = domain.QuadDeclineDerating
	}

	return domain.QuadrantCoords{
		QuadX:    round2(epsGrowthPct),
		QuadY:    round2(perGrowthPct),
		Position: position,
	}
}
