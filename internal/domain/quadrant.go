package domain

// QuadPosition names one of the four (EPS growth sign, PER change sign) quadrants.
// Zero growth counts as the growth/re-rating side.
type QuadPosition string

const (
	// QuadGrowthRerating: growing, multiple expanding. May be overheating.
	QuadGrowthRerating QuadPosition = "Q1_GROWTH_RERATING"
	// QuadGrowthDerating: growing, multiple compressing. Target/buy zone.
	QuadGrowthDerating QuadPosition = "Q2_GROWTH_DERATING"
	// QuadDeclineRerating: shrinking but multiple expanding. Speculative/thematic.
	QuadDeclineRerating QuadPosition = "Q3_DECLINE_RERATING"
	// QuadDeclineDerating: shrinking and de-rating. Distress.
	QuadDeclineDerating QuadPosition = "Q4_DECLINE_DERATING"
)

// String returns the string representation of QuadPosition.
func (q QuadPosition) String() string {
	return string(q)
}

// IsValid checks if the position is a valid value.
func (q QuadPosition) IsValid() bool {
	switch q {
	case QuadGrowthRerating, QuadGrowthDerating, QuadDeclineRerating, QuadDeclineDerating:
		return true
	}
	return false
}

// QuadrantCoords is a quadrant assignment with chartable coordinates.
// QuadX/QuadY are the EPS/PER growth percentages rounded to 2 decimals.
type QuadrantCoords struct {
	QuadX    float64
	QuadY    float64
	Position QuadPosition
}
