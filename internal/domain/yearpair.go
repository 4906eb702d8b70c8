package domain

// YearPair holds the EPS/PER consensus values for two target fiscal years.
// Transient input to the consensus engine; constructed fresh per calculation
// and never mutated. Missing values are nil (upstream source had no estimate).
type YearPair struct {
	TargetY1 int // first target fiscal year (e.g. 2026)
	TargetY2 int // second target fiscal year (e.g. 2027)

	EPSY1 *float64 // consensus EPS for TargetY1, nullable
	EPSY2 *float64 // consensus EPS for TargetY2, nullable
	PERY1 *float64 // consensus PER for TargetY1, nullable
	PERY2 *float64 // consensus PER for TargetY2, nullable
}

// Complete reports whether all four consensus values are present.
func (p YearPair) Complete() bool {
	return p.EPSY1 != nil && p.EPSY2 != nil && p.PERY1 != nil && p.PERY2 != nil
}
