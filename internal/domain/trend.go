package domain

// TrendDirection classifies the movement of a metric across diff horizons.
// Absent (nil) means no diff was available to judge from.
type TrendDirection string

const (
	TrendImproving TrendDirection = "IMPROVING"
	TrendDeclining TrendDirection = "DECLINING"
	TrendStable    TrendDirection = "STABLE"
)

// String returns the string representation of TrendDirection.
func (d TrendDirection) String() string {
	return string(d)
}

// IsValid checks if the direction is a valid value.
func (d TrendDirection) IsValid() bool {
	switch d {
	case TrendImproving, TrendDeclining, TrendStable:
		return true
	}
	return false
}
