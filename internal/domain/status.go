package domain

// CalcStatus classifies a YearPair evaluation before any arithmetic is attempted.
// Exactly one status holds per evaluation.
type CalcStatus string

const (
	// StatusNormal means the pair is safe to compute metrics for.
	StatusNormal CalcStatus = "NORMAL"
	// StatusTurnaround marks a deficit-to-profit transition (EPS Y1 <= 0 < EPS Y2).
	// Ratio metrics against a non-positive base are not meaningful, so they are withheld.
	StatusTurnaround CalcStatus = "TURNAROUND"
	// StatusDeficit marks negative EPS in either target year (excluding turnaround).
	StatusDeficit CalcStatus = "DEFICIT"
	// StatusError marks malformed or degenerate input. Not a thrown error:
	// the engine reports and skips computation.
	StatusError CalcStatus = "ERROR"
)

// String returns the string representation of CalcStatus.
func (s CalcStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid value.
func (s CalcStatus) IsValid() bool {
	switch s {
	case StatusNormal, StatusTurnaround, StatusDeficit, StatusError:
		return true
	}
	return false
}

// EdgeCaseResult is the outcome of screening a YearPair.
// Reason is populated for every non-NORMAL status and empty for NORMAL.
type EdgeCaseResult struct {
	Status CalcStatus
	Reason string
}
