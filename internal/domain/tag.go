package domain

// SignalTag is a categorical label derived from a daily metric row and its
// historical diffs. Tags are an unordered set of independently true conditions;
// there is no priority or exclusion among them.
type SignalTag string

const (
	TagHealthyDerating  SignalTag = "HEALTHY_DERATING" // Q2 with strong positive FVB
	TagTurnaround       SignalTag = "TURNAROUND"
	TagHighGrowth       SignalTag = "HIGH_GROWTH"
	TagOverheat         SignalTag = "OVERHEAT"
	TagImprovingTrend   SignalTag = "IMPROVING_TREND"
	TagDecliningTrend   SignalTag = "DECLINING_TREND"
	TagQuadShift        SignalTag = "QUAD_SHIFT"
	TagDeficitImproving SignalTag = "DEFICIT_IMPROVING"
)

// AllSignalTags lists the closed tag set in canonical order.
// Used to render tag sets deterministically.
var AllSignalTags = []SignalTag{
	TagHealthyDerating,
	TagTurnaround,
	TagHighGrowth,
	TagOverheat,
	TagImprovingTrend,
	TagDecliningTrend,
	TagQuadShift,
	TagDeficitImproving,
}

// String returns the string representation of SignalTag.
func (t SignalTag) String() string {
	return string(t)
}
