// Package signals derives categorical signal tags, boolean alert flags and
// period-over-period diff logs from daily consensus metric rows. Like the
// engine core it is pure: no I/O, no clock, no shared state.
package signals

import (
	"strings"

	"equity-consensus-lab/internal/domain"
)

// Tag and alert thresholds. Product semantics, not configuration.
const (
	healthyDeratingMinFVB      = 0.2
	highGrowthMinEPSGrowthPct  = 50.0
	highGrowthMinHGS           = 30.0
	overheatMinRRS             = 30.0
	trendTagMinAbsFVBDiff      = 0.1
	deficitImprovingMinHGSDiff = 5.0
	healthyMinHGS              = 20.0
	healthyMaxRRS              = 10.0
)

// GenerateTags derives the signal tags for a daily metric row.
// diff is the monthly horizon context; pass nil when no baseline exists, in
// which case only snapshot-level tags can fire. Conditions are independent
// (no priority or exclusion); output follows the canonical tag order.
func GenerateTags(metric *domain.ConsensusMetricDaily, diff *domain.HorizonDiff) []domain.SignalTag {
	present := make(map[domain.SignalTag]bool, len(domain.AllSignalTags))

	if metric.QuadPosition != nil && *metric.QuadPosition == domain.QuadGrowthDerating &&
		metric.FVBScore != nil && *metric.FVBScore > healthyDeratingMinFVB {
		present[domain.TagHealthyDerating] = true
	}

	if metric.CalcStatus == domain.StatusTurnaround {
		present[domain.TagTurnaround] = true
	}

	if metric.EPSGrowthPct != nil && *metric.EPSGrowthPct > highGrowthMinEPSGrowthPct &&
		metric.HGSScore != nil && *metric.HGSScore > highGrowthMinHGS {
		present[domain.TagHighGrowth] = true
	}

	if metric.RRSScore != nil && *metric.RRSScore > overheatMinRRS {
		present[domain.TagOverheat] = true
	}

	if diff != nil {
		if diff.FVBDiff != nil && *diff.FVBDiff > trendTagMinAbsFVBDiff {
			present[domain.TagImprovingTrend] = true
		}
		if diff.FVBDiff != nil && *diff.FVBDiff < -trendTagMinAbsFVBDiff {
			present[domain.TagDecliningTrend] = true
		}
		if quadShiftChanged(diff.QuadShift) {
			present[domain.TagQuadShift] = true
		}
		if metric.CalcStatus == domain.StatusDeficit &&
			diff.HGSDiff != nil && *diff.HGSDiff > deficitImprovingMinHGSDiff {
			present[domain.TagDeficitImproving] = true
		}
	}

	var tags []domain.SignalTag
	for _, t := range domain.AllSignalTags {
		if present[t] {
			tags = append(tags, t)
		}
	}
	return tags
}

// quadShiftChanged reports whether a shift string denotes an actual quadrant
// change (from != to). The builder only writes the string on a change, so any
// well-formed value qualifies; the comparison keeps the check self-contained.
func quadShiftChanged(shift *string) bool {
	if shift == nil {
		return false
	}
	from, to, ok := strings.Cut(*shift, "->")
	return ok && from != to
}

// GenerateAlertFlags derives the five boolean alert flags for a daily row.
// Score-based flags stay false when the underlying score is absent.
func GenerateAlertFlags(metric *domain.ConsensusMetricDaily) domain.AlertFlags {
	flags := domain.AlertFlags{
		IsTurnaround: metric.CalcStatus == domain.StatusTurnaround,
	}

	if metric.RRSScore != nil {
		flags.IsOverheat = *metric.RRSScore > overheatMinRRS
	}
	if metric.QuadPosition != nil {
		flags.IsTargetZone = *metric.QuadPosition == domain.QuadGrowthDerating
	}
	if metric.HGSScore != nil {
		flags.IsHighGrowth = *metric.HGSScore > highGrowthMinHGS
		if metric.RRSScore != nil {
			flags.IsHealthy = *metric.HGSScore > healthyMinHGS && *metric.RRSScore < healthyMaxRRS
		}
	}

	return flags
}
