// Package consensus implements the consensus metrics engine: input screening,
// derived-score calculation, quadrant classification and result assembly.
// Every function is pure, deterministic and side-effect free; evaluating many
// tickers is safe to parallelize with zero coordination.
package consensus

import (
	"fmt"
	"math"
	"strings"

	"equity-consensus-lab/internal/domain"
)

// Screening thresholds. These are product semantics, not configuration.
const (
	// maxValidPER caps plausible multiples; anything above is treated as bad data.
	maxValidPER = 1000.0
	// minAbsEPS guards ratio math against near-zero denominators.
	minAbsEPS = 10.0
	// maxAbsGrowthPct marks implausible period growth, likely a scrape error.
	maxAbsGrowthPct = 1000.0
)

// Detect screens a year pair and classifies it into a calculation status
// before any arithmetic is attempted. Total: it never fails, it reports.
// Rules are evaluated in fixed priority order; the first match wins.
func Detect(pair domain.YearPair) domain.EdgeCaseResult {
	if missing := missingFields(pair); len(missing) > 0 {
		return domain.EdgeCaseResult{
			Status: domain.StatusError,
			Reason: "missing " + strings.Join(missing, ", "),
		}
	}

	eps1, eps2 := *pair.EPSY1, *pair.EPSY2
	per1, per2 := *pair.PERY1, *pair.PERY2

	if per1 <= 0 || per2 <= 0 {
		return domain.EdgeCaseResult{
			Status: domain.StatusError,
			Reason: fmt.Sprintf("invalid PER: per_y1=%.2f per_y2=%.2f", per1, per2),
		}
	}

	if per1 > maxValidPER || per2 > maxValidPER {
		return domain.EdgeCaseResult{
			Status: domain.StatusError,
			Reason: fmt.Sprintf("extreme PER: per_y1=%.2f per_y2=%.2f", per1, per2),
		}
	}

	// Deficit-to-profit transition: a ratio against a non-positive base is
	// not meaningful, so metrics are intentionally withheld.
	if eps1 <= 0 && eps2 > 0 {
		return domain.EdgeCaseResult{
			Status: domain.StatusTurnaround,
			Reason: fmt.Sprintf("deficit-to-profit transition: eps_y1=%.2f eps_y2=%.2f", eps1, eps2),
		}
	}

	if eps1 <= 0 || eps2 <= 0 {
		return domain.EdgeCaseResult{
			Status: domain.StatusDeficit,
			Reason: fmt.Sprintf("non-positive EPS in target year: eps_y1=%.2f eps_y2=%.2f", eps1, eps2),
		}
	}

	if math.Abs(eps1) < minAbsEPS || math.Abs(eps2) < minAbsEPS {
		return domain.EdgeCaseResult{
			Status: domain.StatusError,
			Reason: fmt.Sprintf("EPS too small for stable ratio math: eps_y1=%.2f eps_y2=%.2f", eps1, eps2),
		}
	}

	growthPct := ((eps2 - eps1) / eps1) * 100
	if math.Abs(growthPct) > maxAbsGrowthPct {
		return domain.EdgeCaseResult{
			Status: domain.StatusError,
			Reason: fmt.Sprintf("unrealistic growth %.2f%%, likely bad data", growthPct),
		}
	}

	return domain.EdgeCaseResult{Status: domain.StatusNormal}
}

// ShouldCalculate gates metric computation: only NORMAL pairs are safe to compute.
func ShouldCalculate(status domain.CalcStatus) bool {
	return status == domain.StatusNormal
}

// missingFields names absent consensus fields for the diagnostic reason.
func missingFields(pair domain.YearPair) []string {
	var missing []string
	if pair.EPSY1 == nil {
		missing = append(missing, "eps_y1")
	}
	if pair.EPSY2 == nil {
		missing = append(missing, "eps_y2")
	}
	if pair.PERY1 == nil {
		missing = append(missing, "per_y1")
	}
	if pair.PERY2 == nil {
		missing = append(missing, "per_y2")
	}
	return missing
}
