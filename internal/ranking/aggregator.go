// Package ranking folds many daily consensus rows into batch statistics and
// a display ordering: quadrant filters, metric sorts with missing values
// last, and a heuristic priority score for UI ranking.
package ranking

import (
	"sort"

	"equity-consensus-lab/internal/domain"
)

// Metric names a sortable score column.
type Metric string

const (
	MetricEPSGrowth Metric = "eps_growth_pct"
	MetricPERGrowth Metric = "per_growth_pct"
	MetricFVB       Metric = "fvb_score"
	MetricHGS       Metric = "hgs_score"
	MetricRRS       Metric = "rrs_score"
)

// Direction is the sort order for SortByMetric.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// Statistics summarizes one batch of daily rows.
// Score averages cover NORMAL rows only; non-NORMAL rows have no scores.
type Statistics struct {
	Total       int
	NormalCount int

	ByStatus   map[domain.CalcStatus]int
	ByQuadrant map[domain.QuadPosition]int

	AvgEPSGrowthPct float64
	AvgPERGrowthPct float64
	AvgFVBScore     float64
	AvgHGSScore     float64
	AvgRRSScore     float64
}

// ComputeStatistics counts rows by status and quadrant and averages the five
// scores over NORMAL rows.
func ComputeStatistics(rows []*domain.ConsensusMetricDaily) *Statistics {
	stats := &Statistics{
		Total:      len(rows),
		ByStatus:   make(map[domain.CalcStatus]int),
		ByQuadrant: make(map[domain.QuadPosition]int),
	}

	var sumEPS, sumPER, sumFVB, sumHGS, sumRRS float64
	for _, row := range rows {
		stats.ByStatus[row.CalcStatus]++
		if row.QuadPosition != nil {
			stats.ByQuadrant[*row.QuadPosition]++
		}
		if row.CalcStatus != domain.StatusNormal {
			continue
		}
		stats.NormalCount++
		sumEPS += deref(row.EPSGrowthPct)
		sumPER += deref(row.PERGrowthPct)
		sumFVB += deref(row.FVBScore)
		sumHGS += deref(row.HGSScore)
		sumRRS += deref(row.RRSScore)
	}

	if stats.NormalCount > 0 {
		n := float64(stats.NormalCount)
		stats.AvgEPSGrowthPct = sumEPS / n
		stats.AvgPERGrowthPct = sumPER / n
		stats.AvgFVBScore = sumFVB / n
		stats.AvgHGSScore = sumHGS / n
		stats.AvgRRSScore = sumRRS / n
	}

	return stats
}

// FilterByQuadrant returns the rows assigned to the given quadrant.
func FilterByQuadrant(rows []*domain.ConsensusMetricDaily, quad domain.QuadPosition) []*domain.ConsensusMetricDaily {
	var filtered []*domain.ConsensusMetricDaily
	for _, row := range rows {
		if row.QuadPosition != nil && *row.QuadPosition == quad {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// SortByMetric returns a sorted copy of rows. Rows without the metric sort
// last regardless of direction; ties break on ticker ASC for determinism.
func SortByMetric(rows []*domain.ConsensusMetricDaily, metric Metric, direction Direction) []*domain.ConsensusMetricDaily {
	sorted := make([]*domain.ConsensusMetricDaily, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a := scoreOf(sorted[i], metric)
		b := scoreOf(sorted[j], metric)

		switch {
		case a == nil && b == nil:
			return sorted[i].Ticker < sorted[j].Ticker
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			if direction == Ascending {
				return *a < *b
			}
			return *a > *b
		}
		return sorted[i].Ticker < sorted[j].Ticker
	})

	return sorted
}

// Priority computes the additive ranking heuristic for UI sort order.
func Priority(tags []domain.SignalTag, metric *domain.ConsensusMetricDaily) int {
	present := make(map[domain.SignalTag]bool, len(tags))
	for _, t := range tags {
		present[t] = true
	}

	score := 0
	if present[domain.TagHealthyDerating] {
		score += 100
	}
	if present[domain.TagTurnaround] && present[domain.TagImprovingTrend] {
		score += 80
	}
	if present[domain.TagHighGrowth] && !present[domain.TagOverheat] {
		score += 60
	}
	if metric.FVBScore != nil && *metric.FVBScore > 0 {
		score += 20
	}
	if present[domain.TagOverheat] {
		score -= 30
	}
	if present[domain.TagDecliningTrend] {
		score -= 20
	}
	return score
}

// scoreOf extracts the requested nullable score column.
func scoreOf(row *domain.ConsensusMetricDaily, metric Metric) *float64 {
	switch metric {
	case MetricEPSGrowth:
		return row.EPSGrowthPct
	case MetricPERGrowth:
		return row.PERGrowthPct
	case MetricFVB:
		return row.FVBScore
	case MetricHGS:
		return row.HGSScore
	case MetricRRS:
		return row.RRSScore
	}
	return nil
}

// deref reads a nullable score as a value; callers guarantee presence on
// NORMAL rows, zero otherwise.
func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
