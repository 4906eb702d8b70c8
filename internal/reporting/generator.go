package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/ranking"
	"equity-consensus-lab/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	metricStore  storage.ConsensusMetricStore
	diffLogStore storage.ConsensusDiffLogStore
	now          func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(metricStore storage.ConsensusMetricStore, diffLogStore storage.ConsensusDiffLogStore) *Generator {
	return &Generator{
		metricStore:  metricStore,
		diffLogStore: diffLogStore,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces the report for one snapshot date.
func (g *Generator) Generate(ctx context.Context, snapshotDate time.Time) (*Report, error) {
	rows, err := g.metricStore.GetBySnapshotDate(ctx, snapshotDate)
	if err != nil {
		return nil, fmt.Errorf("load daily metrics: %w", err)
	}

	diffLogs, err := g.diffLogStore.GetBySnapshotDate(ctx, snapshotDate)
	if err != nil {
		return nil, fmt.Errorf("load diff logs: %w", err)
	}

	// Index diff logs by ticker and year pair; the ranking table joins on it
	type seriesKey struct {
		ticker   string
		targetY1 int
		targetY2 int
	}
	logsByKey := make(map[seriesKey]*domain.ConsensusDiffLog, len(diffLogs))
	for _, l := range diffLogs {
		logsByKey[seriesKey{l.Ticker, l.TargetY1, l.TargetY2}] = l
	}

	stats := ranking.ComputeStatistics(rows)

	report := &Report{
		GeneratedAt:  g.now(),
		SnapshotDate: snapshotDate,
		Summary: Summary{
			TotalRows:       stats.Total,
			NormalCount:     stats.NormalCount,
			TurnaroundCount: stats.ByStatus[domain.StatusTurnaround],
			DeficitCount:    stats.ByStatus[domain.StatusDeficit],
			ErrorCount:      stats.ByStatus[domain.StatusError],
			AvgEPSGrowthPct: stats.AvgEPSGrowthPct,
			AvgPERGrowthPct: stats.AvgPERGrowthPct,
			AvgFVBScore:     stats.AvgFVBScore,
			AvgHGSScore:     stats.AvgHGSScore,
			AvgRRSScore:     stats.AvgRRSScore,
		},
		QuadrantBreakdown: quadrantBreakdown(stats),
	}

	// Ranking rows, one per daily row
	tagTotals := make(map[domain.SignalTag]int)
	for _, row := range rows {
		rr := RankingRow{
			Ticker:    row.Ticker,
			Status:    row.CalcStatus,
			Quadrant:  row.QuadPosition,
			EPSGrowth: row.EPSGrowthPct,
			PERGrowth: row.PERGrowthPct,
			FVBScore:  row.FVBScore,
			HGSScore:  row.HGSScore,
			RRSScore:  row.RRSScore,
		}

		if l, ok := logsByKey[seriesKey{row.Ticker, row.TargetY1, row.TargetY2}]; ok {
			rr.SignalTags = l.SignalTags
			rr.Priority = ranking.Priority(l.SignalTags, row)
			for _, tag := range l.SignalTags {
				tagTotals[tag]++
			}
			accumulateAlerts(&report.Alerts, l.Alerts)
		} else {
			rr.Priority = ranking.Priority(nil, row)
		}

		report.Ranking = append(report.Ranking, rr)
	}

	sort.SliceStable(report.Ranking, func(i, j int) bool {
		if report.Ranking[i].Priority != report.Ranking[j].Priority {
			return report.Ranking[i].Priority > report.Ranking[j].Priority
		}
		return report.Ranking[i].Ticker < report.Ranking[j].Ticker
	})

	for _, tag := range domain.AllSignalTags {
		report.TagCounts = append(report.TagCounts, TagCountRow{Tag: tag, Count: tagTotals[tag]})
	}

	return report, nil
}

// quadrantBreakdown renders the stats quadrant map in fixed Q1..Q4 order.
func quadrantBreakdown(stats *ranking.Statistics) []QuadrantRow {
	order := []domain.QuadPosition{
		domain.QuadGrowthRerating,
		domain.QuadGrowthDerating,
		domain.QuadDeclineRerating,
		domain.QuadDeclineDerating,
	}

	rows := make([]QuadrantRow, 0, len(order))
	for _, pos := range order {
		rows = append(rows, QuadrantRow{Position: pos, Count: stats.ByQuadrant[pos]})
	}
	return rows
}

func accumulateAlerts(sum *AlertSummary, a domain.AlertFlags) {
	if a.IsOverheat {
		sum.Overheat++
	}
	if a.IsTargetZone {
		sum.TargetZone++
	}
	if a.IsTurnaround {
		sum.Turnaround++
	}
	if a.IsHighGrowth {
		sum.HighGrowth++
	}
	if a.IsHealthy {
		sum.Healthy++
	}
}
