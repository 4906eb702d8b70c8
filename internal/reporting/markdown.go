package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Consensus Metrics Report\n\n")
	sb.WriteString(fmt.Sprintf("Snapshot: %s\n\n", r.SnapshotDate.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Universe Summary
	sb.WriteString("## Universe Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Rows | %d |\n", r.Summary.TotalRows))
	sb.WriteString(fmt.Sprintf("| NORMAL | %d |\n", r.Summary.NormalCount))
	sb.WriteString(fmt.Sprintf("| TURNAROUND | %d |\n", r.Summary.TurnaroundCount))
	sb.WriteString(fmt.Sprintf("| DEFICIT | %d |\n", r.Summary.DeficitCount))
	sb.WriteString(fmt.Sprintf("| ERROR | %d |\n", r.Summary.ErrorCount))
	sb.WriteString(fmt.Sprintf("| Avg EPS Growth %% | %.2f |\n", r.Summary.AvgEPSGrowthPct))
	sb.WriteString(fmt.Sprintf("| Avg PER Growth %% | %.2f |\n", r.Summary.AvgPERGrowthPct))
	sb.WriteString(fmt.Sprintf("| Avg FVB | %.4f |\n", r.Summary.AvgFVBScore))
	sb.WriteString(fmt.Sprintf("| Avg HGS | %.2f |\n", r.Summary.AvgHGSScore))
	sb.WriteString(fmt.Sprintf("| Avg RRS | %.2f |\n", r.Summary.AvgRRSScore))
	sb.WriteString("\n")

	// Quadrant Breakdown
	sb.WriteString("## Quadrant Breakdown\n\n")
	sb.WriteString("| Quadrant | Count |\n")
	sb.WriteString("|----------|-------|\n")
	for _, q := range r.QuadrantBreakdown {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", q.Position, q.Count))
	}
	sb.WriteString("\n")

	// Priority Ranking
	sb.WriteString("## Priority Ranking\n\n")
	if len(r.Ranking) > 0 {
		sb.WriteString("| Ticker | Status | Quadrant | EPS G% | PER G% | FVB | HGS | RRS | Tags | Priority |\n")
		sb.WriteString("|--------|--------|----------|--------|--------|-----|-----|-----|------|----------|\n")
		for _, row := range r.Ranking {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s | %s | %d |\n",
				row.Ticker, row.Status, quadOrDash(row),
				fmtScore(row.EPSGrowth, 2), fmtScore(row.PERGrowth, 2),
				fmtScore(row.FVBScore, 4), fmtScore(row.HGSScore, 2), fmtScore(row.RRSScore, 2),
				tagList(row), row.Priority))
		}
	} else {
		sb.WriteString("No rows for this snapshot.\n")
	}
	sb.WriteString("\n")

	// Signal Tags
	sb.WriteString("## Signal Tags\n\n")
	sb.WriteString("| Tag | Count |\n")
	sb.WriteString("|-----|-------|\n")
	for _, t := range r.TagCounts {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", t.Tag, t.Count))
	}
	sb.WriteString("\n")

	// Alerts
	sb.WriteString("## Alerts\n\n")
	sb.WriteString("| Alert | Count |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Overheat | %d |\n", r.Alerts.Overheat))
	sb.WriteString(fmt.Sprintf("| Target Zone | %d |\n", r.Alerts.TargetZone))
	sb.WriteString(fmt.Sprintf("| Turnaround | %d |\n", r.Alerts.Turnaround))
	sb.WriteString(fmt.Sprintf("| High Growth | %d |\n", r.Alerts.HighGrowth))
	sb.WriteString(fmt.Sprintf("| Healthy | %d |\n", r.Alerts.Healthy))
	sb.WriteString("\n")

	return sb.String()
}

// fmtScore renders a nullable score, dash when absent.
func fmtScore(v *float64, decimals int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

func quadOrDash(row RankingRow) string {
	if row.Quadrant == nil {
		return "-"
	}
	return row.Quadrant.String()
}

func tagList(row RankingRow) string {
	if len(row.SignalTags) == 0 {
		return "-"
	}
	parts := make([]string, len(row.SignalTags))
	for i, t := range row.SignalTags {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
