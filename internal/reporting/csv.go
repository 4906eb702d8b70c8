package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the priority ranking as CSV string.
func RenderCSV(rows []RankingRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("ticker,status,quadrant,eps_growth_pct,per_growth_pct,")
	sb.WriteString("fvb_score,hgs_score,rrs_score,signal_tags,priority\n")

	// Rows
	for _, row := range rows {
		tags := ""
		if len(row.SignalTags) > 0 {
			parts := make([]string, len(row.SignalTags))
			for i, t := range row.SignalTags {
				parts[i] = t.String()
			}
			tags = strings.Join(parts, "|")
		}

		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%s,%s,%d\n",
			row.Ticker,
			row.Status,
			quadOrDash(row),
			csvScore(row.EPSGrowth),
			csvScore(row.PERGrowth),
			csvScore(row.FVBScore),
			csvScore(row.HGSScore),
			csvScore(row.RRSScore),
			tags,
			row.Priority,
		))
	}

	return sb.String()
}

// csvScore renders a nullable score, empty cell when absent.
func csvScore(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}
