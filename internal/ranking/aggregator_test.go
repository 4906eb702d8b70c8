package ranking

import (
	"testing"

	"equity-consensus-lab/internal/domain"
)

func f(v float64) *float64 {
	return &v
}

func q(p domain.QuadPosition) *domain.QuadPosition {
	return &p
}

func normalRow(ticker string, fvb, hgs, rrs float64, quad domain.QuadPosition) *domain.ConsensusMetricDaily {
	return &domain.ConsensusMetricDaily{
		Ticker:       ticker,
		CalcStatus:   domain.StatusNormal,
		EPSGrowthPct: f(10),
		PERGrowthPct: f(5),
		FVBScore:     f(fvb),
		HGSScore:     f(hgs),
		RRSScore:     f(rrs),
		QuadPosition: q(quad),
	}
}

func statusRow(ticker string, status domain.CalcStatus) *domain.ConsensusMetricDaily {
	return &domain.ConsensusMetricDaily{Ticker: ticker, CalcStatus: status}
}

func TestComputeStatistics(t *testing.T) {
	rows := []*domain.ConsensusMetricDaily{
		normalRow("A", 0.2, 10, -5, domain.QuadGrowthDerating),
		normalRow("B", 0.4, 20, 15, domain.QuadGrowthRerating),
		statusRow("C", domain.StatusTurnaround),
		statusRow("D", domain.StatusError),
	}

	stats := ComputeStatistics(rows)

	if stats.Total != 4 {
		t.Errorf("expected total 4, got %d", stats.Total)
	}
	if stats.NormalCount != 2 {
		t.Errorf("expected 2 NORMAL rows, got %d", stats.NormalCount)
	}
	if stats.ByStatus[domain.StatusNormal] != 2 || stats.ByStatus[domain.StatusTurnaround] != 1 || stats.ByStatus[domain.StatusError] != 1 {
		t.Errorf("unexpected status counts: %v", stats.ByStatus)
	}
	if stats.ByQuadrant[domain.QuadGrowthDerating] != 1 || stats.ByQuadrant[domain.QuadGrowthRerating] != 1 {
		t.Errorf("unexpected quadrant counts: %v", stats.ByQuadrant)
	}
	// Averages over NORMAL rows only: fvb (0.2+0.4)/2
	if got := stats.AvgFVBScore; got < 0.2999 || got > 0.3001 {
		t.Errorf("expected avg fvb 0.3, got %f", got)
	}
	if stats.AvgHGSScore != 15 {
		t.Errorf("expected avg hgs 15, got %f", stats.AvgHGSScore)
	}
	if stats.AvgRRSScore != 5 {
		t.Errorf("expected avg rrs 5, got %f", stats.AvgRRSScore)
	}
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats := ComputeStatistics(nil)

	if stats.Total != 0 || stats.NormalCount != 0 {
		t.Error("expected zero counts for empty batch")
	}
	if stats.AvgFVBScore != 0 {
		t.Error("expected zero averages for empty batch")
	}
}

func TestFilterByQuadrant(t *testing.T) {
	rows := []*domain.ConsensusMetricDaily{
		normalRow("A", 0.2, 10, -5, domain.QuadGrowthDerating),
		normalRow("B", 0.4, 20, 15, domain.QuadGrowthRerating),
		normalRow("C", 0.1, 5, -2, domain.QuadGrowthDerating),
		statusRow("D", domain.StatusDeficit), // no quadrant
	}

	filtered := FilterByQuadrant(rows, domain.QuadGrowthDerating)

	if len(filtered) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(filtered))
	}
	if filtered[0].Ticker != "A" || filtered[1].Ticker != "C" {
		t.Errorf("unexpected rows: %s, %s", filtered[0].Ticker, filtered[1].Ticker)
	}
}

func TestSortByMetric_MissingLast(t *testing.T) {
	rows := []*domain.ConsensusMetricDaily{
		statusRow("D", domain.StatusError), // nil fvb
		normalRow("A", 0.2, 10, -5, domain.QuadGrowthDerating),
		normalRow("B", 0.4, 20, 15, domain.QuadGrowthRerating),
	}

	desc := SortByMetric(rows, MetricFVB, Descending)
	if desc[0].Ticker != "B" || desc[1].Ticker != "A" || desc[2].Ticker != "D" {
		t.Errorf("unexpected DESC order: %s, %s, %s", desc[0].Ticker, desc[1].Ticker, desc[2].Ticker)
	}

	asc := SortByMetric(rows, MetricFVB, Ascending)
	if asc[0].Ticker != "A" || asc[1].Ticker != "B" || asc[2].Ticker != "D" {
		t.Errorf("unexpected ASC order: %s, %s, %s", asc[0].Ticker, asc[1].Ticker, asc[2].Ticker)
	}

	// Input order untouched
	if rows[0].Ticker != "D" {
		t.Error("SortByMetric must not mutate its input")
	}
}

func TestSortByMetric_TickerTieBreak(t *testing.T) {
	rows := []*domain.ConsensusMetricDaily{
		normalRow("B", 0.2, 10, -5, domain.QuadGrowthDerating),
		normalRow("A", 0.2, 10, -5, domain.QuadGrowthDerating),
	}

	sorted := SortByMetric(rows, MetricFVB, Descending)
	if sorted[0].Ticker != "A" {
		t.Errorf("expected ticker tie-break ASC, got %s first", sorted[0].Ticker)
	}
}

func TestPriority(t *testing.T) {
	cases := []struct {
		name   string
		tags   []domain.SignalTag
		metric *domain.ConsensusMetricDaily
		want   int
	}{
		{
			"healthy derating with positive fvb",
			[]domain.SignalTag{domain.TagHealthyDerating},
			normalRow("A", 0.5, 25, -10, domain.QuadGrowthDerating),
			120, // +100 tag, +20 fvb > 0
		},
		{
			"turnaround improving",
			[]domain.SignalTag{domain.TagTurnaround, domain.TagImprovingTrend},
			statusRow("B", domain.StatusTurnaround),
			80,
		},
		{
			"turnaround without trend",
			[]domain.SignalTag{domain.TagTurnaround},
			statusRow("B", domain.StatusTurnaround),
			0,
		},
		{
			"high growth not overheating",
			[]domain.SignalTag{domain.TagHighGrowth},
			normalRow("C", -0.1, 40, 5, domain.QuadGrowthRerating),
			60,
		},
		{
			"high growth but overheating",
			[]domain.SignalTag{domain.TagHighGrowth, domain.TagOverheat},
			normalRow("C", -0.1, 40, 35, domain.QuadGrowthRerating),
			-30,
		},
		{
			"declining trend penalty",
			[]domain.SignalTag{domain.TagDecliningTrend},
			normalRow("D", 0.1, 5, 5, domain.QuadGrowthRerating),
			0, // +20 fvb, -20 declining
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Priority(c.tags, c.metric); got != c.want {
				t.Errorf("expected %d, got %d", c.want, got)
			}
		})
	}
}
