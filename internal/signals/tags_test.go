package signals

import (
	"testing"

	"equity-consensus-lab/internal/domain"
)

func f(v float64) *float64 {
	return &v
}

func s(v string) *string {
	return &v
}

func q(p domain.QuadPosition) *domain.QuadPosition {
	return &p
}

// normalRow builds a NORMAL daily row with the given scores.
func normalRow(epsGrowth, fvb, hgs, rrs float64, quad domain.QuadPosition) *domain.ConsensusMetricDaily {
	return &domain.ConsensusMetricDaily{
		Ticker:       "ALPHA",
		CompanyID:    "C001",
		TargetY1:     2026,
		TargetY2:     2027,
		CalcStatus:   domain.StatusNormal,
		EPSGrowthPct: f(epsGrowth),
		FVBScore:     f(fvb),
		HGSScore:     f(hgs),
		RRSScore:     f(rrs),
		QuadX:        f(epsGrowth),
		QuadPosition: q(quad),
	}
}

// statusRow builds a non-NORMAL daily row with all metric fields nil.
func statusRow(status domain.CalcStatus) *domain.ConsensusMetricDaily {
	return &domain.ConsensusMetricDaily{
		Ticker:     "ALPHA",
		CompanyID:  "C001",
		TargetY1:   2026,
		TargetY2:   2027,
		CalcStatus: status,
	}
}

func hasTag(tags []domain.SignalTag, tag domain.SignalTag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func TestGenerateTags_HealthyDerating(t *testing.T) {
	tags := GenerateTags(normalRow(20, 0.3, 20, -10, domain.QuadGrowthDerating), nil)
	if !hasTag(tags, domain.TagHealthyDerating) {
		t.Error("expected HEALTHY_DERATING for Q2 with fvb > 0.2")
	}

	// Below the FVB threshold
	tags = GenerateTags(normalRow(20, 0.1, 20, -10, domain.QuadGrowthDerating), nil)
	if hasTag(tags, domain.TagHealthyDerating) {
		t.Error("did not expect HEALTHY_DERATING with fvb <= 0.2")
	}

	// Wrong quadrant
	tags = GenerateTags(normalRow(20, 0.3, 20, -10, domain.QuadGrowthRerating), nil)
	if hasTag(tags, domain.TagHealthyDerating) {
		t.Error("did not expect HEALTHY_DERATING outside Q2")
	}
}

func TestGenerateTags_Turnaround(t *testing.T) {
	tags := GenerateTags(statusRow(domain.StatusTurnaround), nil)
	if !hasTag(tags, domain.TagTurnaround) {
		t.Error("expected TURNAROUND tag for TURNAROUND status")
	}
	if len(tags) != 1 {
		t.Errorf("expected only TURNAROUND for a metric-free row, got %v", tags)
	}
}

func TestGenerateTags_HighGrowth(t *testing.T) {
	tags := GenerateTags(normalRow(60, 0.1, 35, 5, domain.QuadGrowthRerating), nil)
	if !hasTag(tags, domain.TagHighGrowth) {
		t.Error("expected HIGH_GROWTH for eps growth > 50 and hgs > 30")
	}

	// Both conditions required
	tags = GenerateTags(normalRow(60, 0.1, 25, 5, domain.QuadGrowthRerating), nil)
	if hasTag(tags, domain.TagHighGrowth) {
		t.Error("did not expect HIGH_GROWTH with hgs <= 30")
	}
	tags = GenerateTags(normalRow(45, 0.1, 35, 5, domain.QuadGrowthRerating), nil)
	if hasTag(tags, domain.TagHighGrowth) {
		t.Error("did not expect HIGH_GROWTH with eps growth <= 50")
	}
}

func TestGenerateTags_Overheat(t *testing.T) {
	tags := GenerateTags(normalRow(10, -0.2, -25, 35, domain.QuadGrowthRerating), nil)
	if !hasTag(tags, domain.TagOverheat) {
		t.Error("expected OVERHEAT for rrs > 30")
	}

	tags = GenerateTags(normalRow(10, -0.2, -25, 30, domain.QuadGrowthRerating), nil)
	if hasTag(tags, domain.TagOverheat) {
		t.Error("did not expect OVERHEAT at rrs = 30")
	}
}

func TestGenerateTags_TrendTags(t *testing.T) {
	row := normalRow(20, 0.1, 15, 5, domain.QuadGrowthRerating)

	tags := GenerateTags(row, &domain.HorizonDiff{FVBDiff: f(0.2)})
	if !hasTag(tags, domain.TagImprovingTrend) {
		t.Error("expected IMPROVING_TREND for monthly fvb diff > 0.1")
	}

	tags = GenerateTags(row, &domain.HorizonDiff{FVBDiff: f(-0.2)})
	if !hasTag(tags, domain.TagDecliningTrend) {
		t.Error("expected DECLINING_TREND for monthly fvb diff < -0.1")
	}

	tags = GenerateTags(row, &domain.HorizonDiff{FVBDiff: f(0.05)})
	if hasTag(tags, domain.TagImprovingTrend) || hasTag(tags, domain.TagDecliningTrend) {
		t.Error("did not expect trend tags inside the dead band")
	}

	// No diff context at all
	tags = GenerateTags(row, nil)
	if hasTag(tags, domain.TagImprovingTrend) || hasTag(tags, domain.TagDecliningTrend) {
		t.Error("did not expect trend tags without a diff context")
	}
}

func TestGenerateTags_QuadShift(t *testing.T) {
	row := normalRow(20, 0.1, 15, 5, domain.QuadGrowthDerating)

	shift := "Q1_GROWTH_RERATING->Q2_GROWTH_DERATING"
	tags := GenerateTags(row, &domain.HorizonDiff{QuadShift: s(shift)})
	if !hasTag(tags, domain.TagQuadShift) {
		t.Error("expected QUAD_SHIFT for an actual quadrant change")
	}

	// A degenerate from==to string must not fire the tag
	tags = GenerateTags(row, &domain.HorizonDiff{QuadShift: s("Q2_GROWTH_DERATING->Q2_GROWTH_DERATING")})
	if hasTag(tags, domain.TagQuadShift) {
		t.Error("did not expect QUAD_SHIFT when from == to")
	}

	tags = GenerateTags(row, &domain.HorizonDiff{})
	if hasTag(tags, domain.TagQuadShift) {
		t.Error("did not expect QUAD_SHIFT without a shift string")
	}
}

func TestGenerateTags_DeficitImproving(t *testing.T) {
	row := statusRow(domain.StatusDeficit)

	tags := GenerateTags(row, &domain.HorizonDiff{HGSDiff: f(6)})
	if !hasTag(tags, domain.TagDeficitImproving) {
		t.Error("expected DEFICIT_IMPROVING for DEFICIT with monthly hgs diff > 5")
	}

	tags = GenerateTags(row, &domain.HorizonDiff{HGSDiff: f(3)})
	if hasTag(tags, domain.TagDeficitImproving) {
		t.Error("did not expect DEFICIT_IMPROVING with hgs diff <= 5")
	}

	// Status gate: same diff on a NORMAL row must not fire
	tags = GenerateTags(normalRow(20, 0.1, 15, 5, domain.QuadGrowthRerating), &domain.HorizonDiff{HGSDiff: f(6)})
	if hasTag(tags, domain.TagDeficitImproving) {
		t.Error("did not expect DEFICIT_IMPROVING for a NORMAL row")
	}
}

func TestGenerateTags_CanonicalOrder(t *testing.T) {
	// A row firing several tags must list them in AllSignalTags order.
	row := normalRow(60, 0.5, 55, -10, domain.QuadGrowthDerating)
	tags := GenerateTags(row, &domain.HorizonDiff{FVBDiff: f(0.3)})

	want := []domain.SignalTag{domain.TagHealthyDerating, domain.TagHighGrowth, domain.TagImprovingTrend}
	if len(tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, tags)
		}
	}
}

func TestGenerateAlertFlags_Normal(t *testing.T) {
	flags := GenerateAlertFlags(normalRow(30, 0.4, 25, 5, domain.QuadGrowthDerating))

	if flags.IsOverheat {
		t.Error("did not expect is_overheat with rrs <= 30")
	}
	if !flags.IsTargetZone {
		t.Error("expected is_target_zone for Q2")
	}
	if flags.IsTurnaround {
		t.Error("did not expect is_turnaround for NORMAL")
	}
	if flags.IsHighGrowth {
		t.Error("did not expect is_high_growth with hgs <= 30")
	}
	if !flags.IsHealthy {
		t.Error("expected is_healthy for hgs > 20 and rrs < 10")
	}
}

func TestGenerateAlertFlags_Overheat(t *testing.T) {
	flags := GenerateAlertFlags(normalRow(10, -0.2, 35, 40, domain.QuadGrowthRerating))

	if !flags.IsOverheat {
		t.Error("expected is_overheat for rrs > 30")
	}
	if !flags.IsHighGrowth {
		t.Error("expected is_high_growth for hgs > 30")
	}
	if flags.IsHealthy {
		t.Error("did not expect is_healthy with rrs >= 10")
	}
}

func TestGenerateAlertFlags_NonNormalRow(t *testing.T) {
	flags := GenerateAlertFlags(statusRow(domain.StatusTurnaround))

	if !flags.IsTurnaround {
		t.Error("expected is_turnaround")
	}
	// Score-based flags stay false when scores are absent
	if flags.IsOverheat || flags.IsTargetZone || flags.IsHighGrowth || flags.IsHealthy {
		t.Error("expected score-based flags to be false for a metric-free row")
	}
}
