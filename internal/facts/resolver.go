// Package facts folds raw financial facts into per-ticker year pairs for the
// consensus engine. Duplicate facts for the same (ticker, year, metric) are
// resolved by explicit source precedence, not by iteration order.
package facts

import "equity-consensus-lab/internal/domain"

// factKey addresses one consensus slot within a ticker's accumulator.
type factKey struct {
	year   int
	metric domain.FactMetric
}

// Resolve groups facts by ticker and builds one YearPair per ticker for the
// given target years. Per (year, metric) slot the highest-priority source
// wins; ties break on the most recent as_of date. Facts for other fiscal
// years are ignored. Slots with no fact stay nil in the pair.
func Resolve(all []*domain.FinancialFact, targetY1, targetY2 int) map[string]domain.YearPair {
	// ticker -> best-known fact per slot
	best := make(map[string]map[factKey]*domain.FinancialFact)

	for _, fact := range all {
		if fact.FiscalYear != targetY1 && fact.FiscalYear != targetY2 {
			continue
		}
		key := factKey{year: fact.FiscalYear, metric: fact.Metric}

		slots, ok := best[fact.Ticker]
		if !ok {
			slots = make(map[factKey]*domain.FinancialFact)
			best[fact.Ticker] = slots
		}

		if current, exists := slots[key]; !exists || supersedes(fact, current) {
			slots[key] = fact
		}
	}

	pairs := make(map[string]domain.YearPair, len(best))
	for ticker, slots := range best {
		pair := domain.YearPair{TargetY1: targetY1, TargetY2: targetY2}
		if f, ok := slots[factKey{targetY1, domain.MetricEPS}]; ok {
			pair.EPSY1 = value(f)
		}
		if f, ok := slots[factKey{targetY2, domain.MetricEPS}]; ok {
			pair.EPSY2 = value(f)
		}
		if f, ok := slots[factKey{targetY1, domain.MetricPER}]; ok {
			pair.PERY1 = value(f)
		}
		if f, ok := slots[factKey{targetY2, domain.MetricPER}]; ok {
			pair.PERY2 = value(f)
		}
		pairs[ticker] = pair
	}

	return pairs
}

// supersedes reports whether candidate should replace current in a slot:
// higher source priority wins, equal priority falls back to recency.
func supersedes(candidate, current *domain.FinancialFact) bool {
	cp, xp := candidate.Source.Priority(), current.Source.Priority()
	if cp != xp {
		return cp > xp
	}
	return candidate.AsOf.After(current.AsOf)
}

// value copies the fact's value onto the heap for the nullable pair field.
func value(f *domain.FinancialFact) *float64 {
	v := f.Value
	return &v
}
