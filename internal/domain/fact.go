package domain

import "time"

// FactSource identifies where a financial fact was sourced from.
// When the same (company, year, metric) exists from several sources the
// resolver keeps the highest-priority one.
type FactSource string

const (
	SourceConsensus FactSource = "CONSENSUS" // broker consensus aggregate
	SourceGuidance  FactSource = "GUIDANCE"  // company guidance
	SourceManual    FactSource = "MANUAL"    // manual analyst override input
)

// Priority returns the precedence rank of the source. Higher wins.
func (s FactSource) Priority() int {
	switch s {
	case SourceConsensus:
		return 3
	case SourceGuidance:
		return 2
	case SourceManual:
		return 1
	}
	return 0
}

// IsValid checks if the source is a valid value.
func (s FactSource) IsValid() bool {
	return s.Priority() > 0
}

// FactMetric names the kind of financial fact.
type FactMetric string

const (
	MetricEPS FactMetric = "EPS"
	MetricPER FactMetric = "PER"
)

// FinancialFact is one scraped/ingested fundamental estimate.
// Corresponds to financial_facts table in PostgreSQL, keyed by
// (company_id, fiscal_year, metric, source, as_of).
type FinancialFact struct {
	CompanyID  string
	Ticker     string
	FiscalYear int
	Metric     FactMetric
	Value      float64
	Source     FactSource
	AsOf       time.Time // estimate publication date
}
