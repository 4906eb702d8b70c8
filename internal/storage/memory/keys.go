// Package memory provides in-memory store implementations for tests.
package memory

import (
	"fmt"
	"time"

	"equity-consensus-lab/internal/domain"
)

// dateKey normalizes a snapshot date to its civil-date form.
func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// metricKey generates a unique key for the consensus natural key tuple.
func metricKey(date time.Time, ticker, companyID string, y1, y2 int) string {
	return fmt.Sprintf("%s|%s|%s|%d|%d", dateKey(date), ticker, companyID, y1, y2)
}

// seriesKey groups history rows per (ticker, year-pair).
func seriesKey(ticker string, y1, y2 int) string {
	return fmt.Sprintf("%s|%d|%d", ticker, y1, y2)
}

// factKey generates a unique key for a financial fact.
func factKey(f *domain.FinancialFact) string {
	return fmt.Sprintf("%s|%d|%s|%s|%s", f.CompanyID, f.FiscalYear, f.Metric, f.Source, dateKey(f.AsOf))
}
