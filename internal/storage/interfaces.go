package storage

import (
	"context"
	"time"

	"equity-consensus-lab/internal/domain"
)

// CompanyStore provides access to companies storage.
type CompanyStore interface {
	// Insert adds a new company. Returns ErrDuplicateKey if company_id exists.
	Insert(ctx context.Context, c *domain.Company) error

	// GetByID retrieves a company by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, companyID string) (*domain.Company, error)

	// GetByTicker retrieves a company by ticker. Returns ErrNotFound if not exists.
	GetByTicker(ctx context.Context, ticker string) (*domain.Company, error)

	// GetActive retrieves all active companies, ordered by ticker ASC.
	GetActive(ctx context.Context) ([]*domain.Company, error)
}

// FinancialFactStore provides access to financial_facts storage.
type FinancialFactStore interface {
	// Insert adds a new fact. Returns ErrDuplicateKey if the
	// (company_id, fiscal_year, metric, source, as_of) key exists.
	Insert(ctx context.Context, f *domain.FinancialFact) error

	// InsertBulk adds multiple facts atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, fs []*domain.FinancialFact) error

	// GetByYears retrieves all facts for the given fiscal years with
	// as_of <= asOf, across all companies.
	GetByYears(ctx context.Context, y1, y2 int, asOf time.Time) ([]*domain.FinancialFact, error)

	// GetByCompany retrieves all facts for a company, ordered by
	// fiscal_year ASC, as_of ASC.
	GetByCompany(ctx context.Context, companyID string) ([]*domain.FinancialFact, error)
}

// ConsensusMetricStore provides access to consensus_metric_daily storage.
// Upserts are idempotent on the natural key
// (snapshot_date, ticker, company_id, target_y1, target_y2).
type ConsensusMetricStore interface {
	// Upsert inserts or replaces the row for its natural key.
	Upsert(ctx context.Context, m *domain.ConsensusMetricDaily) error

	// Get retrieves the row for the natural key. Returns ErrNotFound if not exists.
	Get(ctx context.Context, key domain.MetricKey) (*domain.ConsensusMetricDaily, error)

	// GetLatestOnOrBefore retrieves the most recent row for
	// (ticker, target_y1, target_y2) with snapshot_date <= date.
	// Returns ErrNotFound if no such row exists.
	GetLatestOnOrBefore(ctx context.Context, ticker string, targetY1, targetY2 int, date time.Time) (*domain.ConsensusMetricDaily, error)

	// GetBySnapshotDate retrieves all rows for a snapshot date, ordered by ticker ASC.
	GetBySnapshotDate(ctx context.Context, date time.Time) ([]*domain.ConsensusMetricDaily, error)
}

// ConsensusDiffLogStore provides access to consensus_diff_log storage.
// Shares the natural key of ConsensusMetricStore.
type ConsensusDiffLogStore interface {
	// Upsert inserts or replaces the record for its natural key.
	Upsert(ctx context.Context, l *domain.ConsensusDiffLog) error

	// Get retrieves the record for the natural key. Returns ErrNotFound if not exists.
	Get(ctx context.Context, key domain.MetricKey) (*domain.ConsensusDiffLog, error)

	// GetBySnapshotDate retrieves all records for a snapshot date, ordered by ticker ASC.
	GetBySnapshotDate(ctx context.Context, date time.Time) ([]*domain.ConsensusDiffLog, error)
}

// MetricHistoryStore provides access to the append-only metric history
// timeseries used for charting. Duplicates on the natural key are rejected,
// unlike the daily store which upserts.
type MetricHistoryStore interface {
	// InsertBulk appends multiple rows. Fails entire batch on duplicate.
	InsertBulk(ctx context.Context, rows []*domain.ConsensusMetricDaily) error

	// GetByTicker retrieves all history rows for (ticker, target_y1, target_y2),
	// ordered by snapshot_date ASC.
	GetByTicker(ctx context.Context, ticker string, targetY1, targetY2 int) ([]*domain.ConsensusMetricDaily, error)

	// GetByTickerRange retrieves history rows within [start, end] (inclusive),
	// ordered by snapshot_date ASC.
	GetByTickerRange(ctx context.Context, ticker string, targetY1, targetY2 int, start, end time.Time) ([]*domain.ConsensusMetricDaily, error)
}
