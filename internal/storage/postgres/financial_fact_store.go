package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/storage"
)

// FinancialFactStore implements storage.FinancialFactStore using PostgreSQL.
type FinancialFactStore struct {
	pool *Pool
}

// NewFinancialFactStore creates a new FinancialFactStore.
func NewFinancialFactStore(pool *Pool) *FinancialFactStore {
	return &FinancialFactStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FinancialFactStore = (*FinancialFactStore)(nil)

const insertFactQuery = `
	INSERT INTO financial_facts (
		company_id, ticker, fiscal_year, metric, value, source, as_of
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// Insert adds a new fact. Returns ErrDuplicateKey when the
// (company_id, fiscal_year, metric, source, as_of) key exists.
func (s *FinancialFactStore) Insert(ctx context.Context, f *domain.FinancialFact) error {
	if f == nil {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertFactQuery,
		f.CompanyID, f.Ticker, f.FiscalYear, string(f.Metric), f.Value, string(f.Source), f.AsOf,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert financial fact: %w", err)
	}
	return nil
}

// InsertBulk adds multiple facts atomically. Fails entire batch on any duplicate.
func (s *FinancialFactStore) InsertBulk(ctx context.Context, fs []*domain.FinancialFact) error {
	if len(fs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, f := range fs {
		if f == nil {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, insertFactQuery,
			f.CompanyID, f.Ticker, f.FiscalYear, string(f.Metric), f.Value, string(f.Source), f.AsOf,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert financial fact in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByYears retrieves all facts for the given fiscal years with
// as_of <= asOf, across all companies.
func (s *FinancialFactStore) GetByYears(ctx context.Context, y1, y2 int, asOf time.Time) ([]*domain.FinancialFact, error) {
	query := `
		SELECT company_id, ticker, fiscal_year, metric, value, source, as_of
		FROM financial_facts
		WHERE fiscal_year IN ($1, $2) AND as_of <= $3
		ORDER BY ticker ASC, fiscal_year ASC, as_of ASC
	`

	rows, err := s.pool.Query(ctx, query, y1, y2, asOf)
	if err != nil {
		return nil, fmt.Errorf("get facts by years: %w", err)
	}
	defer rows.Close()

	return scanFinancialFacts(rows)
}

// GetByCompany retrieves all facts for a company, ordered by fiscal_year ASC, as_of ASC.
func (s *FinancialFactStore) GetByCompany(ctx context.Context, companyID string) ([]*domain.FinancialFact, error) {
	query := `
		SELECT company_id, ticker, fiscal_year, metric, value, source, as_of
		FROM financial_facts
		WHERE company_id = $1
		ORDER BY fiscal_year ASC, as_of ASC
	`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("get facts by company: %w", err)
	}
	defer rows.Close()

	return scanFinancialFacts(rows)
}

// scanFinancialFacts scans multiple rows into a slice of FinancialFact.
func scanFinancialFacts(rows pgx.Rows) ([]*domain.FinancialFact, error) {
	var facts []*domain.FinancialFact

	for rows.Next() {
		var (
			f      domain.FinancialFact
			metric string
			source string
		)
		err := rows.Scan(&f.CompanyID, &f.Ticker, &f.FiscalYear, &metric, &f.Value, &source, &f.AsOf)
		if err != nil {
			return nil, fmt.Errorf("scan financial fact row: %w", err)
		}
		f.Metric = domain.FactMetric(metric)
		f.Source = domain.FactSource(source)

		facts = append(facts, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate financial fact rows: %w", err)
	}

	return facts, nil
}
