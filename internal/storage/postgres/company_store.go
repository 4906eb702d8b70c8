package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/storage"
)

// CompanyStore implements storage.CompanyStore using PostgreSQL.
type CompanyStore struct {
	pool *Pool
}

// NewCompanyStore creates a new CompanyStore.
func NewCompanyStore(pool *Pool) *CompanyStore {
	return &CompanyStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CompanyStore = (*CompanyStore)(nil)

// Insert adds a new company. Returns ErrDuplicateKey if company_id exists.
func (s *CompanyStore) Insert(ctx context.Context, c *domain.Company) error {
	if c == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO companies (company_id, ticker, name, active)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, c.CompanyID, c.Ticker, c.Name, c.Active)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID retrieves a company by its ID. Returns ErrNotFound if not exists.
func (s *CompanyStore) GetByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, ticker, name, active, created_at
		FROM companies
		WHERE company_id = $1
	`

	row := s.pool.QueryRow(ctx, query, companyID)
	c, err := scanCompany(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get company by id: %w", err)
	}
	return c, nil
}

// GetByTicker retrieves a company by ticker. Returns ErrNotFound if not exists.
func (s *CompanyStore) GetByTicker(ctx context.Context, ticker string) (*domain.Company, error) {
	query := `
		SELECT company_id, ticker, name, active, created_at
		FROM companies
		WHERE ticker = $1
	`

	row := s.pool.QueryRow(ctx, query, ticker)
	c, err := scanCompany(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get company by ticker: %w", err)
	}
	return c, nil
}

// GetActive retrieves all active companies, ordered by ticker ASC.
func (s *CompanyStore) GetActive(ctx context.Context) ([]*domain.Company, error) {
	query := `
		SELECT company_id, ticker, name, active, created_at
		FROM companies
		WHERE active = TRUE
		ORDER BY ticker ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active companies: %w", err)
	}
	defer rows.Close()

	var companies []*domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.CompanyID, &c.Ticker, &c.Name, &c.Active, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan company row: %w", err)
		}
		companies = append(companies, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate company rows: %w", err)
	}

	return companies, nil
}

// scanCompany scans a single row into a Company.
func scanCompany(row pgx.Row) (*domain.Company, error) {
	var c domain.Company
	if err := row.Scan(&c.CompanyID, &c.Ticker, &c.Name, &c.Active, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
