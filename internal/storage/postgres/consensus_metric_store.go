package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/storage"
)

// ConsensusMetricStore implements storage.ConsensusMetricStore using PostgreSQL.
type ConsensusMetricStore struct {
	pool *Pool
}

// NewConsensusMetricStore creates a new ConsensusMetricStore.
func NewConsensusMetricStore(pool *Pool) *ConsensusMetricStore {
	return &ConsensusMetricStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ConsensusMetricStore = (*ConsensusMetricStore)(nil)

const metricColumns = `
	snapshot_date, ticker, company_id, target_y1, target_y2,
	calc_status, calc_reason,
	eps_y1, eps_y2, per_y1, per_y2,
	eps_growth_pct, per_growth_pct, fvb_score, hgs_score, rrs_score,
	quad_x, quad_y, quad_position,
	created_at
`

// Upsert inserts or replaces the row for its natural key
// (snapshot_date, ticker, company_id, target_y1, target_y2).
func (s *ConsensusMetricStore) Upsert(ctx context.Context, m *domain.ConsensusMetricDaily) error {
	if m == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO consensus_metric_daily (
			snapshot_date, ticker, company_id, target_y1, target_y2,
			calc_status, calc_reason,
			eps_y1, eps_y2, per_y1, per_y2,
			eps_growth_pct, per_growth_pct, fvb_score, hgs_score, rrs_score,
			quad_x, quad_y, quad_position
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7,
			$8, $9, $10, $11,
			$12, $13, $14, $15, $16,
			$17, $18, $19
		)
		ON CONFLICT (snapshot_date, ticker, company_id, target_y1, target_y2)
		DO UPDATE SET
			calc_status = EXCLUDED.calc_status,
			calc_reason = EXCLUDED.calc_reason,
			eps_y1 = EXCLUDED.eps_y1,
			eps_y2 = EXCLUDED.eps_y2,
			per_y1 = EXCLUDED.per_y1,
			per_y2 = EXCLUDED.per_y2,
			eps_growth_pct = EXCLUDED.eps_growth_pct,
			per_growth_pct = EXCLUDED.per_growth_pct,
			fvb_score = EXCLUDED.fvb_score,
			hgs_score = EXCLUDED.hgs_score,
			rrs_score = EXCLUDED.rrs_score,
			quad_x = EXCLUDED.quad_x,
			quad_y = EXCLUDED.quad_y,
			quad_position = EXCLUDED.quad_position
	`

	var quadPos *string
	if m.QuadPosition != nil {
		v := string(*m.QuadPosition)
		quadPos = &v
	}

	_, err := s.pool.Exec(ctx, query,
		m.SnapshotDate, m.Ticker, m.CompanyID, m.TargetY1, m.TargetY2,
		string(m.CalcStatus), m.CalcReason,
		m.EPSY1, m.EPSY2, m.PERY1, m.PERY2,
		m.EPSGrowthPct, m.PERGrowthPct, m.FVBScore, m.HGSScore, m.RRSScore,
		m.QuadX, m.QuadY, quadPos,
	)
	if err != nil {
		return fmt.Errorf("upsert consensus metric: %w", err)
	}
	return nil
}

// Get retrieves the row for the natural key. Returns ErrNotFound if not exists.
func (s *ConsensusMetricStore) Get(ctx context.Context, key domain.MetricKey) (*domain.ConsensusMetricDaily, error) {
	query := `
		SELECT ` + metricColumns + `
		FROM consensus_metric_daily
		WHERE snapshot_date = $1 AND ticker = $2 AND company_id = $3
			AND target_y1 = $4 AND target_y2 = $5
	`

	row := s.pool.QueryRow(ctx, query,
		key.SnapshotDate, key.Ticker, key.CompanyID, key.TargetY1, key.TargetY2,
	)
	m, err := scanConsensusMetric(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get consensus metric: %w", err)
	}
	return m, nil
}

// GetLatestOnOrBefore retrieves the most recent row for (ticker, target_y1, target_y2)
// with snapshot_date <= date. Returns ErrNotFound if no such row exists.
func (s *ConsensusMetricStore) GetLatestOnOrBefore(ctx context.Context, ticker string, targetY1, targetY2 int, date time.Time) (*domain.ConsensusMetricDaily, error) {
	query := `
		SELECT ` + metricColumns + `
		FROM consensus_metric_daily
		WHERE ticker = $1 AND target_y1 = $2 AND target_y2 = $3 AND snapshot_date <= $4
		ORDER BY snapshot_date DESC
		LIMIT 1
	`

	row := s.pool.QueryRow(ctx, query, ticker, targetY1, targetY2, date)
	m, err := scanConsensusMetric(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest consensus metric on or before: %w", err)
	}
	return m, nil
}

// GetBySnapshotDate retrieves all rows for a snapshot date, ordered by ticker ASC.
func (s *ConsensusMetricStore) GetBySnapshotDate(ctx context.Context, date time.Time) ([]*domain.ConsensusMetricDaily, error) {
	query := `
		SELECT ` + metricColumns + `
		FROM consensus_metric_daily
		WHERE snapshot_date = $1
		ORDER BY ticker ASC, target_y1 ASC
	`

	rows, err := s.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("get consensus metrics by snapshot date: %w", err)
	}
	defer rows.Close()

	var metrics []*domain.ConsensusMetricDaily
	for rows.Next() {
		m, err := scanConsensusMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consensus metric row: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consensus metric rows: %w", err)
	}

	return metrics, nil
}

// scanConsensusMetric scans a single row into a ConsensusMetricDaily.
func scanConsensusMetric(row pgx.Row) (*domain.ConsensusMetricDaily, error) {
	var (
		m       domain.ConsensusMetricDaily
		status  string
		quadPos *string
	)

	err := row.Scan(
		&m.SnapshotDate, &m.Ticker, &m.CompanyID, &m.TargetY1, &m.TargetY2,
		&status, &m.CalcReason,
		&m.EPSY1, &m.EPSY2, &m.PERY1, &m.PERY2,
		&m.EPSGrowthPct, &m.PERGrowthPct, &m.FVBScore, &m.HGSScore, &m.RRSScore,
		&m.QuadX, &m.QuadY, &quadPos,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.CalcStatus = domain.CalcStatus(status)
	if quadPos != nil {
		v := domain.QuadPosition(*quadPos)
		m.QuadPosition = &v
	}
	m.SnapshotDate = m.SnapshotDate.UTC()

	return &m, nil
}
