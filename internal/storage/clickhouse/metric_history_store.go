package clickhouse

import (
	"context"
	"fmt"
	"time"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/storage"
)

// MetricHistoryStore implements storage.MetricHistoryStore using ClickHouse.
// The history table is the chart-serving timeseries; one row per
// (ticker, target_y1, target_y2, snapshot_date).
type MetricHistoryStore struct {
	conn *Conn
}

// NewMetricHistoryStore creates a new MetricHistoryStore.
func NewMetricHistoryStore(conn *Conn) *MetricHistoryStore {
	return &MetricHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MetricHistoryStore = (*MetricHistoryStore)(nil)

// InsertBulk appends multiple rows. Fails entire batch on duplicate
// (ticker, target_y1, target_y2, snapshot_date).
func (s *MetricHistoryStore) InsertBulk(ctx context.Context, metrics []*domain.ConsensusMetricDaily) error {
	if len(metrics) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		ticker   string
		targetY1 int
		targetY2 int
		date     string
	}
	seen := make(map[key]struct{})
	for _, m := range metrics {
		if m == nil {
			return storage.ErrInvalidInput
		}
		k := key{m.Ticker, m.TargetY1, m.TargetY2, m.SnapshotDate.Format("2006-01-02")}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, m := range metrics {
		exists, err := s.exists(ctx, m.Ticker, m.TargetY1, m.TargetY2, m.SnapshotDate)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO metric_history (
			snapshot_date, ticker, company_id, target_y1, target_y2,
			calc_status, calc_reason,
			eps_y1, eps_y2, per_y1, per_y2,
			eps_growth_pct, per_growth_pct, fvb_score, hgs_score, rrs_score,
			quad_x, quad_y, quad_position
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, m := range metrics {
		var quadPos *string
		if m.QuadPosition != nil {
			v := string(*m.QuadPosition)
			quadPos = &v
		}

		err = batch.Append(
			m.SnapshotDate, m.Ticker, m.CompanyID, int32(m.TargetY1), int32(m.TargetY2),
			string(m.CalcStatus), m.CalcReason,
			m.EPSY1, m.EPSY2, m.PERY1, m.PERY2,
			m.EPSGrowthPct, m.PERGrowthPct, m.FVBScore, m.HGSScore, m.RRSScore,
			m.QuadX, m.QuadY, quadPos,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTicker retrieves all history rows for (ticker, target_y1, target_y2),
// ordered by snapshot_date ASC.
func (s *MetricHistoryStore) GetByTicker(ctx context.Context, ticker string, targetY1, targetY2 int) ([]*domain.ConsensusMetricDaily, error) {
	query := `
		SELECT snapshot_date, ticker, company_id, target_y1, target_y2,
			calc_status, calc_reason,
			eps_y1, eps_y2, per_y1, per_y2,
			eps_growth_pct, per_growth_pct, fvb_score, hgs_score, rrs_score,
			quad_x, quad_y, quad_position
		FROM metric_history
		WHERE ticker = ? AND target_y1 = ? AND target_y2 = ?
		ORDER BY snapshot_date ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker, int32(targetY1), int32(targetY2))
	if err != nil {
		return nil, fmt.Errorf("query history by ticker: %w", err)
	}
	defer rows.Close()

	return scanMetricHistory(rows)
}

// GetByTickerRange retrieves history rows within [start, end] (inclusive),
// ordered by snapshot_date ASC.
func (s *MetricHistoryStore) GetByTickerRange(ctx context.Context, ticker string, targetY1, targetY2 int, start, end time.Time) ([]*domain.ConsensusMetricDaily, error) {
	query := `
		SELECT snapshot_date, ticker, company_id, target_y1, target_y2,
			calc_status, calc_reason,
			eps_y1, eps_y2, per_y1, per_y2,
			eps_growth_pct, per_growth_pct, fvb_score, hgs_score, rrs_score,
			quad_x, quad_y, quad_position
		FROM metric_history
		WHERE ticker = ? AND target_y1 = ? AND target_y2 = ?
			AND snapshot_date >= ? AND snapshot_date <= ?
		ORDER BY snapshot_date ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker, int32(targetY1), int32(targetY2), start, end)
	if err != nil {
		return nil, fmt.Errorf("query history by ticker range: %w", err)
	}
	defer rows.Close()

	return scanMetricHistory(rows)
}

// exists checks if a row with the given key exists.
func (s *MetricHistoryStore) exists(ctx context.Context, ticker string, targetY1, targetY2 int, date time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM metric_history
		WHERE ticker = ? AND target_y1 = ? AND target_y2 = ? AND snapshot_date = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, ticker, int32(targetY1), int32(targetY2), date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanMetricHistory scans multiple rows into a slice.
func scanMetricHistory(rows chRows) ([]*domain.ConsensusMetricDaily, error) {
	var metrics []*domain.ConsensusMetricDaily

	for rows.Next() {
		var (
			m        domain.ConsensusMetricDaily
			targetY1 int32
			targetY2 int32
			status   string
			quadPos  *string
		)

		err := rows.Scan(
			&m.SnapshotDate, &m.Ticker, &m.CompanyID, &targetY1, &targetY2,
			&status, &m.CalcReason,
			&m.EPSY1, &m.EPSY2, &m.PERY1, &m.PERY2,
			&m.EPSGrowthPct, &m.PERGrowthPct, &m.FVBScore, &m.HGSScore, &m.RRSScore,
			&m.QuadX, &m.QuadY, &quadPos,
		)
		if err != nil {
			return nil, fmt.Errorf("scan metric history row: %w", err)
		}

		m.TargetY1 = int(targetY1)
		m.TargetY2 = int(targetY2)
		m.CalcStatus = domain.CalcStatus(status)
		if quadPos != nil {
			v := domain.QuadPosition(*quadPos)
			m.QuadPosition = &v
		}
		m.SnapshotDate = m.SnapshotDate.UTC()

		metrics = append(metrics, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metric history rows: %w", err)
	}

	return metrics, nil
}
