package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/storage"
)

// ConsensusDiffLogStore implements storage.ConsensusDiffLogStore using PostgreSQL.
type ConsensusDiffLogStore struct {
	pool *Pool
}

// NewConsensusDiffLogStore creates a new ConsensusDiffLogStore.
func NewConsensusDiffLogStore(pool *Pool) *ConsensusDiffLogStore {
	return &ConsensusDiffLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ConsensusDiffLogStore = (*ConsensusDiffLogStore)(nil)

const diffLogColumns = `
	snapshot_date, ticker, company_id, target_y1, target_y2,
	fvb_diff_d1, hgs_diff_d1, rrs_diff_d1, quad_shift_d1,
	fvb_diff_w1, hgs_diff_w1, rrs_diff_w1, quad_shift_w1,
	fvb_diff_m1, hgs_diff_m1, rrs_diff_m1, quad_shift_m1,
	signal_tags, tag_count,
	fvb_trend, hgs_trend, rrs_trend,
	is_overheat, is_target_zone, is_turnaround, is_high_growth, is_healthy,
	created_at
`

// Upsert inserts or replaces the record for its natural key
// (snapshot_date, ticker, company_id, target_y1, target_y2).
func (s *ConsensusDiffLogStore) Upsert(ctx context.Context, l *domain.ConsensusDiffLog) error {
	if l == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO consensus_diff_log (
			snapshot_date, ticker, company_id, target_y1, target_y2,
			fvb_diff_d1, hgs_diff_d1, rrs_diff_d1, quad_shift_d1,
			fvb_diff_w1, hgs_diff_w1, rrs_diff_w1, quad_shift_w1,
			fvb_diff_m1, hgs_diff_m1, rrs_diff_m1, quad_shift_m1,
			signal_tags, tag_count,
			fvb_trend, hgs_trend, rrs_trend,
			is_overheat, is_target_zone, is_turnaround, is_high_growth, is_healthy
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16, $17,
			$18, $19,
			$20, $21, $22,
			$23, $24, $25, $26, $27
		)
		ON CONFLICT (snapshot_date, ticker, company_id, target_y1, target_y2)
		DO UPDATE SET
			fvb_diff_d1 = EXCLUDED.fvb_diff_d1,
			hgs_diff_d1 = EXCLUDED.hgs_diff_d1,
			rrs_diff_d1 = EXCLUDED.rrs_diff_d1,
			quad_shift_d1 = EXCLUDED.quad_shift_d1,
			fvb_diff_w1 = EXCLUDED.fvb_diff_w1,
			hgs_diff_w1 = EXCLUDED.hgs_diff_w1,
			rrs_diff_w1 = EXCLUDED.rrs_diff_w1,
			quad_shift_w1 = EXCLUDED.quad_shift_w1,
			fvb_diff_m1 = EXCLUDED.fvb_diff_m1,
			hgs_diff_m1 = EXCLUDED.hgs_diff_m1,
			rrs_diff_m1 = EXCLUDED.rrs_diff_m1,
			quad_shift_m1 = EXCLUDED.quad_shift_m1,
			signal_tags = EXCLUDED.signal_tags,
			tag_count = EXCLUDED.tag_count,
			fvb_trend = EXCLUDED.fvb_trend,
			hgs_trend = EXCLUDED.hgs_trend,
			rrs_trend = EXCLUDED.rrs_trend,
			is_overheat = EXCLUDED.is_overheat,
			is_target_zone = EXCLUDED.is_target_zone,
			is_turnaround = EXCLUDED.is_turnaround,
			is_high_growth = EXCLUDED.is_high_growth,
			is_healthy = EXCLUDED.is_healthy
	`

	tags := make([]string, len(l.SignalTags))
	for i, tag := range l.SignalTags {
		tags[i] = string(tag)
	}

	_, err := s.pool.Exec(ctx, query,
		l.SnapshotDate, l.Ticker, l.CompanyID, l.TargetY1, l.TargetY2,
		l.D1.FVBDiff, l.D1.HGSDiff, l.D1.RRSDiff, l.D1.QuadShift,
		l.W1.FVBDiff, l.W1.HGSDiff, l.W1.RRSDiff, l.W1.QuadShift,
		l.M1.FVBDiff, l.M1.HGSDiff, l.M1.RRSDiff, l.M1.QuadShift,
		tags, l.TagCount,
		trendToString(l.FVBTrend), trendToString(l.HGSTrend), trendToString(l.RRSTrend),
		l.Alerts.IsOverheat, l.Alerts.IsTargetZone, l.Alerts.IsTurnaround, l.Alerts.IsHighGrowth, l.Alerts.IsHealthy,
	)
	if err != nil {
		return fmt.Errorf("upsert consensus diff log: %w", err)
	}
	return nil
}

// Get retrieves the record for the natural key. Returns ErrNotFound if not exists.
func (s *ConsensusDiffLogStore) Get(ctx context.Context, key domain.MetricKey) (*domain.ConsensusDiffLog, error) {
	query := `
		SELECT ` + diffLogColumns + `
		FROM consensus_diff_log
		WHERE snapshot_date = $1 AND ticker = $2 AND company_id = $3
			AND target_y1 = $4 AND target_y2 = $5
	`

	row := s.pool.QueryRow(ctx, query,
		key.SnapshotDate, key.Ticker, key.CompanyID, key.TargetY1, key.TargetY2,
	)
	l, err := scanDiffLog(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get consensus diff log: %w", err)
	}
	return l, nil
}

// GetBySnapshotDate retrieves all records for a snapshot date, ordered by ticker ASC.
func (s *ConsensusDiffLogStore) GetBySnapshotDate(ctx context.Context, date time.Time) ([]*domain.ConsensusDiffLog, error) {
	query := `
		SELECT ` + diffLogColumns + `
		FROM consensus_diff_log
		WHERE snapshot_date = $1
		ORDER BY ticker ASC, target_y1 ASC
	`

	rows, err := s.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("get consensus diff logs by snapshot date: %w", err)
	}
	defer rows.Close()

	var logs []*domain.ConsensusDiffLog
	for rows.Next() {
		l, err := scanDiffLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consensus diff log row: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consensus diff log rows: %w", err)
	}

	return logs, nil
}

// scanDiffLog scans a single row into a ConsensusDiffLog.
func scanDiffLog(row pgx.Row) (*domain.ConsensusDiffLog, error) {
	var (
		l        domain.ConsensusDiffLog
		tags     []string
		fvbTrend *string
		hgsTrend *string
		rrsTrend *string
	)

	err := row.Scan(
		&l.SnapshotDate, &l.Ticker, &l.CompanyID, &l.TargetY1, &l.TargetY2,
		&l.D1.FVBDiff, &l.D1.HGSDiff, &l.D1.RRSDiff, &l.D1.QuadShift,
		&l.W1.FVBDiff, &l.W1.HGSDiff, &l.W1.RRSDiff, &l.W1.QuadShift,
		&l.M1.FVBDiff, &l.M1.HGSDiff, &l.M1.RRSDiff, &l.M1.QuadShift,
		&tags, &l.TagCount,
		&fvbTrend, &hgsTrend, &rrsTrend,
		&l.Alerts.IsOverheat, &l.Alerts.IsTargetZone, &l.Alerts.IsTurnaround, &l.Alerts.IsHighGrowth, &l.Alerts.IsHealthy,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(tags) > 0 {
		l.SignalTags = make([]domain.SignalTag, len(tags))
		for i, tag := range tags {
			l.SignalTags[i] = domain.SignalTag(tag)
		}
	}
	l.FVBTrend = trendFromString(fvbTrend)
	l.HGSTrend = trendFromString(hgsTrend)
	l.RRSTrend = trendFromString(rrsTrend)
	l.SnapshotDate = l.SnapshotDate.UTC()

	return &l, nil
}

func trendToString(t *domain.TrendDirection) *string {
	if t == nil {
		return nil
	}
	v := string(*t)
	return &v
}

func trendFromString(s *string) *domain.TrendDirection {
	if s == nil {
		return nil
	}
	v := domain.TrendDirection(*s)
	return &v
}
