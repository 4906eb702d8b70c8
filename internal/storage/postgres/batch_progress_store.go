package postgres

import (
	"context"
	"fmt"

	"equity-consensus-lab/internal/storage"
)

// BatchProgressStore implements storage.BatchProgressStore using PostgreSQL.
type BatchProgressStore struct {
	pool *Pool
}

// NewBatchProgressStore creates a new BatchProgressStore.
func NewBatchProgressStore(pool *Pool) *BatchProgressStore {
	return &BatchProgressStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BatchProgressStore = (*BatchProgressStore)(nil)

// GetLatest returns the most recent progress record for a job.
// Returns ErrNotFound if the job has never completed.
func (s *BatchProgressStore) GetLatest(ctx context.Context, jobName string) (*storage.BatchProgress, error) {
	if jobName == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT job_name, snapshot_date, companies_processed, metrics_upserted,
			diff_logs_upserted, error_count, completed_at
		FROM batch_progress
		WHERE job_name = $1
		ORDER BY snapshot_date DESC
		LIMIT 1
	`

	var p storage.BatchProgress
	err := s.pool.QueryRow(ctx, query, jobName).Scan(
		&p.JobName, &p.SnapshotDate, &p.CompaniesProcessed, &p.MetricsUpserted,
		&p.DiffLogsUpserted, &p.ErrorCount, &p.CompletedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest batch progress: %w", err)
	}
	p.SnapshotDate = p.SnapshotDate.UTC()

	return &p, nil
}

// Record saves a completed run. Later records supersede earlier ones for the
// same (job, snapshot date).
func (s *BatchProgressStore) Record(ctx context.Context, p *storage.BatchProgress) error {
	if p == nil || p.JobName == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO batch_progress (
			job_name, snapshot_date, companies_processed, metrics_upserted,
			diff_logs_upserted, error_count
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (job_name, snapshot_date)
		DO UPDATE SET
			companies_processed = EXCLUDED.companies_processed,
			metrics_upserted = EXCLUDED.metrics_upserted,
			diff_logs_upserted = EXCLUDED.diff_logs_upserted,
			error_count = EXCLUDED.error_count,
			completed_at = NOW()
	`

	_, err := s.pool.Exec(ctx, query,
		p.JobName, p.SnapshotDate, p.CompaniesProcessed, p.MetricsUpserted,
		p.DiffLogsUpserted, p.ErrorCount,
	)
	if err != nil {
		return fmt.Errorf("record batch progress: %w", err)
	}
	return nil
}
