package storage

import (
	"context"
	"time"
)

// BatchProgress records the outcome of the most recent batch run per job.
// Enables resumption and skip-if-done checks after restarts.
type BatchProgress struct {
	JobName      string    // e.g. "consensus-daily"
	SnapshotDate time.Time // last completed snapshot date

	CompaniesProcessed int
	MetricsUpserted    int
	DiffLogsUpserted   int
	ErrorCount         int

	CompletedAt time.Time
}

// BatchProgressStore provides persistence for batch run state.
type BatchProgressStore interface {
	// GetLatest returns the most recent progress record for a job.
	// Returns ErrNotFound if the job has never completed.
	GetLatest(ctx context.Context, jobName string) (*BatchProgress, error)

	// Record saves a completed run. Later records supersede earlier ones
	// for the same (job, snapshot date).
	Record(ctx context.Context, p *BatchProgress) error
}
