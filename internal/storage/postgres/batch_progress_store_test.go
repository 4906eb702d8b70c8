package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equity-consensus-lab/internal/storage"
)

func TestBatchProgressStore_RecordAndGetLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBatchProgressStore(pool)

	err := store.Record(ctx, &storage.BatchProgress{
		JobName:            "consensus-daily",
		SnapshotDate:       pgDay(2026, 8, 30),
		CompaniesProcessed: 120,
		MetricsUpserted:    118,
		DiffLogsUpserted:   118,
		ErrorCount:         2,
	})
	require.NoError(t, err)

	err = store.Record(ctx, &storage.BatchProgress{
		JobName:            "consensus-daily",
		SnapshotDate:       pgDay(2026, 8, 31),
		CompaniesProcessed: 121,
		MetricsUpserted:    121,
		DiffLogsUpserted:   121,
	})
	require.NoError(t, err)

	got, err := store.GetLatest(ctx, "consensus-daily")
	require.NoError(t, err)
	assert.Equal(t, pgDay(2026, 8, 31), got.SnapshotDate)
	assert.Equal(t, 121, got.CompaniesProcessed)
	assert.Equal(t, 0, got.ErrorCount)
	assert.False(t, got.CompletedAt.IsZero())
}

func TestBatchProgressStore_RerunSameDateReplaces(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBatchProgressStore(pool)

	require.NoError(t, store.Record(ctx, &storage.BatchProgress{
		JobName:         "consensus-daily",
		SnapshotDate:    pgDay(2026, 8, 31),
		MetricsUpserted: 10,
		ErrorCount:      5,
	}))

	// Re-running the same snapshot date upserts in place
	require.NoError(t, store.Record(ctx, &storage.BatchProgress{
		JobName:         "consensus-daily",
		SnapshotDate:    pgDay(2026, 8, 31),
		MetricsUpserted: 15,
		ErrorCount:      0,
	}))

	got, err := store.GetLatest(ctx, "consensus-daily")
	require.NoError(t, err)
	assert.Equal(t, 15, got.MetricsUpserted)
	assert.Equal(t, 0, got.ErrorCount)
}

func TestBatchProgressStore_GetLatestNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBatchProgressStore(pool)
	_, err := store.GetLatest(context.Background(), "never-ran")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBatchProgressStore_JobsAreIndependent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBatchProgressStore(pool)

	require.NoError(t, store.Record(ctx, &storage.BatchProgress{
		JobName:      "consensus-daily",
		SnapshotDate: pgDay(2026, 8, 31),
	}))
	require.NoError(t, store.Record(ctx, &storage.BatchProgress{
		JobName:      "history-backfill",
		SnapshotDate: pgDay(2026, 8, 15),
	}))

	got, err := store.GetLatest(ctx, "history-backfill")
	require.NoError(t, err)
	assert.Equal(t, pgDay(2026, 8, 15), got.SnapshotDate)
}

func TestBatchProgressStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBatchProgressStore(pool)

	err := store.Record(ctx, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	_, err = store.GetLatest(ctx, "")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
