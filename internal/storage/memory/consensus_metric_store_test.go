package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/storage"
)

func f(v float64) *float64 {
	return &v
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func metricRow(date time.Time, ticker string, fvb float64) *domain.ConsensusMetricDaily {
	quad := domain.QuadGrowthDerating
	return &domain.ConsensusMetricDaily{
		SnapshotDate: date,
		Ticker:       ticker,
		CompanyID:    "C-" + ticker,
		TargetY1:     2026,
		TargetY2:     2027,
		CalcStatus:   domain.StatusNormal,
		EPSGrowthPct: f(50),
		PERGrowthPct: f(-20),
		FVBScore:     f(fvb),
		HGSScore:     f(50),
		RRSScore:     f(-70),
		QuadX:        f(50),
		QuadY:        f(-20),
		QuadPosition: &quad,
	}
}

func TestConsensusMetricStore_UpsertAndGet(t *testing.T) {
	store := NewConsensusMetricStore()
	ctx := context.Background()

	m := metricRow(day(2026, 8, 31), "ALPHA", 0.6286)
	if err := store.Upsert(ctx, m); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, m.Key())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Ticker != "ALPHA" || *got.FVBScore != 0.6286 {
		t.Errorf("unexpected row: %+v", got)
	}
}

func TestConsensusMetricStore_UpsertIsIdempotent(t *testing.T) {
	store := NewConsensusMetricStore()
	ctx := context.Background()

	m := metricRow(day(2026, 8, 31), "ALPHA", 0.5)
	if err := store.Upsert(ctx, m); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}

	// Same key, new values: must replace, not error
	m2 := metricRow(day(2026, 8, 31), "ALPHA", 0.7)
	if err := store.Upsert(ctx, m2); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, m.Key())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if *got.FVBScore != 0.7 {
		t.Errorf("expected replaced fvb 0.7, got %f", *got.FVBScore)
	}
}

func TestConsensusMetricStore_GetNotFound(t *testing.T) {
	store := NewConsensusMetricStore()

	_, err := store.Get(context.Background(), domain.MetricKey{
		SnapshotDate: day(2026, 8, 31),
		Ticker:       "GHOST",
		CompanyID:    "C-GHOST",
		TargetY1:     2026,
		TargetY2:     2027,
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConsensusMetricStore_GetLatestOnOrBefore(t *testing.T) {
	store := NewConsensusMetricStore()
	ctx := context.Background()

	for _, d := range []time.Time{day(2026, 8, 1), day(2026, 8, 15), day(2026, 8, 31)} {
		if err := store.Upsert(ctx, metricRow(d, "ALPHA", 0.5)); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	// Exact hit
	got, err := store.GetLatestOnOrBefore(ctx, "ALPHA", 2026, 2027, day(2026, 8, 15))
	if err != nil {
		t.Fatalf("GetLatestOnOrBefore failed: %v", err)
	}
	if !got.SnapshotDate.Equal(day(2026, 8, 15)) {
		t.Errorf("expected 2026-08-15, got %s", got.SnapshotDate)
	}

	// Between snapshots: closest earlier one wins
	got, err = store.GetLatestOnOrBefore(ctx, "ALPHA", 2026, 2027, day(2026, 8, 20))
	if err != nil {
		t.Fatalf("GetLatestOnOrBefore failed: %v", err)
	}
	if !got.SnapshotDate.Equal(day(2026, 8, 15)) {
		t.Errorf("expected 2026-08-15, got %s", got.SnapshotDate)
	}

	// Before all snapshots
	_, err = store.GetLatestOnOrBefore(ctx, "ALPHA", 2026, 2027, day(2026, 7, 1))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Different year pair is a different series
	_, err = store.GetLatestOnOrBefore(ctx, "ALPHA", 2027, 2028, day(2026, 8, 31))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for other year pair, got %v", err)
	}
}

func TestConsensusMetricStore_GetBySnapshotDate(t *testing.T) {
	store := NewConsensusMetricStore()
	ctx := context.Background()

	_ = store.Upsert(ctx, metricRow(day(2026, 8, 31), "BETA", 0.1))
	_ = store.Upsert(ctx, metricRow(day(2026, 8, 31), "ALPHA", 0.2))
	_ = store.Upsert(ctx, metricRow(day(2026, 8, 30), "GAMMA", 0.3))

	rows, err := store.GetBySnapshotDate(ctx, day(2026, 8, 31))
	if err != nil {
		t.Fatalf("GetBySnapshotDate failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Ticker != "ALPHA" || rows[1].Ticker != "BETA" {
		t.Errorf("expected ticker ASC order, got %s, %s", rows[0].Ticker, rows[1].Ticker)
	}
}

func TestConsensusMetricStore_ConcurrentUpserts(t *testing.T) {
	store := NewConsensusMetricStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			row := metricRow(day(2026, 8, 1+n), "ALPHA", 0.5)
			if err := store.Upsert(ctx, row); err != nil {
				t.Errorf("Upsert failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := store.GetLatestOnOrBefore(ctx, "ALPHA", 2026, 2027, day(2026, 12, 31))
	if err != nil {
		t.Fatalf("GetLatestOnOrBefore failed: %v", err)
	}
	if !got.SnapshotDate.Equal(day(2026, 8, 10)) {
		t.Errorf("expected latest 2026-08-10, got %s", got.SnapshotDate)
	}
}
