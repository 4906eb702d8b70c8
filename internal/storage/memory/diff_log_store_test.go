package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/storage"
)

func diffLog(date time.Time, ticker string, tags ...domain.SignalTag) *domain.ConsensusDiffLog {
	return &domain.ConsensusDiffLog{
		SnapshotDate: date,
		Ticker:       ticker,
		CompanyID:    "C-" + ticker,
		TargetY1:     2026,
		TargetY2:     2027,
		SignalTags:   tags,
		TagCount:     len(tags),
	}
}

func TestConsensusDiffLogStore_UpsertAndGet(t *testing.T) {
	store := NewConsensusDiffLogStore()
	ctx := context.Background()

	l := diffLog(day(2026, 8, 31), "ALPHA", domain.TagHealthyDerating)
	l.M1.FVBDiff = f(0.2)
	if err := store.Upsert(ctx, l); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, domain.MetricKey{
		SnapshotDate: day(2026, 8, 31),
		Ticker:       "ALPHA",
		CompanyID:    "C-ALPHA",
		TargetY1:     2026,
		TargetY2:     2027,
	})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.TagCount != 1 || got.SignalTags[0] != domain.TagHealthyDerating {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.M1.FVBDiff == nil || *got.M1.FVBDiff != 0.2 {
		t.Errorf("unexpected monthly diff: %v", got.M1.FVBDiff)
	}
}

func TestConsensusDiffLogStore_UpsertReplaces(t *testing.T) {
	store := NewConsensusDiffLogStore()
	ctx := context.Background()

	_ = store.Upsert(ctx, diffLog(day(2026, 8, 31), "ALPHA", domain.TagOverheat))
	_ = store.Upsert(ctx, diffLog(day(2026, 8, 31), "ALPHA", domain.TagHealthyDerating, domain.TagHighGrowth))

	got, err := store.Get(ctx, domain.MetricKey{
		SnapshotDate: day(2026, 8, 31),
		Ticker:       "ALPHA",
		CompanyID:    "C-ALPHA",
		TargetY1:     2026,
		TargetY2:     2027,
	})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.TagCount != 2 {
		t.Errorf("expected replaced record with 2 tags, got %d", got.TagCount)
	}
}

func TestConsensusDiffLogStore_GetNotFound(t *testing.T) {
	store := NewConsensusDiffLogStore()

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

func TestConsensusDiffLogStore_GetBySnapshotDate(t *testing.T) {
	store := NewConsensusDiffLogStore()
	ctx := context.Background()

	_ = store.Upsert(ctx, diffLog(day(2026, 8, 31), "BETA"))
	_ = store.Upsert(ctx, diffLog(day(2026, 8, 31), "ALPHA"))
	_ = store.Upsert(ctx, diffLog(day(2026, 8, 30), "ALPHA"))

	logs, err := store.GetBySnapshotDate(ctx, day(2026, 8, 31))
	if err != nil {
		t.Fatalf("GetBySnapshotDate failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(logs))
	}
	if logs[0].Ticker != "ALPHA" || logs[1].Ticker != "BETA" {
		t.Errorf("expected ticker ASC order, got %s, %s", logs[0].Ticker, logs[1].Ticker)
	}
}

func TestConsensusDiffLogStore_CopiesTagSlice(t *testing.T) {
	store := NewConsensusDiffLogStore()
	ctx := context.Background()

	l := diffLog(day(2026, 8, 31), "ALPHA", domain.TagOverheat)
	_ = store.Upsert(ctx, l)

	// Mutating the caller's slice must not affect the stored record
	l.SignalTags[0] = domain.TagHighGrowth

	got, _ := store.Get(ctx, domain.MetricKey{
		SnapshotDate: day(2026, 8, 31),
		Ticker:       "ALPHA",
		CompanyID:    "C-ALPHA",
		TargetY1:     2026,
		TargetY2:     2027,
	})
	if got.SignalTags[0] != domain.TagOverheat {
		t.Error("stored record must not share the caller's tag slice")
	}
}
