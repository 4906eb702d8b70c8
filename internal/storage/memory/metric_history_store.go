package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/storage"
)

// MetricHistoryStore is an in-memory implementation of storage.MetricHistoryStore.
type MetricHistoryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ConsensusMetricDaily // keyed by natural key
}

// NewMetricHistoryStore creates a new in-memory metric history store.
func NewMetricHistoryStore() *MetricHistoryStore {
	return &MetricHistoryStore{
		data: make(map[string]*domain.ConsensusMetricDaily),
	}
}

// Compile-time interface check.
var _ storage.MetricHistoryStore = (*MetricHistoryStore)(nil)

// InsertBulk appends multiple rows. Fails entire batch on duplicate.
func (s *MetricHistoryStore) InsertBulk(_ context.Context, rows []*domain.ConsensusMetricDaily) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(rows))
	for _, m := range rows {
		if m == nil || m.Ticker == "" || m.CompanyID == "" {
			return storage.ErrInvalidInput
		}
		key := metricKey(m.SnapshotDate, m.Ticker, m.CompanyID, m.TargetY1, m.TargetY2)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, m := range rows {
		rowCopy := *m
		s.data[metricKey(m.SnapshotDate, m.Ticker, m.CompanyID, m.TargetY1, m.TargetY2)] = &rowCopy
	}
	return nil
}

// GetByTicker retrieves all history rows for (ticker, year-pair), ordered by snapshot_date ASC.
func (s *MetricHistoryStore) GetByTicker(_ context.Context, ticker string, targetY1, targetY2 int) ([]*domain.ConsensusMetricDaily, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ConsensusMetricDaily
	for _, m := range s.data {
		if m.Ticker == ticker && m.TargetY1 == targetY1 && m.TargetY2 == targetY2 {
			rowCopy := *m
			result = append(result, &rowCopy)
		}
	}

	sortHistory(result)
	return result, nil
}

// GetByTickerRange retrieves history rows within [start, end] (inclusive),
// ordered by snapshot_date ASC.
func (s *MetricHistoryStore) GetByTickerRange(_ context.Context, ticker string, targetY1, targetY2 int, start, end time.Time) ([]*domain.ConsensusMetricDaily, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ConsensusMetricDaily
	for _, m := range s.data {
		if m.Ticker != ticker || m.TargetY1 != targetY1 || m.TargetY2 != targetY2 {
			continue
		}
		if m.SnapshotDate.Before(start) || m.SnapshotDate.After(end) {
			continue
		}
		rowCopy := *m
		result = append(result, &rowCopy)
	}

	sortHistory(result)
	return result, nil
}

// sortHistory orders rows by snapshot_date ASC.
func sortHistory(rows []*domain.ConsensusMetricDaily) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].SnapshotDate.Before(rows[j].SnapshotDate)
	})
}
