package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/storage"
)

// ConsensusMetricStore is an in-memory implementation of storage.ConsensusMetricStore.
type ConsensusMetricStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ConsensusMetricDaily // keyed by natural key
}

// NewConsensusMetricStore creates a new in-memory consensus metric store.
func NewConsensusMetricStore() *ConsensusMetricStore {
	return &ConsensusMetricStore{
		data: make(map[string]*domain.ConsensusMetricDaily),
	}
}

// Compile-time interface check.
var _ storage.ConsensusMetricStore = (*ConsensusMetricStore)(nil)

// Upsert inserts or replaces the row for its natural key.
func (s *ConsensusMetricStore) Upsert(_ context.Context, m *domain.ConsensusMetricDaily) error {
	if m == nil || m.Ticker == "" || m.CompanyID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rowCopy := *m
	s.data[metricKey(m.SnapshotDate, m.Ticker, m.CompanyID, m.TargetY1, m.TargetY2)] = &rowCopy
	return nil
}

// Get retrieves the row for the natural key. Returns ErrNotFound if not exists.
func (s *ConsensusMetricStore) Get(_ context.Context, key domain.MetricKey) (*domain.ConsensusMetricDaily, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.data[metricKey(key.SnapshotDate, key.Ticker, key.CompanyID, key.TargetY1, key.TargetY2)]
	if !exists {
		return nil, storage.ErrNotFound
	}

	rowCopy := *m
	return &rowCopy, nil
}

// GetLatestOnOrBefore retrieves the most recent row for (ticker, year-pair)
// with snapshot_date <= date. Returns ErrNotFound if no such row exists.
func (s *ConsensusMetricStore) GetLatestOnOrBefore(_ context.Context, ticker string, targetY1, targetY2 int, date time.Time) (*domain.ConsensusMetricDaily, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *domain.ConsensusMetricDaily
	for _, m := range s.data {
		if m.Ticker != ticker || m.TargetY1 != targetY1 || m.TargetY2 != targetY2 {
			continue
		}
		if m.SnapshotDate.After(date) {
			continue
		}
		if best == nil || m.SnapshotDate.After(best.SnapshotDate) {
			best = m
		}
	}

	if best == nil {
		return nil, storage.ErrNotFound
	}
	rowCopy := *best
	return &rowCopy, nil
}

// GetBySnapshotDate retrieves all rows for a snapshot date, ordered by ticker ASC.
func (s *ConsensusMetricStore) GetBySnapshotDate(_ context.Context, date time.Time) ([]*domain.ConsensusMetricDaily, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := dateKey(date)
	var result []*domain.ConsensusMetricDaily
	for _, m := range s.data {
		if dateKey(m.SnapshotDate) == day {
			rowCopy := *m
			result = append(result, &rowCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Ticker < result[j].Ticker
	})

	return result, nil
}
