package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/storage"
)

// ConsensusDiffLogStore is an in-memory implementation of storage.ConsensusDiffLogStore.
type ConsensusDiffLogStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ConsensusDiffLog // keyed by natural key
}

// NewConsensusDiffLogStore creates a new in-memory diff log store.
func NewConsensusDiffLogStore() *ConsensusDiffLogStore {
	return &ConsensusDiffLogStore{
		data: make(map[string]*domain.ConsensusDiffLog),
	}
}

// Compile-time interface check.
var _ storage.ConsensusDiffLogStore = (*ConsensusDiffLogStore)(nil)

// Upsert inserts or replaces the record for its natural key.
func (s *ConsensusDiffLogStore) Upsert(_ context.Context, l *domain.ConsensusDiffLog) error {
	if l == nil || l.Ticker == "" || l.CompanyID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logCopy := *l
	logCopy.SignalTags = append([]domain.SignalTag(nil), l.SignalTags...)
	s.data[metricKey(l.SnapshotDate, l.Ticker, l.CompanyID, l.TargetY1, l.TargetY2)] = &logCopy
	return nil
}

// Get retrieves the record for the natural key. Returns ErrNotFound if not exists.
func (s *ConsensusDiffLogStore) Get(_ context.Context, key domain.MetricKey) (*domain.ConsensusDiffLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, exists := s.data[metricKey(key.SnapshotDate, key.Ticker, key.CompanyID, key.TargetY1, key.TargetY2)]
	if !exists {
		return nil, storage.ErrNotFound
	}

	logCopy := *l
	logCopy.SignalTags = append([]domain.SignalTag(nil), l.SignalTags...)
	return &logCopy, nil
}

// GetBySnapshotDate retrieves all records for a snapshot date, ordered by ticker ASC.
func (s *ConsensusDiffLogStore) GetBySnapshotDate(_ context.Context, date time.Time) ([]*domain.ConsensusDiffLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := dateKey(date)
	var result []*domain.ConsensusDiffLog
	for _, l := range s.data {
		if dateKey(l.SnapshotDate) == day {
			logCopy := *l
			logCopy.SignalTags = append([]domain.SignalTag(nil), l.SignalTags...)
			result = append(result, &logCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Ticker < result[j].Ticker
	})

	return result, nil
}
