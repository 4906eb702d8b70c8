package memory

import (
	"context"
	"sync"

	"equity-consensus-lab/internal/storage"
)

// BatchProgressStore is an in-memory implementation of storage.BatchProgressStore.
type BatchProgressStore struct {
	mu   sync.RWMutex
	data map[string]*storage.BatchProgress // keyed by job name, latest only
}

// NewBatchProgressStore creates a new in-memory batch progress store.
func NewBatchProgressStore() *BatchProgressStore {
	return &BatchProgressStore{
		data: make(map[string]*storage.BatchProgress),
	}
}

// Compile-time interface check.
var _ storage.BatchProgressStore = (*BatchProgressStore)(nil)

// GetLatest returns the most recent progress record for a job.
func (s *BatchProgressStore) GetLatest(_ context.Context, jobName string) (*storage.BatchProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[jobName]
	if !exists {
		return nil, storage.ErrNotFound
	}

	progressCopy := *p
	return &progressCopy, nil
}

// Record saves a completed run, superseding any earlier record with an
// older or equal snapshot date.
func (s *BatchProgressStore) Record(_ context.Context, p *storage.BatchProgress) error {
	if p == nil || p.JobName == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, exists := s.data[p.JobName]; exists && current.SnapshotDate.After(p.SnapshotDate) {
		// Keep the newer snapshot as latest
		return nil
	}

	progressCopy := *p
	s.data[p.JobName] = &progressCopy
	return nil
}
