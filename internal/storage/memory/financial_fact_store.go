package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/storage"
)

// FinancialFactStore is an in-memory implementation of storage.FinancialFactStore.
type FinancialFactStore struct {
	mu   sync.RWMutex
	data map[string]*domain.FinancialFact // keyed by (company_id, year, metric, source, as_of)
}

// NewFinancialFactStore creates a new in-memory financial fact store.
func NewFinancialFactStore() *FinancialFactStore {
	return &FinancialFactStore{
		data: make(map[string]*domain.FinancialFact),
	}
}

// Compile-time interface check.
var _ storage.FinancialFactStore = (*FinancialFactStore)(nil)

// Insert adds a new fact. Returns ErrDuplicateKey if the key exists.
func (s *FinancialFactStore) Insert(_ context.Context, f *domain.FinancialFact) error {
	if f == nil || f.CompanyID == "" || f.Ticker == "" || !f.Source.IsValid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(f)
}

// InsertBulk adds multiple facts atomically. Fails entire batch on any duplicate.
func (s *FinancialFactStore) InsertBulk(_ context.Context, fs []*domain.FinancialFact) error {
	if len(fs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: validate and detect duplicates (existing + intra-batch)
	batchKeys := make(map[string]struct{}, len(fs))
	for _, f := range fs {
		if f == nil || f.CompanyID == "" || f.Ticker == "" || !f.Source.IsValid() {
			return storage.ErrInvalidInput
		}
		key := factKey(f)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, f := range fs {
		factCopy := *f
		s.data[factKey(f)] = &factCopy
	}
	return nil
}

func (s *FinancialFactStore) insertLocked(f *domain.FinancialFact) error {
	key := factKey(f)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}
	factCopy := *f
	s.data[key] = &factCopy
	return nil
}

// GetByYears retrieves all facts for the given fiscal years with as_of <= asOf.
func (s *FinancialFactStore) GetByYears(_ context.Context, y1, y2 int, asOf time.Time) ([]*domain.FinancialFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FinancialFact
	for _, f := range s.data {
		if (f.FiscalYear == y1 || f.FiscalYear == y2) && !f.AsOf.After(asOf) {
			factCopy := *f
			result = append(result, &factCopy)
		}
	}

	sortFacts(result)
	return result, nil
}

// GetByCompany retrieves all facts for a company, ordered by fiscal_year ASC, as_of ASC.
func (s *FinancialFactStore) GetByCompany(_ context.Context, companyID string) ([]*domain.FinancialFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FinancialFact
	for _, f := range s.data {
		if f.CompanyID == companyID {
			factCopy := *f
			result = append(result, &factCopy)
		}
	}

	sortFacts(result)
	return result, nil
}

// sortFacts orders facts deterministically for stable reads.
func sortFacts(fs []*domain.FinancialFact) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Ticker != fs[j].Ticker {
			return fs[i].Ticker < fs[j].Ticker
		}
		if fs[i].FiscalYear != fs[j].FiscalYear {
			return fs[i].FiscalYear < fs[j].FiscalYear
		}
		if fs[i].Metric != fs[j].Metric {
			return fs[i].Metric < fs[j].Metric
		}
		return fs[i].AsOf.Before(fs[j].AsOf)
	})
}
