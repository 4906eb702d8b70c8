package memory

import (
	"context"
	"sort"
	"sync"

	"equity-consensus-lab/internal/domain"
	"equity-consensus-lab/internal/storage"
)

// CompanyStore is an in-memory implementation of storage.CompanyStore.
type CompanyStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Company // keyed by company_id
}

// NewCompanyStore creates a new in-memory company store.
func NewCompanyStore() *CompanyStore {
	return &CompanyStore{
		data: make(map[string]*domain.Company),
	}
}

// Compile-time interface check.
var _ storage.CompanyStore = (*CompanyStore)(nil)

// Insert adds a new company. Returns ErrDuplicateKey if company_id exists.
func (s *CompanyStore) Insert(_ context.Context, c *domain.Company) error {
	if c == nil || c.CompanyID == "" || c.Ticker == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.CompanyID]; exists {
		return storage.ErrDuplicateKey
	}

	companyCopy := *c
	s.data[c.CompanyID] = &companyCopy
	return nil
}

// GetByID retrieves a company by its ID. Returns ErrNotFound if not exists.
func (s *CompanyStore) GetByID(_ context.Context, companyID string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[companyID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	companyCopy := *c
	return &companyCopy, nil
}

// GetByTicker retrieves a company by ticker. Returns ErrNotFound if not exists.
func (s *CompanyStore) GetByTicker(_ context.Context, ticker string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.data {
		if c.Ticker == ticker {
			companyCopy := *c
			return &companyCopy, nil
		}
	}
	return nil, storage.ErrNotFound
}

// GetActive retrieves all active companies, ordered by ticker ASC.
func (s *CompanyStore) GetActive(_ context.Context) ([]*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Company
	for _, c := range s.data {
		if c.Active {
			companyCopy := *c
			result = append(result, &companyCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Ticker < result[j].Ticker
	})

	return result, nil
}
