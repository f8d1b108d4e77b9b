package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/subset/pkg/domain"
)

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Result
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Result),
	}
}

// Save keeps a deep copy of the result.
func (s *Store) Save(_ context.Context, result *domain.Result) error {
	if result == nil {
		return fmt.Errorf("%w: nil result", domain.ErrInvalidResultID)
	}
	if err := domain.ValidateResultID(result.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[result.ID] = result.Clone()
	return nil
}

// Load returns a copy so callers cannot mutate the stored result.
func (s *Store) Load(_ context.Context, id string) (*domain.Result, error) {
	if err := domain.ValidateResultID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrResultNotFound, id)
	}
	return result.Clone(), nil
}

// Delete removes the result. Missing IDs are not an error.
func (s *Store) Delete(_ context.Context, id string) error {
	if err := domain.ValidateResultID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored result IDs, sorted.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
