package testutil

import (
	"context"
	"sync"

	ierr "github.com/garagebill/garagebill/internal/errors"
	"github.com/garagebill/garagebill/internal/types"
)

// InMemoryRecordStore implements invoice.RecordSource for tests and local
// runs.
type InMemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string]types.Record
}

func NewInMemoryRecordStore() *InMemoryRecordStore {
	return &InMemoryRecordStore{
		records: make(map[string]types.Record),
	}
}

func (s *InMemoryRecordStore) Add(id string, rec types.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = rec
}

func (s *InMemoryRecordStore) FetchByID(_ context.Context, id string) (types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ierr.NewError("record not found").
			WithHintf("No appointment found for reference %s", id).
			Mark(ierr.ErrRecordNotFound)
	}
	return rec, nil
}

func (s *InMemoryRecordStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]types.Record)
}
