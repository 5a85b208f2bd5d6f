package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/beetflow/pkg/domain"
)

// Store implements ports.TraceStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Trace
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Trace),
	}
}

// Save persists the trace in memory.
func (s *Store) Save(ctx context.Context, trace *domain.Trace) error {
	if trace.ID == "" {
		return fmt.Errorf("trace ID cannot be empty")
	}
	// Copy to ensure isolation, similar to serialization
	copied := *trace
	copied.Events = slices.Clone(trace.Events)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[trace.ID] = &copied
	return nil
}

// Load retrieves the trace from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trace, ok := s.data[id]
	if !ok {
		return nil, domain.ErrTraceNotFound
	}

	// Copy on read so callers can't mutate the stored trace
	ret := *trace
	ret.Events = slices.Clone(trace.Events)
	return &ret, nil
}

// Delete removes the trace.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored trace IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
