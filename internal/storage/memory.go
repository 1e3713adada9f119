package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"cafe-tab/internal/domain"
	"cafe-tab/internal/projection"
)

// MemoryEventStore is an in-process event store for tests and EVENT_STORE=memory.
type MemoryEventStore struct {
	mu      sync.Mutex
	streams map[domain.TabID][]domain.Envelope
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{streams: make(map[domain.TabID][]domain.Envelope)}
}

func (s *MemoryEventStore) Load(_ context.Context, id domain.TabID) ([]domain.Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.streams[id]), nil
}

func (s *MemoryEventStore) Append(_ context.Context, id domain.TabID, expectedVersion int64, events []domain.Event) ([]domain.Envelope, error) {
	if len(events) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current := domain.LastSequence(s.streams[id])
	if current != expectedVersion {
		return nil, fmt.Errorf("tab %s at version %d, expected %d: %w", id, current, expectedVersion, ErrConcurrencyConflict)
	}
	envs, err := envelopes(id, expectedVersion, events, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.streams[id] = append(s.streams[id], envs...)
	return slices.Clone(envs), nil
}

// MemoryViewStore keeps view records in a map.
type MemoryViewStore[V any] struct {
	mu      sync.RWMutex
	records map[string]V
}

func NewMemoryViewStore[V any]() *MemoryViewStore[V] {
	return &MemoryViewStore[V]{records: make(map[string]V)}
}

func (s *MemoryViewStore[V]) Load(_ context.Context, key string) (V, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	return v, ok, nil
}

func (s *MemoryViewStore[V]) Save(_ context.Context, key string, v V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = v
	return nil
}

func (s *MemoryViewStore[V]) List(_ context.Context) ([]V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]V, 0, len(s.records))
	for _, v := range s.records {
		out = append(out, v)
	}
	return out, nil
}

func NewMemoryViews() projection.Views {
	return projection.NewViews(
		NewMemoryViewStore[projection.Record[projection.KitchenTab]](),
		NewMemoryViewStore[projection.Record[projection.WaiterTab]](),
		NewMemoryViewStore[projection.Record[projection.TabInvoice]](),
	)
}
