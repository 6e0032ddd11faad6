package memory

import (
	"context"
	"sync"

	id "residency/pkg/domain"
	audit "residency/pkg/platform/audit"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.CitizenID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.CitizenID][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.CitizenID][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.CitizenID] = append(s.events[event.CitizenID], event)
	return nil
}

// ListByCitizen returns the citizen's events, oldest first.
func (s *InMemoryStore) ListByCitizen(_ context.Context, citizenID id.CitizenID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[citizenID]...), nil
}
