// Package store persists citizen verification state.
package store

import (
	"context"
	"fmt"
	"sync"

	"residency/internal/citizen/models"
	id "residency/pkg/domain"
	"residency/pkg/platform/sentinel"
)

// InMemory is a map-backed citizen store. Records are copied on the way in
// and out so callers cannot mutate stored state.
type InMemory struct {
	mu       sync.RWMutex
	citizens map[id.CitizenID]models.Citizen
}

func NewInMemory() *InMemory {
	return &InMemory{citizens: make(map[id.CitizenID]models.Citizen)}
}

func (s *InMemory) Create(_ context.Context, citizen *models.Citizen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.citizens[citizen.ID]; exists {
		return sentinel.ErrConflict
	}
	s.citizens[citizen.ID] = *citizen
	return nil
}

func (s *InMemory) FindByID(_ context.Context, citizenID id.CitizenID) (*models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.citizens[citizenID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

// UpdateVerification stores the citizen's new level only if the stored level
// may still move to it. A citizen verified by a concurrent attempt is never
// overwritten: the write fails with sentinel.ErrInvalidState.
func (s *InMemory) UpdateVerification(_ context.Context, citizen *models.Citizen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.citizens[citizen.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !stored.Level.CanTransitionTo(citizen.Level) {
		return fmt.Errorf("citizen is %s, cannot become %s: %w", stored.Level, citizen.Level, sentinel.ErrInvalidState)
	}
	s.citizens[citizen.ID] = *citizen
	return nil
}
