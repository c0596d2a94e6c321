package inventory

import (
	"context"
	"fmt"
	"sync"

	"ticketflow/internal/shared/apperrors"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store with one mutex per event. It backs
// tests and local tooling that run without PostgreSQL.
type MemoryStore struct {
	mu     sync.Mutex
	events map[uuid.UUID]*memoryRow
}

type memoryRow struct {
	mu sync.Mutex
	c  Capacity
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[uuid.UUID]*memoryRow)}
}

// Put registers or replaces the capacity of an event.
func (s *MemoryStore) Put(c Capacity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[c.EventID] = &memoryRow{c: c}
}

// Get returns the current capacity of an event.
func (s *MemoryStore) Get(eventID uuid.UUID) (Capacity, bool) {
	s.mu.Lock()
	row, ok := s.events[eventID]
	s.mu.Unlock()
	if !ok {
		return Capacity{}, false
	}
	row.mu.Lock()
	defer row.mu.Unlock()
	return row.c, true
}

// Remove drops an event.
func (s *MemoryStore) Remove(eventID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, eventID)
}

func (s *MemoryStore) Mutate(_ context.Context, eventID uuid.UUID, fn func(c *Capacity) error) (Capacity, error) {
	s.mu.Lock()
	row, ok := s.events[eventID]
	s.mu.Unlock()
	if !ok {
		return Capacity{}, fmt.Errorf("event %s: %w", eventID, apperrors.ErrNotFound)
	}

	row.mu.Lock()
	defer row.mu.Unlock()

	next := row.c
	if err := fn(&next); err != nil {
		return Capacity{}, err
	}
	if next.TicketsAvailable < 0 || next.TicketsAvailable > next.TotalTickets {
		return Capacity{}, fmt.Errorf("capacity %d/%d out of bounds: %w",
			next.TicketsAvailable, next.TotalTickets, apperrors.ErrInvalidCapacity)
	}
	row.c = next
	return next, nil
}
