package tickets

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ticketflow/internal/shared/apperrors"

	"github.com/google/uuid"
)

// MemoryRepository is a Repository kept in process memory, with the same
// conditional update semantics as the gorm repository.
type MemoryRepository struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]Ticket
	// FailCreate, when set, is returned by Create.
	FailCreate error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tickets: make(map[uuid.UUID]Ticket)}
}

func (r *MemoryRepository) Create(_ context.Context, ticket *Ticket) error {
	if r.FailCreate != nil {
		return r.FailCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", id, apperrors.ErrNotFound)
	}
	return &t, nil
}

func (r *MemoryRepository) ListByBuyer(_ context.Context, buyerID uuid.UUID, page, limit int) ([]Ticket, int64, error) {
	return r.list(func(t Ticket) bool { return t.BuyerID == buyerID }, page, limit)
}

func (r *MemoryRepository) ListByEvent(_ context.Context, eventID uuid.UUID, page, limit int) ([]Ticket, int64, error) {
	return r.list(func(t Ticket) bool { return t.EventID == eventID }, page, limit)
}

func (r *MemoryRepository) list(match func(Ticket) bool, page, limit int) ([]Ticket, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []Ticket
	for _, t := range r.tickets {
		if match(t) {
			all = append(all, t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []Ticket{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *MemoryRepository) MarkUsed(_ context.Context, id, staffID uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok || t.Status != StatusUnused || !t.IsActive || !t.PaymentConfirmed {
		return false, nil
	}
	t.Status = StatusUsed
	t.RedeemedAt = &at
	t.RedeemedBy = &staffID
	t.UpdatedAt = at
	r.tickets[id] = t
	return true, nil
}

func (r *MemoryRepository) MarkCancelled(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok || t.Status != StatusUnused {
		return false, nil
	}
	t.Status = StatusCancelled
	t.IsActive = false
	t.CancelledAt = &at
	t.UpdatedAt = at
	r.tickets[id] = t
	return true, nil
}

// Put stores t as is.
func (r *MemoryRepository) Put(t Ticket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[t.ID] = t
}

// Len reports the number of stored tickets.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickets)
}
