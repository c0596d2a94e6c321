package invitations

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ticketflow/internal/shared/apperrors"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository for tests and local runs.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[uuid.UUID]Invitation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[uuid.UUID]Invitation)}
}

func (r *MemoryRepository) Create(_ context.Context, inv *Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	inv.UpdatedAt = inv.CreatedAt
	r.items[inv.ID] = *inv
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("invitation %s: %w", id, apperrors.ErrNotFound)
	}
	return &inv, nil
}

func (r *MemoryRepository) List(_ context.Context, creatorID uuid.UUID, page, limit int) ([]Invitation, int64, error) {
	r.mu.Lock()
	var all []Invitation
	for _, inv := range r.items {
		if creatorID == uuid.Nil || inv.CreatorID == creatorID {
			all = append(all, inv)
		}
	}
	r.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
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
	inv, ok := r.items[id]
	if !ok || inv.Status != StatusActive {
		return false, nil
	}
	inv.Status = StatusUsed
	inv.RedeemedAt = &at
	inv.RedeemedBy = &staffID
	inv.UpdatedAt = at
	r.items[id] = inv
	return true, nil
}
