package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, ticket *Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, page, limit int) ([]Ticket, int64, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, page, limit int) ([]Ticket, int64, error)

	// MarkUsed moves an unused, active, paid ticket to used. It reports false
	// when the row did not match, in which case the caller reloads and
	// classifies the ticket.
	MarkUsed(ctx context.Context, id, staffID uuid.UUID, at time.Time) (bool, error)
	// MarkCancelled moves an unused ticket to cancelled and deactivates it.
	MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ticket *Ticket) error {
	if err := dbtx.Conn(ctx, r.db).Omit("Event").Create(ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("event %s: %w", ticket.EventID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := dbtx.Conn(ctx, r.db).Preload("Event").Where("id = ?", id).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ticket %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	return &ticket, nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, page, limit int) ([]Ticket, int64, error) {
	return r.list(ctx, "buyer_id = ?", buyerID, page, limit)
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID, page, limit int) ([]Ticket, int64, error) {
	return r.list(ctx, "event_id = ?", eventID, page, limit)
}

func (r *repository) list(ctx context.Context, where string, arg interface{}, page, limit int) ([]Ticket, int64, error) {
	var tickets []Ticket
	var total int64

	db := dbtx.Conn(ctx, r.db).Model(&Ticket{}).Where(where, arg)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	err := db.Preload("Event").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&tickets).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, total, nil
}

func (r *repository) MarkUsed(ctx context.Context, id, staffID uuid.UUID, at time.Time) (bool, error) {
	res := dbtx.Conn(ctx, r.db).Model(&Ticket{}).
		Where("id = ? AND status = ? AND is_active = ? AND payment_confirmed = ?", id, StatusUnused, true, true).
		Updates(map[string]interface{}{
			"status":      StatusUsed,
			"redeemed_at": at,
			"redeemed_by": staffID,
			"updated_at":  at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark ticket used: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := dbtx.Conn(ctx, r.db).Model(&Ticket{}).
		Where("id = ? AND status = ?", id, StatusUnused).
		Updates(map[string]interface{}{
			"status":       StatusCancelled,
			"is_active":    false,
			"cancelled_at": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to cancel ticket: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
