package invitations

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
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	// List returns invitations of creatorID, or all of them for uuid.Nil.
	List(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]Invitation, int64, error)
	// MarkUsed flips an active invitation to used. It reports false when
	// the invitation was not active.
	MarkUsed(ctx context.Context, id, staffID uuid.UUID, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, inv *Invitation) error {
	if err := dbtx.Conn(ctx, r.db).Create(inv).Error; err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Invitation, error) {
	var inv Invitation
	if err := dbtx.Conn(ctx, r.db).Where("id = ?", id).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invitation %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	return &inv, nil
}

func (r *repository) List(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]Invitation, int64, error) {
	var list []Invitation
	var total int64

	db := dbtx.Conn(ctx, r.db).Model(&Invitation{})
	if creatorID != uuid.Nil {
		db = db.Where("creator_id = ?", creatorID)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invitations: %w", err)
	}
	err := db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invitations: %w", err)
	}
	return list, total, nil
}

func (r *repository) MarkUsed(ctx context.Context, id, staffID uuid.UUID, at time.Time) (bool, error) {
	res := dbtx.Conn(ctx, r.db).Model(&Invitation{}).
		Where("id = ? AND status = ?", id, StatusActive).
		Updates(map[string]interface{}{
			"status":      StatusUsed,
			"redeemed_at": at,
			"redeemed_by": staffID,
			"updated_at":  at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to redeem invitation: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
