package cancellation

import (
	"context"
	"fmt"

	"ticketflow/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, c *Cancellation) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Cancellation, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Cancellation) error {
	if err := dbtx.Conn(ctx, r.db).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create cancellation: %w", err)
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Cancellation, error) {
	var list []Cancellation
	err := dbtx.Conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("cancelled_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user cancellations: %w", err)
	}
	return list, nil
}
