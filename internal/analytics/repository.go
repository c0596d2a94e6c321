package analytics

import (
	"context"
	"fmt"

	"ticketflow/internal/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	ProviderEvents(ctx context.Context, providerID uuid.UUID) ([]events.Event, error)
	EventTicketStats(ctx context.Context, eventIDs []uuid.UUID) ([]eventTicketStats, error)
	TicketStats(ctx context.Context) ([]ticketStats, error)
	InvitationCounts(ctx context.Context) (active, used int, err error)
	UserRoles(ctx context.Context) ([]roleCount, error)
	CountEvents(ctx context.Context) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ProviderEvents(ctx context.Context, providerID uuid.UUID) ([]events.Event, error) {
	var list []events.Event
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("date ASC NULLS LAST").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load provider events: %w", err)
	}
	return list, nil
}

func (r *repository) EventTicketStats(ctx context.Context, eventIDs []uuid.UUID) ([]eventTicketStats, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	var rows []eventTicketStats
	err := r.db.WithContext(ctx).Table("tickets").
		Select("event_id, status, COUNT(*) AS count, COALESCE(SUM(provider_amount), 0) AS earnings").
		Where("event_id IN ?", eventIDs).
		Group("event_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate event tickets: %w", err)
	}
	return rows, nil
}

func (r *repository) TicketStats(ctx context.Context) ([]ticketStats, error) {
	var rows []ticketStats
	err := r.db.WithContext(ctx).Table("tickets").
		Select(`status, COUNT(*) AS count,
			COALESCE(SUM(price), 0) AS price,
			COALESCE(SUM(commission_amount), 0) AS commission_amount,
			COALESCE(SUM(provider_amount), 0) AS provider_amount`).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tickets: %w", err)
	}
	return rows, nil
}

func (r *repository) InvitationCounts(ctx context.Context) (int, int, error) {
	var rows []struct {
		Status string
		Count  int
	}
	err := r.db.WithContext(ctx).Table("invitations").
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count invitations: %w", err)
	}

	var active, used int
	for _, row := range rows {
		switch row.Status {
		case "active":
			active = row.Count
		case "used":
			used = row.Count
		}
	}
	return active, used, nil
}

func (r *repository) UserRoles(ctx context.Context) ([]roleCount, error) {
	var rows []roleCount
	err := r.db.WithContext(ctx).Table("users").
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	return rows, nil
}

func (r *repository) CountEvents(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Table("events").Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return int(n), nil
}
