package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	List(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	// DeleteCascade locks the event, collects the artifact references of its
	// tickets and deletes tickets and event in one transaction.
	DeleteCascade(ctx context.Context, id uuid.UUID) (refs []string, ticketsDeleted int64, err error)
}

// capacity columns belong to the inventory ledger
var ledgerColumns = []string{"total_tickets", "tickets_available"}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	if err := dbtx.Conn(ctx, r.db).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := dbtx.Conn(ctx, r.db).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	db := dbtx.Conn(ctx, r.db).Model(&Event{})

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(venue) LIKE ?", searchTerm, searchTerm)
	}
	if query.HotOnly {
		db = db.Where("is_hot = ?", true)
	}
	if query.ProviderID != "" {
		db = db.Where("provider_id = ?", query.ProviderID)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	offset := (query.Page - 1) * query.Limit
	err := db.Order("date ASC NULLS LAST").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	return events, totalCount, nil
}

func (r *repository) UpdateDetails(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	for _, col := range ledgerColumns {
		delete(updates, col)
	}
	if len(updates) == 0 {
		return nil
	}

	res := dbtx.Conn(ctx, r.db).Model(&Event{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *repository) DeleteCascade(ctx context.Context, id uuid.UUID) ([]string, int64, error) {
	var refs []string
	var deleted int64

	err := dbtx.WithTx(ctx, r.db, func(ctx context.Context) error {
		tx := dbtx.Conn(ctx, r.db)

		// Serialize with ledger writers so no booking lands mid-delete
		var event Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", id).
			Take(&event).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("event %s: %w", id, apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to lock event: %w", err)
		}

		type artifactRow struct {
			QRCodeRef   string
			DocumentRef string
		}
		var rows []artifactRow
		err = tx.Table("tickets").
			Select("qr_code_ref", "document_ref").
			Where("event_id = ?", id).
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to collect ticket artifacts: %w", err)
		}
		for _, row := range rows {
			if row.QRCodeRef != "" {
				refs = append(refs, row.QRCodeRef)
			}
			if row.DocumentRef != "" {
				refs = append(refs, row.DocumentRef)
			}
		}

		res := tx.Exec("DELETE FROM tickets WHERE event_id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete tickets: %w", res.Error)
		}
		deleted = res.RowsAffected

		if err := tx.Where("id = ?", id).Delete(&Event{}).Error; err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return refs, deleted, nil
}
