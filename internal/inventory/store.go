package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps capacity in the events table and serializes writers with
// SELECT ... FOR UPDATE on the event row.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

type capacityRow struct {
	ID               uuid.UUID
	TotalTickets     int
	TicketsAvailable int
}

func (s *GormStore) Mutate(ctx context.Context, eventID uuid.UUID, fn func(c *Capacity) error) (Capacity, error) {
	var result Capacity

	err := dbtx.WithTx(ctx, s.db, func(ctx context.Context) error {
		tx := dbtx.Conn(ctx, s.db)

		var row capacityRow
		err := tx.Table("events").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "total_tickets", "tickets_available").
			Where("id = ?", eventID).
			Take(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("event %s: %w", eventID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to lock event capacity: %w", err)
		}

		c := Capacity{EventID: row.ID, TotalTickets: row.TotalTickets, TicketsAvailable: row.TicketsAvailable}
		if err := fn(&c); err != nil {
			return err
		}
		if c.TicketsAvailable < 0 || c.TicketsAvailable > c.TotalTickets {
			return fmt.Errorf("capacity %d/%d out of bounds: %w",
				c.TicketsAvailable, c.TotalTickets, apperrors.ErrInvalidCapacity)
		}

		if c.TotalTickets != row.TotalTickets || c.TicketsAvailable != row.TicketsAvailable {
			err = tx.Table("events").
				Where("id = ?", eventID).
				Updates(map[string]interface{}{
					"total_tickets":     c.TotalTickets,
					"tickets_available": c.TicketsAvailable,
					"updated_at":        time.Now(),
				}).Error
			if err != nil {
				return fmt.Errorf("failed to update event capacity: %w", err)
			}
		}

		result = c
		return nil
	})
	if err != nil {
		return Capacity{}, err
	}
	return result, nil
}
