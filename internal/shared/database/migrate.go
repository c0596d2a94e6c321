package database

import (
	"ticketflow/internal/cancellation"
	"ticketflow/internal/events"
	"ticketflow/internal/invitations"
	"ticketflow/internal/tickets"
	"ticketflow/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&tickets.Ticket{},
		&invitations.Invitation{},
		&cancellation.Cancellation{},
	)
}
