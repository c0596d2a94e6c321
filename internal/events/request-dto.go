package events

import "time"

type CreateEventRequest struct {
	Title        string     `json:"title" validate:"required,min=3,max=200"`
	Description  string     `json:"description" validate:"max=5000"`
	Date         *time.Time `json:"date"`
	Venue        string     `json:"venue" validate:"max=255"`
	TicketPrice  string     `json:"ticket_price" validate:"required,numeric"`
	TotalTickets int        `json:"total_tickets" validate:"min=0,max=1000000"`
	IsHot        bool       `json:"is_hot"`
	ImageURL     string     `json:"image_url" validate:"omitempty,url"`
}

// UpdateEventRequest changes only the fields that are set. A new
// TicketPrice applies to future sales; TotalTickets goes through the ledger.
type UpdateEventRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=5000"`
	Date         *time.Time `json:"date"`
	Venue        *string    `json:"venue" validate:"omitempty,max=255"`
	TicketPrice  *string    `json:"ticket_price" validate:"omitempty,numeric"`
	TotalTickets *int       `json:"total_tickets" validate:"omitempty,min=0,max=1000000"`
	IsHot        *bool      `json:"is_hot"`
	ImageURL     *string    `json:"image_url" validate:"omitempty,url"`
}

type EventListQuery struct {
	Page       int    `form:"page" validate:"omitempty,min=1"`
	Limit      int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Search     string `form:"search" validate:"max=100"`
	HotOnly    bool   `form:"hot"`
	ProviderID string `form:"-"`
}

func (q *EventListQuery) normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
}
