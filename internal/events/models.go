package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is a listed occasion with a finite ticket pool.
// TotalTickets and TicketsAvailable are written only through the inventory ledger.
type Event struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title            string          `json:"title" gorm:"not null;size:200"`
	Description      string          `json:"description" gorm:"type:text"`
	Date             *time.Time      `json:"date" gorm:"index"`
	Venue            string          `json:"venue" gorm:"size:255"`
	TicketPrice      decimal.Decimal `json:"ticket_price" gorm:"type:numeric(10,2);not null;default:0"`
	TotalTickets     int             `json:"total_tickets" gorm:"not null;default:0"`
	TicketsAvailable int             `json:"tickets_available" gorm:"not null;default:0"`
	IsHot            bool            `json:"is_hot" gorm:"default:false"`
	ImageURL         string          `json:"image_url" gorm:"size:500"`
	ProviderID       uuid.UUID       `json:"provider_id" gorm:"type:uuid;not null;index"`
	CreatedAt        time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:               e.ID.String(),
		Title:            e.Title,
		Description:      e.Description,
		Date:             e.Date,
		Venue:            e.Venue,
		TicketPrice:      e.TicketPrice.StringFixed(2),
		TotalTickets:     e.TotalTickets,
		TicketsAvailable: e.TicketsAvailable,
		TicketsSold:      e.TotalTickets - e.TicketsAvailable,
		IsHot:            e.IsHot,
		ImageURL:         e.ImageURL,
		ProviderID:       e.ProviderID.String(),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
