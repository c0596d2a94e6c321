package cancellation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusProcessed Status = "PROCESSED"
)

// Cancellation is the audit record of a ticket cancelled after sale.
type Cancellation struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TicketID        uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"ticket_id"`
	EventID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"event_id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Reason          string          `gorm:"size:500" json:"reason"`
	CancellationFee decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"cancellation_fee"`
	RefundAmount    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"refund_amount"`
	Status          Status          `gorm:"type:varchar(20);not null;default:'PROCESSED'" json:"status"`
	CancelledAt     time.Time       `gorm:"not null" json:"cancelled_at"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (Cancellation) TableName() string {
	return "cancellations"
}

type CancelTicketRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type CancellationResponse struct {
	ID              string    `json:"id"`
	TicketID        string    `json:"ticket_id"`
	EventID         string    `json:"event_id"`
	Reason          string    `json:"reason,omitempty"`
	CancellationFee string    `json:"cancellation_fee"`
	RefundAmount    string    `json:"refund_amount"`
	Status          Status    `json:"status"`
	CancelledAt     time.Time `json:"cancelled_at"`
}

func (c *Cancellation) ToResponse() CancellationResponse {
	return CancellationResponse{
		ID:              c.ID.String(),
		TicketID:        c.TicketID.String(),
		EventID:         c.EventID.String(),
		Reason:          c.Reason,
		CancellationFee: c.CancellationFee.StringFixed(2),
		RefundAmount:    c.RefundAmount.StringFixed(2),
		Status:          c.Status,
		CancelledAt:     c.CancelledAt,
	}
}
