package tickets

import (
	"fmt"
	"time"

	"ticketflow/internal/artifacts"
	"ticketflow/internal/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ticket is one sold admission. The money columns are written once at sale
// and never recomputed.
type Ticket struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID          uuid.UUID       `json:"event_id" gorm:"type:uuid;not null;index"`
	Event            *events.Event   `json:"event,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	BuyerID          uuid.UUID       `json:"buyer_id" gorm:"type:uuid;not null;index"`
	ConfirmationID   string          `json:"confirmation_id" gorm:"size:32;uniqueIndex;not null"`
	Price            decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	CommissionRate   decimal.Decimal `json:"commission_rate" gorm:"type:numeric(7,4);not null"`
	CommissionAmount decimal.Decimal `json:"commission_amount" gorm:"type:numeric(10,2);not null"`
	ProviderAmount   decimal.Decimal `json:"provider_amount" gorm:"type:numeric(10,2);not null"`
	Status           Status          `json:"status" gorm:"type:varchar(20);not null;default:'unused';index"`
	PaymentConfirmed bool            `json:"payment_confirmed" gorm:"not null;default:false"`
	IsActive         bool            `json:"is_active" gorm:"not null;default:true"`
	QRCodeRef        string          `json:"-" gorm:"size:255"`
	DocumentRef      string          `json:"-" gorm:"size:255"`
	RedeemedAt       *time.Time      `json:"redeemed_at,omitempty"`
	RedeemedBy       *uuid.UUID      `json:"redeemed_by,omitempty" gorm:"type:uuid"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// ArtifactRefs returns the stored blob references of t.
func (t *Ticket) ArtifactRefs() []string {
	var refs []string
	if t.QRCodeRef != "" {
		refs = append(refs, t.QRCodeRef)
	}
	if t.DocumentRef != "" {
		refs = append(refs, t.DocumentRef)
	}
	return refs
}

// NewConfirmationID builds the human readable reference printed on documents,
// e.g. TKT-2F1C9A7E-20260101.
func NewConfirmationID(id uuid.UUID, at time.Time) string {
	return fmt.Sprintf("TKT-%X-%s", id[:4], at.UTC().Format("20060102"))
}

// Subject is the artifact view of t. The ticket's event must be loaded.
func (t *Ticket) Subject(holderName string) artifacts.Subject {
	s := artifacts.Subject{
		Kind:           artifacts.KindTicket,
		ID:             t.ID,
		ConfirmationID: t.ConfirmationID,
		HolderName:     holderName,
		Price:          t.Price.StringFixed(2),
		IssuedAt:       t.CreatedAt,
	}
	if t.Event != nil {
		s.Event = artifacts.EventInfo{
			Title:       t.Event.Title,
			Description: t.Event.Description,
			Venue:       t.Event.Venue,
			Date:        t.Event.Date,
		}
	}
	return s
}
