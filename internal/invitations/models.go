package invitations

import (
	"fmt"
	"time"

	"ticketflow/internal/artifacts"
	"ticketflow/internal/shared/apperrors"

	"github.com/google/uuid"
)

// Status is the two-state lifecycle of an invitation.
type Status string

const (
	StatusActive Status = "active"
	StatusUsed   Status = "used"
)

type PaymentStatus string

const (
	PaymentFree PaymentStatus = "free"
	PaymentPaid PaymentStatus = "paid"
)

// Invitation is a named admission issued by a provider outside the ticket pool.
type Invitation struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID     uuid.UUID     `json:"creator_id" gorm:"type:uuid;not null;index"`
	GuestName     string        `json:"guest_name" gorm:"size:200;not null"`
	GuestEmail    string        `json:"guest_email" gorm:"size:255"`
	Title         string        `json:"title" gorm:"size:200;not null"`
	Description   string        `json:"description" gorm:"type:text"`
	EventDate     *time.Time    `json:"event_date"`
	Venue         string        `json:"venue" gorm:"size:255"`
	Status        Status        `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(20);not null;default:'free'"`
	QRCodeRef     string        `json:"-" gorm:"size:255"`
	DocumentRef   string        `json:"-" gorm:"size:255"`
	RedeemedAt    *time.Time    `json:"redeemed_at,omitempty"`
	RedeemedBy    *uuid.UUID    `json:"redeemed_by,omitempty" gorm:"type:uuid"`
	CreatedAt     time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Invitation) TableName() string {
	return "invitations"
}

func (i *Invitation) ArtifactRefs() []string {
	var refs []string
	if i.QRCodeRef != "" {
		refs = append(refs, i.QRCodeRef)
	}
	if i.DocumentRef != "" {
		refs = append(refs, i.DocumentRef)
	}
	return refs
}

// CheckRedeem classifies why an invitation cannot be redeemed.
func (i *Invitation) CheckRedeem() error {
	if i.Status == StatusUsed {
		return fmt.Errorf("invitation %s: %w", i.ID, apperrors.ErrAlreadyRedeemed)
	}
	if i.Status != StatusActive {
		return fmt.Errorf("invitation %s in status %q: %w", i.ID, i.Status, apperrors.ErrInvalidTransition)
	}
	return nil
}

func (i *Invitation) Subject() artifacts.Subject {
	return artifacts.Subject{
		Kind:          artifacts.KindInvitation,
		ID:            i.ID,
		HolderName:    i.GuestName,
		PaymentStatus: string(i.PaymentStatus),
		Event: artifacts.EventInfo{
			Title:       i.Title,
			Description: i.Description,
			Venue:       i.Venue,
			Date:        i.EventDate,
		},
		IssuedAt: i.CreatedAt,
	}
}
