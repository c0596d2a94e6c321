package invitations

import "time"

type CreateInvitationRequest struct {
	GuestName     string     `json:"guest_name" validate:"required,min=2,max=200"`
	GuestEmail    string     `json:"guest_email" validate:"omitempty,email"`
	Title         string     `json:"title" validate:"required,min=3,max=200"`
	Description   string     `json:"description" validate:"max=5000"`
	EventDate     *time.Time `json:"event_date"`
	Venue         string     `json:"venue" validate:"max=255"`
	PaymentStatus string     `json:"payment_status" validate:"omitempty,oneof=free paid"`
}

type ListInvitationsQuery struct {
	Page  int `form:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

func (q *ListInvitationsQuery) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
}
