package invitations

import "time"

type InvitationResponse struct {
	ID              string     `json:"id"`
	CreatorID       string     `json:"creator_id"`
	GuestName       string     `json:"guest_name"`
	GuestEmail      string     `json:"guest_email,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	EventDate       *time.Time `json:"event_date"`
	Venue           string     `json:"venue"`
	Status          Status     `json:"status"`
	PaymentStatus   string     `json:"payment_status"`
	RedemptionToken string     `json:"redemption_token,omitempty"`
	QRCodeURL       string     `json:"qr_code_url"`
	DocumentURL     string     `json:"document_url"`
	RedeemedAt      *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type PaginatedInvitations struct {
	Invitations []InvitationResponse `json:"invitations"`
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
}

type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (i *Invitation) ToResponse(apiBase, token string) InvitationResponse {
	base := apiBase + "/invitations/" + i.ID.String()
	return InvitationResponse{
		ID:              i.ID.String(),
		CreatorID:       i.CreatorID.String(),
		GuestName:       i.GuestName,
		GuestEmail:      i.GuestEmail,
		Title:           i.Title,
		Description:     i.Description,
		EventDate:       i.EventDate,
		Venue:           i.Venue,
		Status:          i.Status,
		PaymentStatus:   string(i.PaymentStatus),
		RedemptionToken: token,
		QRCodeURL:       base + "/qr",
		DocumentURL:     base + "/document",
		RedeemedAt:      i.RedeemedAt,
		CreatedAt:       i.CreatedAt,
	}
}
