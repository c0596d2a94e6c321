package tickets

import "time"

type TicketResponse struct {
	ID               string     `json:"id"`
	EventID          string     `json:"event_id"`
	EventTitle       string     `json:"event_title,omitempty"`
	EventDate        *time.Time `json:"event_date,omitempty"`
	Venue            string     `json:"venue,omitempty"`
	BuyerID          string     `json:"buyer_id"`
	ConfirmationID   string     `json:"confirmation_id"`
	Price            string     `json:"price"`
	CommissionRate   string     `json:"commission_rate"`
	CommissionAmount string     `json:"commission_amount"`
	ProviderAmount   string     `json:"provider_amount"`
	Status           Status     `json:"status"`
	IsActive         bool       `json:"is_active"`
	PaymentConfirmed bool       `json:"payment_confirmed"`
	RedemptionToken  string     `json:"redemption_token,omitempty"`
	QRCodeURL        string     `json:"qr_code_url"`
	DocumentURL      string     `json:"document_url"`
	RedeemedAt       *time.Time `json:"redeemed_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type PaginatedTickets struct {
	Tickets    []TicketResponse `json:"tickets"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// DocumentFile is a rendered or stored artifact ready to be sent.
type DocumentFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ToResponse maps t for API output. token is only set for the ticket holder.
func (t *Ticket) ToResponse(apiBase, token string) TicketResponse {
	resp := TicketResponse{
		ID:               t.ID.String(),
		EventID:          t.EventID.String(),
		BuyerID:          t.BuyerID.String(),
		ConfirmationID:   t.ConfirmationID,
		Price:            t.Price.StringFixed(2),
		CommissionRate:   t.CommissionRate.String(),
		CommissionAmount: t.CommissionAmount.StringFixed(2),
		ProviderAmount:   t.ProviderAmount.StringFixed(2),
		Status:           t.Status,
		IsActive:         t.IsActive,
		PaymentConfirmed: t.PaymentConfirmed,
		RedemptionToken:  token,
		QRCodeURL:        apiBase + "/tickets/" + t.ID.String() + "/qr",
		DocumentURL:      apiBase + "/tickets/" + t.ID.String() + "/document",
		RedeemedAt:       t.RedeemedAt,
		CancelledAt:      t.CancelledAt,
		CreatedAt:        t.CreatedAt,
	}
	if t.Event != nil {
		resp.EventTitle = t.Event.Title
		resp.EventDate = t.Event.Date
		resp.Venue = t.Event.Venue
	}
	return resp
}
