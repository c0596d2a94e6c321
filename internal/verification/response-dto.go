package verification

import "time"

type VerificationResult struct {
	Message        string    `json:"message"`
	TicketID       string    `json:"ticket_id,omitempty"`
	InvitationID   string    `json:"invitation_id,omitempty"`
	ConfirmationID string    `json:"confirmation_id,omitempty"`
	EventID        string    `json:"event_id,omitempty"`
	EventTitle     string    `json:"event_title"`
	HolderName     string    `json:"holder_name,omitempty"`
	RedeemedAt     time.Time `json:"redeemed_at"`
}
