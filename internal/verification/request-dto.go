package verification

// VerifyTicketRequest carries either the scanned token or, when unsigned
// lookups are allowed, the raw ticket id typed in by staff.
type VerifyTicketRequest struct {
	Token    string `json:"token" validate:"required_without=TicketID,omitempty,max=256"`
	TicketID string `json:"ticket_id" validate:"required_without=Token,omitempty,uuid"`
}

type VerifyInvitationRequest struct {
	Token string `json:"token" validate:"required,max=256"`
}
