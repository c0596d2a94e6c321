package bookings

type BookTicketRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=card wallet instant"`
}
