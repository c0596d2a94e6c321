package bookings

import "ticketflow/internal/tickets"

type BookingResponse struct {
	Ticket           tickets.TicketResponse `json:"ticket"`
	Payment          PaymentReceipt         `json:"payment"`
	TicketsRemaining int                    `json:"tickets_remaining"`
}
