package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventSales is one event's row of the provider dashboard.
type EventSales struct {
	EventID          uuid.UUID       `json:"event_id"`
	Title            string          `json:"title"`
	Date             *time.Time      `json:"date"`
	TotalTickets     int             `json:"total_tickets"`
	TicketsAvailable int             `json:"tickets_available"`
	TicketsSold      int             `json:"tickets_sold"`
	TicketsUsed      int             `json:"tickets_used"`
	Earnings         decimal.Decimal `json:"earnings"`
}

type ProviderDashboard struct {
	ProviderID    string          `json:"provider_id"`
	TotalEvents   int             `json:"total_events"`
	TicketsIssued int             `json:"tickets_issued"`
	TicketsUsed   int             `json:"tickets_used"`
	Earnings      decimal.Decimal `json:"earnings"`
	SellThrough   float64         `json:"sell_through_percent"`
	Events        []EventSales    `json:"events"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

type StaffDashboard struct {
	TotalTickets        int       `json:"total_tickets"`
	UsedTickets         int       `json:"used_tickets"`
	UnusedTickets       int       `json:"unused_tickets"`
	ActiveInvitations   int       `json:"active_invitations"`
	RedeemedInvitations int       `json:"redeemed_invitations"`
	GeneratedAt         time.Time `json:"generated_at"`
}

type AdminDashboard struct {
	TotalUsers         int             `json:"total_users"`
	UsersByRole        map[string]int  `json:"users_by_role"`
	TotalEvents        int             `json:"total_events"`
	TotalTickets       int             `json:"total_tickets"`
	CancelledTickets   int             `json:"cancelled_tickets"`
	GrossSales         decimal.Decimal `json:"gross_sales"`
	PlatformCommission decimal.Decimal `json:"platform_commission"`
	ProviderPayouts    decimal.Decimal `json:"provider_payouts"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// ticketStats is the per-status aggregate row of the tickets table.
type ticketStats struct {
	Status           string
	Count            int
	Price            decimal.Decimal
	CommissionAmount decimal.Decimal
	ProviderAmount   decimal.Decimal
}

type eventTicketStats struct {
	EventID  uuid.UUID
	Status   string
	Count    int
	Earnings decimal.Decimal
}

type roleCount struct {
	Role  string
	Count int
}
