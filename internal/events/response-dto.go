package events

import "time"

type EventResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Date             *time.Time `json:"date"`
	Venue            string     `json:"venue"`
	TicketPrice      string     `json:"ticket_price"`
	TotalTickets     int        `json:"total_tickets"`
	TicketsAvailable int        `json:"tickets_available"`
	TicketsSold      int        `json:"tickets_sold"`
	IsHot            bool       `json:"is_hot"`
	ImageURL         string     `json:"image_url,omitempty"`
	ProviderID       string     `json:"provider_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// DeleteEventResult reports what a delete removed. OrphanedArtifacts lists
// stored files that could not be purged after the records were deleted.
type DeleteEventResult struct {
	EventID           string   `json:"event_id"`
	TicketsDeleted    int64    `json:"tickets_deleted"`
	ArtifactsPurged   int      `json:"artifacts_purged"`
	OrphanedArtifacts []string `json:"orphaned_artifacts,omitempty"`
}
