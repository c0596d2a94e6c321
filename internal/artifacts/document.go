package artifacts

import (
	"fmt"
	"strings"
	"time"

	"ticketflow/internal/shared/apperrors"

	"github.com/google/uuid"
)

const (
	placeholderTBA     = "TBA"
	DefaultDescription = "Get ready for an amazing event experience with TicketFlow."
	dateLayout         = "Monday, 02 January 2006 at 03:04 PM"
)

// EventInfo is the read-only event view printed on a document.
type EventInfo struct {
	Title       string
	Description string
	Venue       string
	Date        *time.Time
}

// Subject is what an artifact is issued for: a ticket or an invitation.
// Building artifacts never mutates the records a Subject was taken from.
type Subject struct {
	Kind           Kind
	ID             uuid.UUID
	ConfirmationID string
	HolderName     string
	Price          string
	PaymentStatus  string
	Event          EventInfo
	IssuedAt       time.Time
}

// Document is the printable content of a ticket or invitation.
type Document struct {
	Heading        string
	Greeting       string
	Title          string
	Venue          string
	Date           string
	Description    string
	Holder         string
	Price          string
	ConfirmationID string
	Token          string
	IssuedAt       time.Time
}

func BuildTicketDocument(s Subject, token, defaultDescription string) (Document, error) {
	doc, err := buildDocument(s, token, defaultDescription)
	if err != nil {
		return Document{}, err
	}
	doc.Heading = "TicketFlow Ticket"
	doc.Greeting = "Welcome to the event! We're excited to have you."
	return doc, nil
}

func BuildInvitationDocument(s Subject, token, defaultDescription string) (Document, error) {
	doc, err := buildDocument(s, token, defaultDescription)
	if err != nil {
		return Document{}, err
	}
	doc.Heading = "TicketFlow Invitation"
	doc.Greeting = "You're invited! Present this code at the entrance."
	if s.PaymentStatus != "" {
		doc.Price = strings.ToUpper(s.PaymentStatus[:1]) + s.PaymentStatus[1:]
	}
	return doc, nil
}

// BuildDocument picks the layout for s.Kind.
func BuildDocument(s Subject, token, defaultDescription string) (Document, error) {
	if s.Kind == KindInvitation {
		return BuildInvitationDocument(s, token, defaultDescription)
	}
	return BuildTicketDocument(s, token, defaultDescription)
}

func buildDocument(s Subject, token, defaultDescription string) (Document, error) {
	title := strings.TrimSpace(s.Event.Title)
	if title == "" {
		return Document{}, fmt.Errorf("%w: event title is required", apperrors.ErrArtifact)
	}
	if token == "" {
		return Document{}, fmt.Errorf("%w: redemption token is required", apperrors.ErrArtifact)
	}

	if defaultDescription == "" {
		defaultDescription = DefaultDescription
	}

	doc := Document{
		Title:          title,
		Venue:          orDefault(s.Event.Venue, placeholderTBA),
		Date:           placeholderTBA,
		Description:    orDefault(s.Event.Description, defaultDescription),
		Holder:         strings.TrimSpace(s.HolderName),
		Price:          s.Price,
		ConfirmationID: s.ConfirmationID,
		Token:          token,
		IssuedAt:       s.IssuedAt.UTC(),
	}
	if s.Event.Date != nil && !s.Event.Date.IsZero() {
		doc.Date = s.Event.Date.UTC().Format(dateLayout)
	}
	if doc.ConfirmationID == "" {
		doc.ConfirmationID = s.ID.String()
	}
	return doc, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
