package tickets

import (
	"context"
	"errors"
	"fmt"
	"math"

	"ticketflow/internal/artifacts"
	"ticketflow/internal/events"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	GetTicket(ctx context.Context, caller users.Identity, id uuid.UUID) (*TicketResponse, error)
	ListMyTickets(ctx context.Context, caller users.Identity, query ListTicketsQuery) (*PaginatedTickets, error)
	ListEventTickets(ctx context.Context, caller users.Identity, eventID uuid.UUID, query ListTicketsQuery) (*PaginatedTickets, error)
	TicketQRCode(ctx context.Context, caller users.Identity, id uuid.UUID) (*DocumentFile, error)
	TicketDocument(ctx context.Context, caller users.Identity, id uuid.UUID) (*DocumentFile, error)
}

// EventLookup loads events for ownership checks.
type EventLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*events.Event, error)
}

// UserLookup resolves the holder name printed on documents.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// ArtifactSource reads stored artifacts and regenerates them on demand.
type ArtifactSource interface {
	Token(kind artifacts.Kind, id uuid.UUID) string
	Open(ctx context.Context, ref string) ([]byte, error)
	Render(s artifacts.Subject) (artifacts.Rendered, error)
}

type service struct {
	repo      Repository
	events    EventLookup
	users     UserLookup
	artifacts ArtifactSource
	apiBase   string
	log       *logger.Logger
}

func NewService(repo Repository, eventLookup EventLookup, userLookup UserLookup, source ArtifactSource, apiBase string) Service {
	return &service{
		repo:      repo,
		events:    eventLookup,
		users:     userLookup,
		artifacts: source,
		apiBase:   apiBase,
		log:       logger.GetDefault(),
	}
}

func (s *service) GetTicket(ctx context.Context, caller users.Identity, id uuid.UUID) (*TicketResponse, error) {
	ticket, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// holder and admin see the token, the event's provider sees the record
	if caller.Owns(ticket.BuyerID) {
		resp := ticket.ToResponse(s.apiBase, s.artifacts.Token(artifacts.KindTicket, ticket.ID))
		return &resp, nil
	}
	if ticket.Event != nil && ticket.Event.ProviderID == caller.UserID {
		resp := ticket.ToResponse(s.apiBase, "")
		return &resp, nil
	}
	return nil, fmt.Errorf("ticket %s: %w", id, apperrors.ErrForbidden)
}

func (s *service) ListMyTickets(ctx context.Context, caller users.Identity, query ListTicketsQuery) (*PaginatedTickets, error) {
	query.Normalize()
	list, total, err := s.repo.ListByBuyer(ctx, caller.UserID, query.Page, query.Limit)
	if err != nil {
		return nil, err
	}
	return s.page(list, total, query, true), nil
}

func (s *service) ListEventTickets(ctx context.Context, caller users.Identity, eventID uuid.UUID, query ListTicketsQuery) (*PaginatedTickets, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(event.ProviderID) {
		return nil, fmt.Errorf("event %s tickets: %w", eventID, apperrors.ErrForbidden)
	}

	query.Normalize()
	list, total, err := s.repo.ListByEvent(ctx, eventID, query.Page, query.Limit)
	if err != nil {
		return nil, err
	}
	return s.page(list, total, query, false), nil
}

func (s *service) page(list []Ticket, total int64, query ListTicketsQuery, withToken bool) *PaginatedTickets {
	out := make([]TicketResponse, len(list))
	for i := range list {
		token := ""
		if withToken {
			token = s.artifacts.Token(artifacts.KindTicket, list[i].ID)
		}
		out[i] = list[i].ToResponse(s.apiBase, token)
	}
	return &PaginatedTickets{
		Tickets:    out,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
	}
}

func (s *service) TicketQRCode(ctx context.Context, caller users.Identity, id uuid.UUID) (*DocumentFile, error) {
	ticket, err := s.ownedTicket(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	data, err := s.storedOrRendered(ctx, ticket, ticket.QRCodeRef, func(r artifacts.Rendered) []byte { return r.QRCode })
	if err != nil {
		return nil, err
	}
	return &DocumentFile{
		Filename:    "ticket-" + ticket.ConfirmationID + ".png",
		ContentType: "image/png",
		Data:        data,
	}, nil
}

func (s *service) TicketDocument(ctx context.Context, caller users.Identity, id uuid.UUID) (*DocumentFile, error) {
	ticket, err := s.ownedTicket(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	data, err := s.storedOrRendered(ctx, ticket, ticket.DocumentRef, func(r artifacts.Rendered) []byte { return r.PDF })
	if err != nil {
		return nil, err
	}
	return &DocumentFile{
		Filename:    "ticket-" + ticket.ConfirmationID + ".pdf",
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func (s *service) ownedTicket(ctx context.Context, caller users.Identity, id uuid.UUID) (*Ticket, error) {
	ticket, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(ticket.BuyerID) {
		return nil, fmt.Errorf("ticket %s: %w", id, apperrors.ErrForbidden)
	}
	if ticket.Status == StatusCancelled {
		return nil, fmt.Errorf("ticket %s: %w", id, apperrors.ErrCancelled)
	}
	return ticket, nil
}

// storedOrRendered serves the stored blob and falls back to regenerating it,
// which yields the same content for an unchanged ticket.
func (s *service) storedOrRendered(ctx context.Context, ticket *Ticket, ref string, pick func(artifacts.Rendered) []byte) ([]byte, error) {
	if ref != "" {
		data, err := s.artifacts.Open(ctx, ref)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.log.ErrorWithContext(ctx, "Failed to read stored artifact", err, map[string]interface{}{"ref": ref})
		}
	}

	if ticket.Event == nil {
		event, err := s.events.GetByID(ctx, ticket.EventID)
		if err != nil {
			return nil, err
		}
		ticket.Event = event
	}

	rendered, err := s.artifacts.Render(ticket.Subject(s.holderName(ctx, ticket.BuyerID)))
	if err != nil {
		return nil, err
	}
	return pick(rendered), nil
}

func (s *service) holderName(ctx context.Context, userID uuid.UUID) string {
	if s.users == nil {
		return ""
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return u.FullName()
}
