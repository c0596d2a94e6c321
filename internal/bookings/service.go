package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketflow/internal/artifacts"
	"ticketflow/internal/events"
	"ticketflow/internal/inventory"
	"ticketflow/internal/money"
	"ticketflow/internal/notifications"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/tickets"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"
	"ticketflow/pkg/metrics"

	"github.com/google/uuid"
)

type Service interface {
	// Book sells one ticket of eventID to the caller. It either returns an
	// issued ticket or leaves the pool and the artifact store as they were.
	Book(ctx context.Context, caller users.Identity, eventID uuid.UUID, req BookTicketRequest) (*BookingResponse, error)
}

type Ledger interface {
	Reserve(ctx context.Context, eventID uuid.UUID) (inventory.Reservation, error)
	Release(ctx context.Context, eventID uuid.UUID) (inventory.Capacity, error)
}

type EventLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*events.Event, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

type Issuer interface {
	Issue(ctx context.Context, s artifacts.Subject) (artifacts.Issued, error)
	Purge(ctx context.Context, refs []string) map[string]error
}

type TicketStore interface {
	Create(ctx context.Context, ticket *tickets.Ticket) error
}

type Dependencies struct {
	Ledger   Ledger
	Events   EventLookup
	Users    UserLookup
	Rates    money.RateSource
	Payments PaymentConfirmer
	Issuer   Issuer
	Tickets  TicketStore
	Notifier notifications.Notifier
	APIBase  string
	Now      func() time.Time
}

type service struct {
	Dependencies
	log *logger.Logger
}

func NewService(deps Dependencies) Service {
	if deps.Payments == nil {
		deps.Payments = InstantPayment{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{Dependencies: deps, log: logger.GetDefault().WithComponent("bookings")}
}

func (s *service) Book(ctx context.Context, caller users.Identity, eventID uuid.UUID, req BookTicketRequest) (resp *BookingResponse, err error) {
	if !caller.HasRole(users.RoleCustomer, users.RoleAdmin) {
		return nil, fmt.Errorf("book event %s: %w", eventID, apperrors.ErrForbidden)
	}

	reservation, err := s.Ledger.Reserve(ctx, eventID)
	if err != nil {
		metrics.BookingsFailed.WithLabelValues(metrics.Reason(err)).Inc()
		return nil, err
	}

	// Everything after the reservation is compensated on failure
	var stored []string
	defer func() {
		if err == nil {
			return
		}
		metrics.BookingsFailed.WithLabelValues(metrics.Reason(err)).Inc()
		s.compensate(ctx, eventID, stored, err)
	}()

	event, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	rate, err := s.Rates.CommissionRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("read commission rate: %w", err)
	}
	alloc, err := money.Split(event.TicketPrice, rate)
	if err != nil {
		return nil, err
	}

	receipt, err := s.Payments.Confirm(ctx, PaymentRequest{
		BuyerID: caller.UserID,
		EventID: eventID,
		Amount:  alloc.Price,
		Method:  req.PaymentMethod,
	})
	if err != nil {
		return nil, fmt.Errorf("confirm payment: %w: %v", apperrors.ErrPaymentFailed, err)
	}
	if !receipt.Confirmed() {
		return nil, fmt.Errorf("payment %s is %s: %w", receipt.Reference, receipt.Status, apperrors.ErrPaymentFailed)
	}

	// The document embeds the issue time, so it is kept at second
	// precision to match what the database returns later.
	issuedAt := s.Now().UTC().Truncate(time.Second)
	ticket := &tickets.Ticket{
		ID:               uuid.New(),
		EventID:          eventID,
		Event:            event,
		BuyerID:          caller.UserID,
		Price:            alloc.Price,
		CommissionRate:   alloc.RatePercent,
		CommissionAmount: alloc.Commission,
		ProviderAmount:   alloc.ProviderAmount,
		Status:           tickets.StatusUnused,
		PaymentConfirmed: true,
		IsActive:         true,
		CreatedAt:        issuedAt,
	}
	ticket.ConfirmationID = tickets.NewConfirmationID(ticket.ID, issuedAt)

	issued, err := s.Issuer.Issue(ctx, ticket.Subject(s.holderName(ctx, caller.UserID)))
	if err != nil {
		if !errors.Is(err, apperrors.ErrArtifact) {
			err = fmt.Errorf("%w: %v", apperrors.ErrArtifact, err)
		}
		return nil, err
	}
	ticket.QRCodeRef = issued.QRCodeRef
	ticket.DocumentRef = issued.DocumentRef
	stored = ticket.ArtifactRefs()

	if err = s.Tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	metrics.TicketsIssued.WithLabelValues(eventID.String()).Inc()
	s.log.LogTicketIssued(ctx, ticket.ID.String(), eventID.String(), caller.UserID.String(),
		ticket.Price.StringFixed(2), ticket.CommissionAmount.StringFixed(2))

	if s.Notifier != nil {
		s.Notifier.TicketIssued(ctx, notifications.TicketMessage{
			TicketID:       ticket.ID,
			EventID:        eventID,
			RecipientID:    caller.UserID,
			EventTitle:     event.Title,
			ConfirmationID: ticket.ConfirmationID,
			Price:          ticket.Price.StringFixed(2),
		})
	}

	return &BookingResponse{
		Ticket:           ticket.ToResponse(s.APIBase, issued.Token),
		Payment:          receipt,
		TicketsRemaining: reservation.Remaining,
	}, nil
}

// compensate undoes a partially completed booking. It runs on a context
// detached from cancellation so a client hang-up cannot leak a seat.
func (s *service) compensate(ctx context.Context, eventID uuid.UUID, refs []string, cause error) {
	ctx = context.WithoutCancel(ctx)

	if len(refs) > 0 {
		for ref, perr := range s.Issuer.Purge(ctx, refs) {
			metrics.ArtifactPurgeFailures.Inc()
			s.log.LogArtifactPurgeFailed(ctx, ref, perr)
		}
	}

	if _, err := s.Ledger.Release(ctx, eventID); err != nil {
		s.log.ErrorContext(ctx, "Failed to release reservation",
			"event_id", eventID.String(),
			"cause", cause,
			"error", err,
		)
		return
	}
	s.log.LogReservationReleased(ctx, eventID.String(), cause)
}

func (s *service) holderName(ctx context.Context, userID uuid.UUID) string {
	if s.Users == nil {
		return ""
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		s.log.WarnContext(ctx, "Holder name unavailable", "user_id", userID.String(), "error", err)
		return ""
	}
	return u.FullName()
}
