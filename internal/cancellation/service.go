package cancellation

import (
	"context"
	"fmt"
	"time"

	"ticketflow/internal/inventory"
	"ticketflow/internal/notifications"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/dbtx"
	"ticketflow/internal/tickets"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"
	"ticketflow/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/samber/lo"
)

type Service interface {
	// CancelTicket moves an unused ticket to cancelled, returns its seat to
	// the pool and records a full refund, all in one transaction.
	CancelTicket(ctx context.Context, caller users.Identity, ticketID uuid.UUID, req CancelTicketRequest) (*CancellationResponse, error)
	GetUserCancellations(ctx context.Context, caller users.Identity) ([]CancellationResponse, error)
}

type TicketStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*tickets.Ticket, error)
	MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type Releaser interface {
	Release(ctx context.Context, eventID uuid.UUID) (inventory.Capacity, error)
}

type service struct {
	repo     Repository
	tickets  TicketStore
	ledger   Releaser
	tx       dbtx.Transactor
	notifier notifications.Notifier
	now      func() time.Time
	log      *logger.Logger
}

func NewService(repo Repository, ticketStore TicketStore, ledger Releaser, tx dbtx.Transactor, notifier notifications.Notifier) Service {
	return &service{
		repo:     repo,
		tickets:  ticketStore,
		ledger:   ledger,
		tx:       tx,
		notifier: notifier,
		now:      time.Now,
		log:      logger.GetDefault().WithComponent("cancellation"),
	}
}

func (s *service) CancelTicket(ctx context.Context, caller users.Identity, ticketID uuid.UUID, req CancelTicketRequest) (*CancellationResponse, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(ticket.BuyerID) {
		return nil, fmt.Errorf("cancel ticket %s: %w", ticketID, apperrors.ErrForbidden)
	}
	if err := ticket.CheckTransition(tickets.StatusCancelled); err != nil {
		return nil, err
	}

	at := s.now().UTC()
	record := &Cancellation{
		TicketID:        ticket.ID,
		EventID:         ticket.EventID,
		UserID:          ticket.BuyerID,
		Reason:          req.Reason,
		CancellationFee: decimal.Zero,
		RefundAmount:    ticket.Price,
		Status:          StatusProcessed,
		CancelledAt:     at,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		ok, err := s.tickets.MarkCancelled(ctx, ticket.ID, at)
		if err != nil {
			return err
		}
		if !ok {
			// lost a race with a scan or another cancel
			current, err := s.tickets.GetByID(ctx, ticket.ID)
			if err != nil {
				return err
			}
			if cerr := current.CheckTransition(tickets.StatusCancelled); cerr != nil {
				return cerr
			}
			return fmt.Errorf("ticket %s: %w", ticket.ID, apperrors.ErrInvalidTransition)
		}
		if _, err := s.ledger.Release(ctx, ticket.EventID); err != nil {
			return err
		}
		return s.repo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	metrics.TicketsCancelled.Inc()
	s.log.LogTicketCancelled(ctx, ticket.ID.String(), ticket.EventID.String(), caller.UserID.String())

	if s.notifier != nil {
		msg := notifications.TicketMessage{
			TicketID:       ticket.ID,
			EventID:        ticket.EventID,
			RecipientID:    ticket.BuyerID,
			ConfirmationID: ticket.ConfirmationID,
			RefundAmount:   record.RefundAmount.StringFixed(2),
		}
		if ticket.Event != nil {
			msg.EventTitle = ticket.Event.Title
		}
		s.notifier.TicketCancelled(ctx, msg)
	}

	resp := record.ToResponse()
	return &resp, nil
}

func (s *service) GetUserCancellations(ctx context.Context, caller users.Identity) ([]CancellationResponse, error) {
	list, err := s.repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(c Cancellation, _ int) CancellationResponse {
		return c.ToResponse()
	}), nil
}
