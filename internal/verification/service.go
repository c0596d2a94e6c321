// Package verification admits ticket and invitation holders at the door.
// Each admission is a conditional transition, so concurrent scans of the
// same code admit exactly one of them.
package verification

import (
	"context"
	"fmt"
	"time"

	"ticketflow/internal/artifacts"
	"ticketflow/internal/invitations"
	"ticketflow/internal/notifications"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/tickets"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"
	"ticketflow/pkg/metrics"

	"github.com/google/uuid"
)

type Service interface {
	VerifyTicket(ctx context.Context, staff users.Identity, req VerifyTicketRequest) (*VerificationResult, error)
	VerifyInvitation(ctx context.Context, staff users.Identity, req VerifyInvitationRequest) (*VerificationResult, error)
}

type TicketStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*tickets.Ticket, error)
	MarkUsed(ctx context.Context, id, staffID uuid.UUID, at time.Time) (bool, error)
}

type TokenParser interface {
	ParseToken(token string) (artifacts.Kind, uuid.UUID, error)
}

type InvitationRedeemer interface {
	Redeem(ctx context.Context, staff users.Identity, id uuid.UUID) (*invitations.Invitation, error)
}

type Options struct {
	// RequireSignedTokens rejects raw ticket ids.
	RequireSignedTokens bool
	Now                 func() time.Time
}

type service struct {
	tickets     TicketStore
	tokens      TokenParser
	invitations InvitationRedeemer
	notifier    notifications.Notifier
	opts        Options
	log         *logger.Logger
}

func NewService(ticketStore TicketStore, tokens TokenParser, redeemer InvitationRedeemer, notifier notifications.Notifier, opts Options) Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		tickets:     ticketStore,
		tokens:      tokens,
		invitations: redeemer,
		notifier:    notifier,
		opts:        opts,
		log:         logger.GetDefault().WithComponent("verification"),
	}
}

func (s *service) VerifyTicket(ctx context.Context, staff users.Identity, req VerifyTicketRequest) (result *VerificationResult, err error) {
	subject := req.TicketID
	if req.Token != "" {
		subject = req.Token
	}
	defer func() {
		if err != nil {
			metrics.RedemptionsRejected.WithLabelValues(metrics.Reason(err)).Inc()
			s.log.LogRedemptionRejected(ctx, subject, staff.UserID.String(), err)
		}
	}()

	if !staff.HasRole(users.RoleStaff, users.RoleAdmin) {
		return nil, fmt.Errorf("verify ticket: %w", apperrors.ErrForbidden)
	}

	id, err := s.resolveTicketID(req)
	if err != nil {
		return nil, err
	}
	subject = id.String()

	at := s.opts.Now().UTC()
	ok, err := s.tickets.MarkUsed(ctx, id, staff.UserID, at)
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, classify(ticket)
	}

	metrics.TicketsRedeemed.Inc()
	s.log.LogTicketRedeemed(ctx, ticket.ID.String(), ticket.EventID.String(), staff.UserID.String())

	result = &VerificationResult{
		Message:        "Ticket verified",
		TicketID:       ticket.ID.String(),
		ConfirmationID: ticket.ConfirmationID,
		EventID:        ticket.EventID.String(),
		RedeemedAt:     at,
	}
	if ticket.RedeemedAt != nil {
		result.RedeemedAt = ticket.RedeemedAt.UTC()
	}
	if ticket.Event != nil {
		result.EventTitle = ticket.Event.Title
	}

	if s.notifier != nil {
		s.notifier.TicketRedeemed(ctx, notifications.TicketMessage{
			TicketID:       ticket.ID,
			EventID:        ticket.EventID,
			RecipientID:    ticket.BuyerID,
			EventTitle:     result.EventTitle,
			ConfirmationID: ticket.ConfirmationID,
			RedeemedAt:     result.RedeemedAt.Format(time.RFC1123),
		})
	}
	return result, nil
}

func (s *service) VerifyInvitation(ctx context.Context, staff users.Identity, req VerifyInvitationRequest) (result *VerificationResult, err error) {
	defer func() {
		if err != nil {
			metrics.RedemptionsRejected.WithLabelValues(metrics.Reason(err)).Inc()
			s.log.LogRedemptionRejected(ctx, req.Token, staff.UserID.String(), err)
		}
	}()

	if !staff.HasRole(users.RoleStaff, users.RoleAdmin) {
		return nil, fmt.Errorf("verify invitation: %w", apperrors.ErrForbidden)
	}

	kind, id, err := s.tokens.ParseToken(req.Token)
	if err != nil {
		return nil, err
	}
	if kind != artifacts.KindInvitation {
		return nil, fmt.Errorf("token is not an invitation: %w", apperrors.ErrInvalidToken)
	}

	inv, err := s.invitations.Redeem(ctx, staff, id)
	if err != nil {
		return nil, err
	}

	metrics.TicketsRedeemed.Inc()
	result = &VerificationResult{
		Message:      "Invitation verified",
		InvitationID: inv.ID.String(),
		EventTitle:   inv.Title,
		HolderName:   inv.GuestName,
		RedeemedAt:   s.opts.Now().UTC(),
	}
	if inv.RedeemedAt != nil {
		result.RedeemedAt = inv.RedeemedAt.UTC()
	}
	return result, nil
}

func (s *service) resolveTicketID(req VerifyTicketRequest) (uuid.UUID, error) {
	if req.Token != "" {
		kind, id, err := s.tokens.ParseToken(req.Token)
		if err != nil {
			return uuid.Nil, err
		}
		if kind != artifacts.KindTicket {
			return uuid.Nil, fmt.Errorf("token is not a ticket: %w", apperrors.ErrInvalidToken)
		}
		return id, nil
	}

	if s.opts.RequireSignedTokens {
		return uuid.Nil, fmt.Errorf("raw ticket ids are not accepted: %w", apperrors.ErrInvalidToken)
	}
	id, err := uuid.Parse(req.TicketID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("ticket id %q: %w", req.TicketID, apperrors.ErrInvalidInput)
	}
	return id, nil
}

// classify explains a transition that matched no row. A ticket that still
// looks redeemable lost no race and is reported as an invalid transition.
func classify(t *tickets.Ticket) error {
	if err := t.CheckTransition(tickets.StatusUsed); err != nil {
		return err
	}
	return fmt.Errorf("ticket %s: %w", t.ID, apperrors.ErrInvalidTransition)
}
