package verification

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ticketflow/internal/artifacts"
	"ticketflow/internal/events"
	"ticketflow/internal/invitations"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/tickets"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	svc     Service
	gen     *artifacts.Generator
	repo    *tickets.MemoryRepository
	invites invitations.Service
	staff   users.Identity
	event   *events.Event
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	logger.SetDefault(logger.Discard())

	signer, err := artifacts.NewSigner("verify-key")
	require.NoError(t, err)
	gen := artifacts.NewGenerator(signer, artifacts.NewMemoryStore(), artifacts.Options{})
	repo := tickets.NewMemoryRepository()
	invites := invitations.NewService(invitations.NewMemoryRepository(), gen, nil, "/api/v1")

	return &fixture{
		svc:     NewService(repo, gen, invites, nil, opts),
		gen:     gen,
		repo:    repo,
		invites: invites,
		staff:   users.Identity{UserID: uuid.New(), Role: users.RoleStaff},
		event:   &events.Event{ID: uuid.New(), Title: "Jazz Night"},
	}
}

func (f *fixture) ticket(mutate func(*tickets.Ticket)) tickets.Ticket {
	t := tickets.Ticket{
		ID:               uuid.New(),
		EventID:          f.event.ID,
		Event:            f.event,
		BuyerID:          uuid.New(),
		ConfirmationID:   "TKT-00000000-20260101",
		Price:            decimal.NewFromInt(20),
		Status:           tickets.StatusUnused,
		PaymentConfirmed: true,
		IsActive:         true,
	}
	if mutate != nil {
		mutate(&t)
	}
	f.repo.Put(t)
	return t
}

func TestVerifyTicketOnce(t *testing.T) {
	f := newFixture(t, Options{})
	tk := f.ticket(nil)
	token := f.gen.Token(artifacts.KindTicket, tk.ID)

	result, err := f.svc.VerifyTicket(context.Background(), f.staff, VerifyTicketRequest{Token: token})
	require.NoError(t, err)
	assert.Equal(t, "Ticket verified", result.Message)
	assert.Equal(t, tk.ID.String(), result.TicketID)
	assert.Equal(t, "Jazz Night", result.EventTitle)
	assert.Equal(t, tk.ConfirmationID, result.ConfirmationID)

	stored, err := f.repo.GetByID(context.Background(), tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tickets.StatusUsed, stored.Status)
	assert.Equal(t, f.staff.UserID, *stored.RedeemedBy)

	_, err = f.svc.VerifyTicket(context.Background(), f.staff, VerifyTicketRequest{Token: token})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRedeemed)
}

func TestVerifyTicketRejections(t *testing.T) {
	f := newFixture(t, Options{})
	cancelled := f.ticket(func(t *tickets.Ticket) { t.Status = tickets.StatusCancelled; t.IsActive = false })
	inactive := f.ticket(func(t *tickets.Ticket) { t.IsActive = false })
	unpaid := f.ticket(func(t *tickets.Ticket) { t.PaymentConfirmed = false })
	valid := f.ticket(nil)

	tests := []struct {
		name  string
		staff users.Identity
		req   VerifyTicketRequest
		want  error
	}{
		{"cancelled", f.staff, VerifyTicketRequest{TicketID: cancelled.ID.String()}, apperrors.ErrCancelled},
		{"inactive", f.staff, VerifyTicketRequest{TicketID: inactive.ID.String()}, apperrors.ErrTicketInactive},
		{"unpaid", f.staff, VerifyTicketRequest{TicketID: unpaid.ID.String()}, apperrors.ErrTicketInactive},
		{"unknown", f.staff, VerifyTicketRequest{TicketID: uuid.NewString()}, apperrors.ErrNotFound},
		{"forged token", f.staff, VerifyTicketRequest{Token: "tf1.t.AAAA.BBBB"}, apperrors.ErrInvalidToken},
		{"invitation token", f.staff, VerifyTicketRequest{Token: f.gen.Token(artifacts.KindInvitation, valid.ID)}, apperrors.ErrInvalidToken},
		{"customer", users.Identity{UserID: uuid.New(), Role: users.RoleCustomer}, VerifyTicketRequest{TicketID: valid.ID.String()}, apperrors.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.VerifyTicket(context.Background(), tt.staff, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	stored, err := f.repo.GetByID(context.Background(), valid.ID)
	require.NoError(t, err)
	assert.Equal(t, tickets.StatusUnused, stored.Status)
}

func TestVerifyRequiresSignedTokens(t *testing.T) {
	f := newFixture(t, Options{RequireSignedTokens: true})
	tk := f.ticket(nil)

	_, err := f.svc.VerifyTicket(context.Background(), f.staff, VerifyTicketRequest{TicketID: tk.ID.String()})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = f.svc.VerifyTicket(context.Background(), f.staff, VerifyTicketRequest{Token: f.gen.Token(artifacts.KindTicket, tk.ID)})
	assert.NoError(t, err)
}

func TestConcurrentScansAdmitOnce(t *testing.T) {
	f := newFixture(t, Options{Now: func() time.Time { return time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC) }})
	tk := f.ticket(nil)
	token := f.gen.Token(artifacts.KindTicket, tk.ID)

	var admitted, replayed atomic.Int32
	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			_, err := f.svc.VerifyTicket(context.Background(), f.staff, VerifyTicketRequest{Token: token})
			switch {
			case err == nil:
				admitted.Add(1)
			case errors.Is(err, apperrors.ErrAlreadyRedeemed):
				replayed.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), admitted.Load())
	assert.Equal(t, int32(31), replayed.Load())
}

func TestVerifyInvitation(t *testing.T) {
	f := newFixture(t, Options{})
	provider := users.Identity{UserID: uuid.New(), Role: users.RoleProvider}
	inv, err := f.invites.CreateInvitation(context.Background(), provider, invitations.CreateInvitationRequest{
		GuestName: "Ada Lovelace",
		Title:     "Gala Dinner",
	})
	require.NoError(t, err)

	result, err := f.svc.VerifyInvitation(context.Background(), f.staff, VerifyInvitationRequest{Token: inv.RedemptionToken})
	require.NoError(t, err)
	assert.Equal(t, "Invitation verified", result.Message)
	assert.Equal(t, "Ada Lovelace", result.HolderName)

	_, err = f.svc.VerifyInvitation(context.Background(), f.staff, VerifyInvitationRequest{Token: inv.RedemptionToken})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRedeemed)

	ticketToken := f.gen.Token(artifacts.KindTicket, uuid.New())
	_, err = f.svc.VerifyInvitation(context.Background(), f.staff, VerifyInvitationRequest{Token: ticketToken})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
