package cancellation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ticketflow/internal/inventory"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/dbtx"
	"ticketflow/internal/tickets"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu   sync.Mutex
	list []Cancellation
	fail error
}

func (r *memoryRepo) Create(_ context.Context, c *Cancellation) error {
	if r.fail != nil {
		return r.fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	r.list = append(r.list, *c)
	return nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]Cancellation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Cancellation
	for _, c := range r.list {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fixture struct {
	svc     Service
	repo    *memoryRepo
	tickets *tickets.MemoryRepository
	pool    *inventory.MemoryStore
	buyer   users.Identity
	ticket  tickets.Ticket
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger.SetDefault(logger.Discard())

	eventID := uuid.New()
	pool := inventory.NewMemoryStore()
	pool.Put(inventory.Capacity{EventID: eventID, TotalTickets: 5, TicketsAvailable: 4})

	buyer := users.Identity{UserID: uuid.New(), Role: users.RoleCustomer}
	ticket := tickets.Ticket{
		ID:               uuid.New(),
		EventID:          eventID,
		BuyerID:          buyer.UserID,
		Price:            decimal.RequireFromString("42.50"),
		Status:           tickets.StatusUnused,
		PaymentConfirmed: true,
		IsActive:         true,
	}
	ticketRepo := tickets.NewMemoryRepository()
	ticketRepo.Put(ticket)

	repo := &memoryRepo{}
	return &fixture{
		svc:     NewService(repo, ticketRepo, inventory.NewLedger(pool), dbtx.NoopTransactor{}, nil),
		repo:    repo,
		tickets: ticketRepo,
		pool:    pool,
		buyer:   buyer,
		ticket:  ticket,
	}
}

func TestCancelTicketReleasesAndRefunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.CancelTicket(ctx, f.buyer, f.ticket.ID, CancelTicketRequest{Reason: "cannot attend"})
	require.NoError(t, err)
	assert.Equal(t, "42.50", resp.RefundAmount)
	assert.Equal(t, "0.00", resp.CancellationFee)

	stored, err := f.tickets.GetByID(ctx, f.ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, tickets.StatusCancelled, stored.Status)
	assert.False(t, stored.IsActive)
	require.NotNil(t, stored.CancelledAt)

	c, _ := f.pool.Get(f.ticket.EventID)
	assert.Equal(t, 5, c.TicketsAvailable)

	list, err := f.svc.GetUserCancellations(ctx, f.buyer)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.ticket.ID.String(), list[0].TicketID)

	_, err = f.svc.CancelTicket(ctx, f.buyer, f.ticket.ID, CancelTicketRequest{})
	assert.ErrorIs(t, err, apperrors.ErrCancelled)
	c, _ = f.pool.Get(f.ticket.EventID)
	assert.Equal(t, 5, c.TicketsAvailable)
}

func TestCancelRedeemedTicket(t *testing.T) {
	f := newFixture(t)
	used := f.ticket
	used.Status = tickets.StatusUsed
	f.tickets.Put(used)

	_, err := f.svc.CancelTicket(context.Background(), f.buyer, f.ticket.ID, CancelTicketRequest{})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRedeemed)
	c, _ := f.pool.Get(f.ticket.EventID)
	assert.Equal(t, 4, c.TicketsAvailable)
}

func TestCancelRequiresOwner(t *testing.T) {
	f := newFixture(t)
	stranger := users.Identity{UserID: uuid.New(), Role: users.RoleCustomer}
	_, err := f.svc.CancelTicket(context.Background(), stranger, f.ticket.ID, CancelTicketRequest{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	admin := users.Identity{UserID: uuid.New(), Role: users.RoleAdmin}
	_, err = f.svc.CancelTicket(context.Background(), admin, f.ticket.ID, CancelTicketRequest{})
	assert.NoError(t, err)
}

func TestCancelSurfacesStorageErrors(t *testing.T) {
	f := newFixture(t)
	f.repo.fail = errors.New("deadlock detected")

	_, err := f.svc.CancelTicket(context.Background(), f.buyer, f.ticket.ID, CancelTicketRequest{})
	assert.Error(t, err)
}
