package tickets

import (
	"bytes"
	"context"
	"testing"
	"time"

	"ticketflow/internal/artifacts"
	"ticketflow/internal/events"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventMap map[uuid.UUID]*events.Event

func (m eventMap) GetByID(_ context.Context, id uuid.UUID) (*events.Event, error) {
	if e, ok := m[id]; ok {
		return e, nil
	}
	return nil, apperrors.ErrNotFound
}

type userMap map[uuid.UUID]*users.User

func (m userMap) GetByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

type fixture struct {
	svc      Service
	repo     *MemoryRepository
	store    *artifacts.MemoryStore
	gen      *artifacts.Generator
	event    *events.Event
	buyer    users.Identity
	provider users.Identity
	ticket   Ticket
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger.SetDefault(logger.Discard())

	signer, err := artifacts.NewSigner("k")
	require.NoError(t, err)
	store := artifacts.NewMemoryStore()
	gen := artifacts.NewGenerator(signer, store, artifacts.Options{})

	buyer := users.Identity{UserID: uuid.New(), Role: users.RoleCustomer}
	provider := users.Identity{UserID: uuid.New(), Role: users.RoleProvider}
	event := &events.Event{ID: uuid.New(), Title: "Jazz Night", ProviderID: provider.UserID, TotalTickets: 10, TicketsAvailable: 9}

	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	ticket := Ticket{
		ID:               uuid.New(),
		EventID:          event.ID,
		Event:            event,
		BuyerID:          buyer.UserID,
		Price:            decimal.NewFromInt(100),
		CommissionRate:   decimal.NewFromInt(10),
		CommissionAmount: decimal.NewFromInt(10),
		ProviderAmount:   decimal.NewFromInt(90),
		Status:           StatusUnused,
		PaymentConfirmed: true,
		IsActive:         true,
		CreatedAt:        created,
	}
	ticket.ConfirmationID = NewConfirmationID(ticket.ID, created)

	repo := NewMemoryRepository()
	repo.Put(ticket)

	svc := NewService(repo, eventMap{event.ID: event},
		userMap{buyer.UserID: {ID: buyer.UserID, FirstName: "Ada", LastName: "Lovelace"}},
		gen, "/api/v1")

	return &fixture{svc: svc, repo: repo, store: store, gen: gen, event: event, buyer: buyer, provider: provider, ticket: ticket}
}

func TestNewConfirmationID(t *testing.T) {
	id := uuid.MustParse("2f1c9a7e-5d7b-4f59-9a3e-8c1b0e6d4a21")
	got := NewConfirmationID(id, time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "TKT-2F1C9A7E-20260101", got)
}

func TestGetTicketAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	own, err := f.svc.GetTicket(ctx, f.buyer, f.ticket.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, own.RedemptionToken)
	assert.Equal(t, "90.00", own.ProviderAmount)
	assert.Equal(t, "/api/v1/tickets/"+f.ticket.ID.String()+"/qr", own.QRCodeURL)

	kind, id, err := f.gen.ParseToken(own.RedemptionToken)
	require.NoError(t, err)
	assert.Equal(t, artifacts.KindTicket, kind)
	assert.Equal(t, f.ticket.ID, id)

	asProvider, err := f.svc.GetTicket(ctx, f.provider, f.ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, asProvider.RedemptionToken)

	stranger := users.Identity{UserID: uuid.New(), Role: users.RoleCustomer}
	_, err = f.svc.GetTicket(ctx, stranger, f.ticket.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.GetTicket(ctx, f.buyer, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListEventTicketsRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.svc.ListEventTickets(ctx, f.provider, f.event.ID, ListTicketsQuery{})
	require.NoError(t, err)
	require.Len(t, page.Tickets, 1)
	assert.Empty(t, page.Tickets[0].RedemptionToken)

	other := users.Identity{UserID: uuid.New(), Role: users.RoleProvider}
	_, err = f.svc.ListEventTickets(ctx, other, f.event.ID, ListTicketsQuery{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	mine, err := f.svc.ListMyTickets(ctx, f.buyer, ListTicketsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.TotalCount)
}

func TestTicketDocumentRegeneratesWithoutMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.TicketDocument(ctx, f.buyer, f.ticket.ID)
	require.NoError(t, err)
	second, err := f.svc.TicketDocument(ctx, f.buyer, f.ticket.ID)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", first.ContentType)
	assert.True(t, bytes.Equal(first.Data, second.Data))

	after, err := f.repo.GetByID(ctx, f.ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusUnused, after.Status)
	assert.Equal(t, 9, f.event.TicketsAvailable)
}

func TestTicketQRServesStoredBlob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	issued, err := f.gen.Issue(ctx, f.ticket.Subject("Ada Lovelace"))
	require.NoError(t, err)
	f.ticket.QRCodeRef = issued.QRCodeRef
	f.ticket.DocumentRef = issued.DocumentRef
	f.repo.Put(f.ticket)

	stored, err := f.store.Get(ctx, issued.QRCodeRef)
	require.NoError(t, err)

	file, err := f.svc.TicketQRCode(ctx, f.buyer, f.ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, file.Data)
	assert.Equal(t, "image/png", file.ContentType)
}

func TestCancelledTicketHasNoArtifacts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.repo.MarkCancelled(ctx, f.ticket.ID, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.svc.TicketQRCode(ctx, f.buyer, f.ticket.ID)
	assert.ErrorIs(t, err, apperrors.ErrCancelled)
}
