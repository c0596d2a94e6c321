package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ticketflow/internal/inventory"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/dbtx"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo keeps events in memory and reads capacity from the ledger store,
// the way the events table is shared with the ledger in production.
type fakeRepo struct {
	mu      sync.Mutex
	events  map[uuid.UUID]Event
	refs    map[uuid.UUID][]string
	tickets map[uuid.UUID]int64
	store   *inventory.MemoryStore
}

func newFakeRepo(store *inventory.MemoryStore) *fakeRepo {
	return &fakeRepo{
		events:  map[uuid.UUID]Event{},
		refs:    map[uuid.UUID][]string{},
		tickets: map[uuid.UUID]int64{},
		store:   store,
	}
}

func (r *fakeRepo) Create(_ context.Context, e *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.New()
	r.events[e.ID] = *e
	r.store.Put(inventory.Capacity{EventID: e.ID, TotalTickets: e.TotalTickets, TicketsAvailable: e.TicketsAvailable})
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if c, ok := r.store.Get(id); ok {
		e.TotalTickets, e.TicketsAvailable = c.TotalTickets, c.TicketsAvailable
	}
	return &e, nil
}

func (r *fakeRepo) List(_ context.Context, q EventListQuery) ([]Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if q.ProviderID != "" && e.ProviderID.String() != q.ProviderID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) UpdateDetails(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if v, ok := updates["title"]; ok {
		e.Title = v.(string)
	}
	if v, ok := updates["ticket_price"]; ok {
		e.TicketPrice = v.(decimal.Decimal)
	}
	r.events[id] = e
	return nil
}

func (r *fakeRepo) DeleteCascade(_ context.Context, id uuid.UUID) ([]string, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return nil, 0, apperrors.ErrNotFound
	}
	delete(r.events, id)
	r.store.Remove(id)
	return r.refs[id], r.tickets[id], nil
}

type fakePurger struct {
	purged []string
	fail   map[string]bool
}

func (p *fakePurger) Purge(_ context.Context, refs []string) map[string]error {
	failed := map[string]error{}
	for _, ref := range refs {
		if p.fail[ref] {
			failed[ref] = errors.New("disk error")
			continue
		}
		p.purged = append(p.purged, ref)
	}
	return failed
}

func newTestService(t *testing.T) (Service, *fakeRepo, *fakePurger) {
	t.Helper()
	logger.SetDefault(logger.Discard())
	store := inventory.NewMemoryStore()
	repo := newFakeRepo(store)
	purger := &fakePurger{fail: map[string]bool{}}
	ledger := inventory.NewLedger(store, inventory.WithLogger(logger.Discard()))
	return NewService(repo, ledger, purger, dbtx.NoopTransactor{}), repo, purger
}

var (
	provider = users.Identity{UserID: uuid.New(), Role: users.RoleProvider}
	other    = users.Identity{UserID: uuid.New(), Role: users.RoleProvider}
	admin    = users.Identity{UserID: uuid.New(), Role: users.RoleAdmin}
	customer = users.Identity{UserID: uuid.New(), Role: users.RoleCustomer}
)

func createEvent(t *testing.T, svc Service, total int) *EventResponse {
	t.Helper()
	ev, err := svc.CreateEvent(context.Background(), provider, CreateEventRequest{
		Title:        "Jazz Night",
		TicketPrice:  "100",
		TotalTickets: total,
	})
	require.NoError(t, err)
	return ev
}

func TestCreateEvent(t *testing.T) {
	svc, _, _ := newTestService(t)

	ev := createEvent(t, svc, 50)
	assert.Equal(t, 50, ev.TotalTickets)
	assert.Equal(t, 50, ev.TicketsAvailable)
	assert.Equal(t, "100.00", ev.TicketPrice)
	assert.Equal(t, provider.UserID.String(), ev.ProviderID)

	_, err := svc.CreateEvent(context.Background(), customer, CreateEventRequest{Title: "x", TicketPrice: "1"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.CreateEvent(context.Background(), provider, CreateEventRequest{Title: "Bad", TicketPrice: "-5"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)
}

func TestUpdateEventResizesThroughLedger(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	ev := createEvent(t, svc, 10)
	id := uuid.MustParse(ev.ID)

	// three sold
	repo.store.Put(inventory.Capacity{EventID: id, TotalTickets: 10, TicketsAvailable: 7})

	total := 20
	updated, err := svc.UpdateEvent(ctx, provider, id, UpdateEventRequest{TotalTickets: &total})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.TotalTickets)
	assert.Equal(t, 17, updated.TicketsAvailable)

	tooSmall := 2
	_, err = svc.UpdateEvent(ctx, provider, id, UpdateEventRequest{TotalTickets: &tooSmall})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCapacity)

	title := "Renamed"
	_, err = svc.UpdateEvent(ctx, other, id, UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err = svc.UpdateEvent(ctx, admin, id, UpdateEventRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestDeleteEventPurgesArtifacts(t *testing.T) {
	svc, repo, purger := newTestService(t)
	ctx := context.Background()
	ev := createEvent(t, svc, 5)
	id := uuid.MustParse(ev.ID)

	repo.refs[id] = []string{"qr/a.png", "doc/a.pdf", "qr/b.png", "doc/b.pdf"}
	repo.tickets[id] = 2
	purger.fail["doc/b.pdf"] = true

	_, err := svc.DeleteEvent(ctx, other, id)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	res, err := svc.DeleteEvent(ctx, provider, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.TicketsDeleted)
	assert.Equal(t, 3, res.ArtifactsPurged)
	assert.Equal(t, []string{"doc/b.pdf"}, res.OrphanedArtifacts)
	assert.ElementsMatch(t, []string{"qr/a.png", "doc/a.pdf", "qr/b.png"}, purger.purged)

	_, err = svc.GetEvent(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListProviderEvents(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	createEvent(t, svc, 1)
	createEvent(t, svc, 2)
	_, err := svc.CreateEvent(ctx, other, CreateEventRequest{Title: "Other", TicketPrice: "5"})
	require.NoError(t, err)

	page, err := svc.ListProviderEvents(ctx, provider, EventListQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Events, 2)
	assert.Equal(t, 1, page.TotalPages)

	all, err := svc.ListEvents(ctx, EventListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.TotalCount)

	_, err = svc.ListProviderEvents(ctx, customer, EventListQuery{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
