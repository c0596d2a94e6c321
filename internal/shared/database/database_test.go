package database_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"ticketflow/internal/events"
	"ticketflow/internal/inventory"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/database"
	"ticketflow/internal/testutil"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestMigrationsAreIdempotent(t *testing.T) {
	db := testutil.GetDB(t)

	for i := 0; i < 2; i++ {
		require.NoError(t, database.Migrate(db))
		require.NoError(t, database.MigrateConstraints(db))
	}
}

func TestConstraintsRejectBrokenRows(t *testing.T) {
	db := testutil.GetDB(t)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.MigrateConstraints(db))

	err := db.Exec(`INSERT INTO events (id, title, total_tickets, tickets_available, provider_id)
		VALUES (?, 'Overfull', 1, 2, ?)`, uuid.New(), uuid.New()).Error
	assert.Error(t, err)

	eventID := uuid.New()
	require.NoError(t, db.Exec(`INSERT INTO events (id, title, total_tickets, tickets_available, provider_id)
		VALUES (?, 'Split', 1, 1, ?)`, eventID, uuid.New()).Error)

	err = db.Exec(`INSERT INTO tickets (id, event_id, buyer_id, confirmation_id, price,
		commission_rate, commission_amount, provider_amount, status)
		VALUES (?, ?, ?, ?, 10, 10, 1, 8, 'unused')`,
		uuid.New(), eventID, uuid.New(), "TKT-"+uuid.NewString()[:8]).Error
	assert.Error(t, err, "commission and provider amounts must add up to the price")
}

func TestGormStoreNeverOversells(t *testing.T) {
	logger.SetDefault(logger.Discard())
	db := testutil.GetDB(t)
	require.NoError(t, database.Migrate(db))
	ctx := context.Background()

	const capacity, buyers = 5, 40
	event := &events.Event{
		Title:            "Contended",
		TicketPrice:      decimal.NewFromInt(20),
		TotalTickets:     capacity,
		TicketsAvailable: capacity,
		ProviderID:       uuid.New(),
	}
	require.NoError(t, events.NewRepository(db).Create(ctx, event))

	ledger := inventory.NewLedger(inventory.NewGormStore(db))

	var sold, soldOut atomic.Int32
	var g errgroup.Group
	for i := 0; i < buyers; i++ {
		g.Go(func() error {
			_, err := ledger.Reserve(ctx, event.ID)
			switch {
			case err == nil:
				sold.Add(1)
			case errors.Is(err, apperrors.ErrSoldOut):
				soldOut.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, capacity, sold.Load())
	assert.EqualValues(t, buyers-capacity, soldOut.Load())

	got, err := events.NewRepository(db).GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TicketsAvailable)
}
