package inventory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"ticketflow/internal/shared/apperrors"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newLedger(t *testing.T, total, available int, opts ...Option) (*Ledger, *MemoryStore, uuid.UUID) {
	t.Helper()
	store := NewMemoryStore()
	id := uuid.New()
	store.Put(Capacity{EventID: id, TotalTickets: total, TicketsAvailable: available})
	opts = append([]Option{WithLogger(logger.Discard())}, opts...)
	return NewLedger(store, opts...), store, id
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements available", func(t *testing.T) {
		l, store, id := newLedger(t, 2, 2)

		res, err := l.Reserve(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Remaining)

		c, _ := store.Get(id)
		assert.Equal(t, 1, c.TicketsAvailable)
	})

	t.Run("sold out never goes below zero", func(t *testing.T) {
		l, store, id := newLedger(t, 3, 0)

		for i := 0; i < 5; i++ {
			_, err := l.Reserve(ctx, id)
			require.ErrorIs(t, err, apperrors.ErrSoldOut)
		}
		c, _ := store.Get(id)
		assert.Equal(t, 0, c.TicketsAvailable)
	})

	t.Run("unknown event", func(t *testing.T) {
		l, _, _ := newLedger(t, 1, 1)
		_, err := l.Reserve(ctx, uuid.New())
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestReserveConcurrent(t *testing.T) {
	const capacity = 25
	const buyers = 200

	l, store, id := newLedger(t, capacity, capacity)

	var ok, soldOut atomic.Int64
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := l.Reserve(context.Background(), id)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, apperrors.ErrSoldOut):
				soldOut.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, capacity, ok.Load())
	assert.EqualValues(t, buyers-capacity, soldOut.Load())
	c, _ := store.Get(id)
	assert.Equal(t, 0, c.TicketsAvailable)
}

func TestRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a seat", func(t *testing.T) {
		l, _, id := newLedger(t, 5, 3)
		c, err := l.Release(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 4, c.TicketsAvailable)
	})

	t.Run("bounded by total", func(t *testing.T) {
		l, store, id := newLedger(t, 5, 5)
		c, err := l.Release(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 5, c.TicketsAvailable)

		got, _ := store.Get(id)
		assert.Equal(t, 5, got.TicketsAvailable)
	})
}

func TestResize(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		total, avail  int
		newTotal      int
		wantAvailable int
		wantErr       error
	}{
		{name: "grow keeps sold count", total: 10, avail: 4, newTotal: 20, wantAvailable: 14},
		{name: "shrink to sold count", total: 10, avail: 4, newTotal: 6, wantAvailable: 0},
		{name: "shrink below sold count", total: 10, avail: 4, newTotal: 5, wantErr: apperrors.ErrInvalidCapacity},
		{name: "negative total", total: 10, avail: 10, newTotal: -1, wantErr: apperrors.ErrInvalidCapacity},
		{name: "unsold event to zero", total: 10, avail: 10, newTotal: 0, wantAvailable: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, store, id := newLedger(t, tt.total, tt.avail)

			c, err := l.Resize(ctx, id, tt.newTotal)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				got, _ := store.Get(id)
				assert.Equal(t, tt.total, got.TotalTickets, "failed resize must not write")
				assert.Equal(t, tt.avail, got.TicketsAvailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.newTotal, c.TotalTickets)
			assert.Equal(t, tt.wantAvailable, c.TicketsAvailable)
		})
	}
}

func TestObserverFiresOnChange(t *testing.T) {
	var seen []Capacity
	l, _, id := newLedger(t, 2, 2, WithObserver(func(_ context.Context, c Capacity) {
		seen = append(seen, c)
	}))
	ctx := context.Background()

	_, err := l.Reserve(ctx, id)
	require.NoError(t, err)
	_, err = l.Release(ctx, id)
	require.NoError(t, err)
	_, err = l.Release(ctx, id) // clamped, no change
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, 1, seen[0].TicketsAvailable)
	assert.Equal(t, 2, seen[1].TicketsAvailable)
}
