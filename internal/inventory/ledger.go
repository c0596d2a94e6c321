// Package inventory owns the ticket pool of each event. Every change to
// tickets_available goes through the Ledger, which applies it under an
// exclusive per-event lock provided by the Store.
package inventory

import (
	"context"
	"fmt"
	"time"

	"ticketflow/internal/shared/apperrors"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
)

// Capacity is the contended (total, available) pair of one event.
type Capacity struct {
	EventID          uuid.UUID `json:"event_id"`
	TotalTickets     int       `json:"total_tickets"`
	TicketsAvailable int       `json:"tickets_available"`
}

// Sold is the number of outstanding (non-cancelled) tickets.
func (c Capacity) Sold() int {
	return c.TotalTickets - c.TicketsAvailable
}

// Reservation is a held seat returned by Reserve.
type Reservation struct {
	EventID    uuid.UUID `json:"event_id"`
	Remaining  int       `json:"remaining"`
	ReservedAt time.Time `json:"reserved_at"`
}

// Store loads the capacity row of an event under an exclusive lock, lets fn
// modify it and persists the result atomically. fn returning an error aborts
// the write. Unknown events yield apperrors.ErrNotFound.
type Store interface {
	Mutate(ctx context.Context, eventID uuid.UUID, fn func(c *Capacity) error) (Capacity, error)
}

// Observer is notified after a successful mutation.
type Observer func(ctx context.Context, c Capacity)

type Ledger struct {
	store     Store
	log       *logger.Logger
	now       func() time.Time
	observers []Observer
}

type Option func(*Ledger)

// WithObserver registers a callback fired after every committed change.
func WithObserver(o Observer) Option {
	return func(l *Ledger) { l.observers = append(l.observers, o) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLogger overrides the default logger.
func WithLogger(log *logger.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

func NewLedger(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		log:   logger.GetDefault(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reserve takes one ticket from the pool or fails with ErrSoldOut.
func (l *Ledger) Reserve(ctx context.Context, eventID uuid.UUID) (Reservation, error) {
	c, err := l.store.Mutate(ctx, eventID, func(c *Capacity) error {
		if c.TicketsAvailable <= 0 {
			return fmt.Errorf("event %s: %w", eventID, apperrors.ErrSoldOut)
		}
		c.TicketsAvailable--
		return nil
	})
	if err != nil {
		return Reservation{}, err
	}

	l.notify(ctx, c)
	return Reservation{EventID: eventID, Remaining: c.TicketsAvailable, ReservedAt: l.now()}, nil
}

// Release returns one ticket to the pool. The pool never grows past
// total_tickets; a release at the bound is a no-op.
func (l *Ledger) Release(ctx context.Context, eventID uuid.UUID) (Capacity, error) {
	clamped := false
	c, err := l.store.Mutate(ctx, eventID, func(c *Capacity) error {
		if c.TicketsAvailable >= c.TotalTickets {
			clamped = true
			return nil
		}
		c.TicketsAvailable++
		return nil
	})
	if err != nil {
		return Capacity{}, err
	}

	if clamped {
		l.log.WarnContext(ctx, "Release ignored, pool already full",
			"event_id", eventID.String(), "total_tickets", c.TotalTickets)
		return c, nil
	}
	l.notify(ctx, c)
	return c, nil
}

// Resize changes total_tickets and keeps the number of sold tickets fixed:
// available = newTotal - (oldTotal - oldAvailable).
func (l *Ledger) Resize(ctx context.Context, eventID uuid.UUID, newTotal int) (Capacity, error) {
	if newTotal < 0 {
		return Capacity{}, fmt.Errorf("total tickets %d: %w", newTotal, apperrors.ErrInvalidCapacity)
	}

	c, err := l.store.Mutate(ctx, eventID, func(c *Capacity) error {
		available := newTotal - c.Sold()
		if available < 0 {
			return fmt.Errorf("total tickets %d is below %d already sold: %w",
				newTotal, c.Sold(), apperrors.ErrInvalidCapacity)
		}
		c.TotalTickets = newTotal
		c.TicketsAvailable = available
		return nil
	})
	if err != nil {
		return Capacity{}, err
	}

	l.log.LogCapacityChanged(ctx, eventID.String(), c.TotalTickets, c.TicketsAvailable)
	l.notify(ctx, c)
	return c, nil
}

func (l *Ledger) notify(ctx context.Context, c Capacity) {
	for _, o := range l.observers {
		o(ctx, c)
	}
}
