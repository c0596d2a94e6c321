package tickets

import (
	"testing"

	"ticketflow/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, StatusUnused.CanTransitionTo(StatusUsed))
	assert.True(t, StatusUnused.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusUsed.CanTransitionTo(StatusUnused))
	assert.False(t, StatusUsed.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusUsed))
	assert.False(t, StatusUnused.CanTransitionTo(StatusUnused))

	assert.True(t, StatusUsed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusUnused.IsTerminal())
	assert.False(t, Status("reserved").IsValid())
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		ticket  Ticket
		target  Status
		wantErr error
	}{
		{"unused to used", Ticket{Status: StatusUnused, IsActive: true, PaymentConfirmed: true}, StatusUsed, nil},
		{"unused to cancelled", Ticket{Status: StatusUnused, IsActive: true, PaymentConfirmed: true}, StatusCancelled, nil},
		{"used again", Ticket{Status: StatusUsed, IsActive: true, PaymentConfirmed: true}, StatusUsed, apperrors.ErrAlreadyRedeemed},
		{"cancel used", Ticket{Status: StatusUsed, IsActive: true, PaymentConfirmed: true}, StatusCancelled, apperrors.ErrAlreadyRedeemed},
		{"use cancelled", Ticket{Status: StatusCancelled, PaymentConfirmed: true}, StatusUsed, apperrors.ErrCancelled},
		{"inactive", Ticket{Status: StatusUnused, IsActive: false, PaymentConfirmed: true}, StatusUsed, apperrors.ErrTicketInactive},
		{"unpaid", Ticket{Status: StatusUnused, IsActive: true}, StatusUsed, apperrors.ErrTicketInactive},
		{"back to unused", Ticket{Status: StatusUnused, IsActive: true, PaymentConfirmed: true}, StatusUnused, apperrors.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.ticket.ID = uuid.New()
			err := tt.ticket.CheckTransition(tt.target)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
