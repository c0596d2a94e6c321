package tickets

import (
	"fmt"

	"ticketflow/internal/shared/apperrors"
)

type Status string

const (
	StatusUnused    Status = "unused"
	StatusUsed      Status = "used"
	StatusCancelled Status = "cancelled"
)

// allowed transitions; used and cancelled are terminal
var transitions = map[Status][]Status{
	StatusUnused: {StatusUsed, StatusCancelled},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusUnused, StatusUsed, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// CheckTransition reports why t cannot move to target, or nil if it can.
// A ticket must be unused, active and paid for to leave the unused state.
func (t *Ticket) CheckTransition(target Status) error {
	switch t.Status {
	case StatusUsed:
		return fmt.Errorf("ticket %s: %w", t.ID, apperrors.ErrAlreadyRedeemed)
	case StatusCancelled:
		return fmt.Errorf("ticket %s: %w", t.ID, apperrors.ErrCancelled)
	}
	if !t.Status.CanTransitionTo(target) {
		return fmt.Errorf("ticket %s %s -> %s: %w", t.ID, t.Status, target, apperrors.ErrInvalidTransition)
	}
	if !t.IsActive || !t.PaymentConfirmed {
		return fmt.Errorf("ticket %s: %w", t.ID, apperrors.ErrTicketInactive)
	}
	return nil
}
