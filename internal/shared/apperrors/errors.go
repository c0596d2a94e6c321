// Package apperrors holds the sentinel errors shared by the ticketing core.
// Callers wrap them with context (fmt.Errorf("...: %w", ErrX)) and the HTTP
// layer maps them back with errors.Is.
package apperrors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrSoldOut           = errors.New("sold out")
	ErrInvalidCapacity   = errors.New("invalid capacity")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidRate       = errors.New("invalid commission rate")
	ErrAlreadyRedeemed   = errors.New("already redeemed")
	ErrCancelled         = errors.New("cancelled")
	ErrTicketInactive    = errors.New("ticket is not active")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrArtifact          = errors.New("artifact generation failed")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidToken      = errors.New("invalid redemption token")
	ErrPaymentFailed     = errors.New("payment not confirmed")
	ErrInvalidInput      = errors.New("invalid input")
)
