// Package metrics exposes the ticketing counters scraped from /metrics.
package metrics

import (
	"errors"

	"ticketflow/internal/shared/apperrors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketsIssued counts completed bookings
	TicketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticketflow",
			Name:      "tickets_issued_total",
			Help:      "The total number of issued tickets",
		},
		[]string{"event_id"},
	)

	// BookingsFailed counts bookings that did not produce a ticket, by reason
	BookingsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticketflow",
			Name:      "bookings_failed_total",
			Help:      "The total number of failed bookings",
		},
		[]string{"reason"},
	)

	TicketsRedeemed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ticketflow",
			Name:      "tickets_redeemed_total",
			Help:      "The total number of redeemed tickets and invitations",
		},
	)

	// RedemptionsRejected counts scans that did not admit anyone, by reason
	RedemptionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticketflow",
			Name:      "redemptions_rejected_total",
			Help:      "The total number of rejected redemptions",
		},
		[]string{"reason"},
	)

	TicketsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ticketflow",
			Name:      "tickets_cancelled_total",
			Help:      "The total number of cancelled tickets",
		},
	)

	ArtifactPurgeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ticketflow",
			Name:      "artifact_purge_failures_total",
			Help:      "Stored artifacts that could not be deleted",
		},
	)
)

var reasons = []struct {
	err   error
	label string
}{
	{apperrors.ErrSoldOut, "sold_out"},
	{apperrors.ErrNotFound, "not_found"},
	{apperrors.ErrAlreadyRedeemed, "already_redeemed"},
	{apperrors.ErrCancelled, "cancelled"},
	{apperrors.ErrTicketInactive, "inactive"},
	{apperrors.ErrInvalidToken, "invalid_token"},
	{apperrors.ErrForbidden, "forbidden"},
	{apperrors.ErrArtifact, "artifact"},
	{apperrors.ErrPaymentFailed, "payment"},
	{apperrors.ErrInvalidRate, "invalid_rate"},
	{apperrors.ErrInvalidPrice, "invalid_price"},
}

// Reason maps an error of the taxonomy to a low-cardinality label.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.label
		}
	}
	return "internal"
}
