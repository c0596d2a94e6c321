package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

type PaymentRequest struct {
	BuyerID uuid.UUID
	EventID uuid.UUID
	Amount  decimal.Decimal
	Method  string
}

type PaymentReceipt struct {
	Reference   string          `json:"reference"`
	Status      PaymentStatus   `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	ConfirmedAt time.Time       `json:"confirmed_at"`
}

func (r PaymentReceipt) Confirmed() bool {
	return r.Status == PaymentStatusCompleted
}

// PaymentConfirmer settles the price of a booking before the ticket is issued.
type PaymentConfirmer interface {
	Confirm(ctx context.Context, req PaymentRequest) (PaymentReceipt, error)
}

// InstantPayment confirms every payment immediately. It stands in for a
// gateway until one is integrated.
type InstantPayment struct {
	Now func() time.Time
}

func (p InstantPayment) Confirm(_ context.Context, req PaymentRequest) (PaymentReceipt, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	method := req.Method
	if method == "" {
		method = "instant"
	}
	return PaymentReceipt{
		Reference:   fmt.Sprintf("PAY-%s", uuid.NewString()[:8]),
		Status:      PaymentStatusCompleted,
		Amount:      req.Amount,
		Method:      method,
		ConfirmedAt: now(),
	}, nil
}
