// Package money computes the platform/provider revenue split of a sale.
//
// Amounts are shopspring decimals. The commission is rounded half-even to the
// currency minor unit (two places) and the provider share is the remainder, so
// Commission + ProviderAmount always equals Price exactly.
package money

import (
	"fmt"

	"ticketflow/internal/shared/apperrors"

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of decimal places of the settlement currency.
const MinorUnitPlaces = 2

var hundred = decimal.NewFromInt(100)

// Allocation is the frozen split of one sale.
type Allocation struct {
	Price          decimal.Decimal `json:"price"`
	RatePercent    decimal.Decimal `json:"commission_rate"`
	Commission     decimal.Decimal `json:"commission_amount"`
	ProviderAmount decimal.Decimal `json:"provider_amount"`
}

// Split divides price into the platform commission and the provider share
// using ratePercent (0-100).
func Split(price, ratePercent decimal.Decimal) (Allocation, error) {
	if price.IsNegative() {
		return Allocation{}, fmt.Errorf("price %s: %w", price, apperrors.ErrInvalidPrice)
	}
	if err := ValidateRate(ratePercent); err != nil {
		return Allocation{}, err
	}

	commission := price.Mul(ratePercent).Div(hundred).RoundBank(MinorUnitPlaces)

	return Allocation{
		Price:          price,
		RatePercent:    ratePercent,
		Commission:     commission,
		ProviderAmount: price.Sub(commission),
	}, nil
}

// ValidateRate rejects rates outside [0, 100].
func ValidateRate(ratePercent decimal.Decimal) error {
	if ratePercent.IsNegative() || ratePercent.GreaterThan(hundred) {
		return fmt.Errorf("rate %s%%: %w", ratePercent, apperrors.ErrInvalidRate)
	}
	return nil
}

// ParsePrice parses a user supplied amount and rejects negatives.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q: %w", s, apperrors.ErrInvalidPrice)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("price %s: %w", d, apperrors.ErrInvalidPrice)
	}
	return d, nil
}
