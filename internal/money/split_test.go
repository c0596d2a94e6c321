package money

import (
	"context"
	"testing"

	"ticketflow/internal/shared/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		price      string
		rate       string
		commission string
		provider   string
	}{
		{"ten percent of hundred", "100", "10", "10", "90"},
		{"free ticket", "0", "10", "0", "0"},
		{"zero rate", "49.99", "0", "0", "49.99"},
		{"full rate", "20", "100", "20", "0"},
		{"half cent rounds to even down", "0.25", "10", "0.02", "0.23"},
		{"half cent rounds to even up", "0.35", "10", "0.04", "0.31"},
		{"fractional rate", "19.99", "12.5", "2.50", "17.49"},
		{"thirds", "10", "33.333", "3.33", "6.67"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(d(tt.price), d(tt.rate))
			require.NoError(t, err)

			assert.True(t, d(tt.commission).Equal(got.Commission), "commission %s", got.Commission)
			assert.True(t, d(tt.provider).Equal(got.ProviderAmount), "provider %s", got.ProviderAmount)
			assert.True(t, got.Commission.Add(got.ProviderAmount).Equal(d(tt.price)))
		})
	}
}

func TestSplitSumInvariant(t *testing.T) {
	rates := []string{"0", "1", "2.5", "7.75", "10", "15", "33.333", "99.99", "100"}
	for cents := int64(0); cents <= 2500; cents += 7 {
		price := decimal.New(cents, -2)
		for _, r := range rates {
			got, err := Split(price, d(r))
			require.NoError(t, err)
			require.True(t, got.Commission.Add(got.ProviderAmount).Equal(price),
				"price %s rate %s", price, r)
			require.False(t, got.ProviderAmount.IsNegative())
		}
	}
}

func TestSplitRejectsNegativePrice(t *testing.T) {
	_, err := Split(d("-1"), d("10"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)
}

func TestSplitRejectsRateOutOfRange(t *testing.T) {
	for _, r := range []string{"-0.01", "100.01", "250"} {
		_, err := Split(d("10"), d(r))
		assert.ErrorIs(t, err, apperrors.ErrInvalidRate, r)
	}
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("12.50")
	require.NoError(t, err)
	assert.True(t, d("12.5").Equal(p))

	_, err = ParsePrice("-3")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)

	_, err = ParsePrice("twelve")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)
}

func TestStaticRate(t *testing.T) {
	src, err := NewStaticRate("12.5")
	require.NoError(t, err)

	rate, err := src.CommissionRate(context.Background())
	require.NoError(t, err)
	assert.True(t, d("12.5").Equal(rate))

	_, err = NewStaticRate("120")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRate)

	_, err = NewStaticRate("ten")
	assert.Error(t, err)
}
