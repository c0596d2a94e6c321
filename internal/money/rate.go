package money

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RateSource supplies the commission percentage in force at the moment of a sale.
// Callers read it once per sale and pass the value to Split.
type RateSource interface {
	CommissionRate(ctx context.Context) (decimal.Decimal, error)
}

// StaticRate is a fixed configured rate.
type StaticRate struct {
	percent decimal.Decimal
}

// NewStaticRate parses a configured percentage such as "10" or "12.5".
func NewStaticRate(percent string) (*StaticRate, error) {
	d, err := decimal.NewFromString(percent)
	if err != nil {
		return nil, fmt.Errorf("invalid commission percent %q: %w", percent, err)
	}
	if err := ValidateRate(d); err != nil {
		return nil, err
	}
	return &StaticRate{percent: d}, nil
}

func (s *StaticRate) CommissionRate(context.Context) (decimal.Decimal, error) {
	return s.percent, nil
}

// RedisRateSource reads an admin override from Redis and falls back to a default.
type RedisRateSource struct {
	client   *redis.Client
	key      string
	fallback RateSource
}

func NewRedisRateSource(client *redis.Client, key string, fallback RateSource) *RedisRateSource {
	return &RedisRateSource{client: client, key: key, fallback: fallback}
}

func (r *RedisRateSource) CommissionRate(ctx context.Context) (decimal.Decimal, error) {
	raw, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return r.fallback.CommissionRate(ctx)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read commission override: %w", err)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stored commission override %q: %w", raw, err)
	}
	if err := ValidateRate(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// SetOverride stores a new rate for future sales. Issued tickets keep their split.
func (r *RedisRateSource) SetOverride(ctx context.Context, percent decimal.Decimal) error {
	if err := ValidateRate(percent); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, percent.String(), 0).Err(); err != nil {
		return fmt.Errorf("failed to store commission override: %w", err)
	}
	return nil
}

// ClearOverride reverts to the configured default.
func (r *RedisRateSource) ClearOverride(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear commission override: %w", err)
	}
	return nil
}
