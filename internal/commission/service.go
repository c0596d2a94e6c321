// Package commission exposes the platform commission rate to admins.
// Changes apply to future sales only; issued tickets keep their frozen split.
package commission

import (
	"context"
	"fmt"

	"ticketflow/internal/money"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"

	"github.com/shopspring/decimal"
)

// RateStore is the overridable rate source, see money.RedisRateSource.
type RateStore interface {
	money.RateSource
	SetOverride(ctx context.Context, percent decimal.Decimal) error
	ClearOverride(ctx context.Context) error
}

type Service interface {
	GetRate(ctx context.Context, caller users.Identity) (*RateResponse, error)
	SetRate(ctx context.Context, caller users.Identity, req SetRateRequest) (*RateResponse, error)
	ResetRate(ctx context.Context, caller users.Identity) (*RateResponse, error)
}

type service struct {
	store    RateStore
	fallback money.RateSource
	log      *logger.Logger
}

func NewService(store RateStore, fallback money.RateSource) Service {
	return &service{
		store:    store,
		fallback: fallback,
		log:      logger.GetDefault().WithComponent("commission"),
	}
}

func (s *service) GetRate(ctx context.Context, caller users.Identity) (*RateResponse, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("read commission rate: %w", apperrors.ErrForbidden)
	}
	return s.current(ctx)
}

func (s *service) SetRate(ctx context.Context, caller users.Identity, req SetRateRequest) (*RateResponse, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("set commission rate: %w", apperrors.ErrForbidden)
	}
	percent, err := decimal.NewFromString(req.Percent)
	if err != nil {
		return nil, fmt.Errorf("percent %q: %w", req.Percent, apperrors.ErrInvalidRate)
	}
	if err := s.store.SetOverride(ctx, percent); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "💰 Commission rate changed", "percent", percent.String(), "admin_id", caller.UserID.String())
	return s.current(ctx)
}

func (s *service) ResetRate(ctx context.Context, caller users.Identity) (*RateResponse, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("reset commission rate: %w", apperrors.ErrForbidden)
	}
	if err := s.store.ClearOverride(ctx); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "💰 Commission rate reset to default", "admin_id", caller.UserID.String())
	return s.current(ctx)
}

func (s *service) current(ctx context.Context) (*RateResponse, error) {
	rate, err := s.store.CommissionRate(ctx)
	if err != nil {
		return nil, err
	}
	def, err := s.fallback.CommissionRate(ctx)
	if err != nil {
		return nil, err
	}
	return &RateResponse{
		Percent:    rate.String(),
		Default:    def.String(),
		Overridden: !rate.Equal(def),
	}, nil
}
