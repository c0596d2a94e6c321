package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"ticketflow/internal/events"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/constants"
	"ticketflow/internal/users"
	"ticketflow/pkg/cache"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	statusUnused    = "unused"
	statusUsed      = "used"
	statusCancelled = "cancelled"
)

type Service interface {
	// ProviderDashboard sums the caller's events. Earnings count the
	// provider share of every ticket that was not cancelled.
	ProviderDashboard(ctx context.Context, caller users.Identity) (*ProviderDashboard, error)
	StaffDashboard(ctx context.Context, caller users.Identity) (*StaffDashboard, error)
	AdminDashboard(ctx context.Context, caller users.Identity) (*AdminDashboard, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	now          func() time.Time
	log          *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now, log: logger.GetDefault().WithComponent("analytics")}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) ProviderDashboard(ctx context.Context, caller users.Identity) (*ProviderDashboard, error) {
	if !caller.HasRole(users.RoleProvider, users.RoleAdmin) {
		return nil, fmt.Errorf("provider dashboard: %w", apperrors.ErrForbidden)
	}
	return cached(ctx, s, constants.BuildProviderAnalyticsKey(caller.UserID.String()), constants.TTL_ANALYTICS_DASHBOARD, func() (*ProviderDashboard, error) {
		return s.buildProvider(ctx, caller.UserID)
	})
}

func (s *service) buildProvider(ctx context.Context, providerID uuid.UUID) (*ProviderDashboard, error) {
	list, err := s.repo.ProviderEvents(ctx, providerID)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.EventTicketStats(ctx, lo.Map(list, func(e events.Event, _ int) uuid.UUID { return e.ID }))
	if err != nil {
		return nil, err
	}
	byEvent := lo.GroupBy(stats, func(r eventTicketStats) uuid.UUID { return r.EventID })

	rows := lo.Map(list, func(e events.Event, _ int) EventSales {
		row := EventSales{
			EventID:          e.ID,
			Title:            e.Title,
			Date:             e.Date,
			TotalTickets:     e.TotalTickets,
			TicketsAvailable: e.TicketsAvailable,
			Earnings:         decimal.Zero,
		}
		for _, st := range byEvent[e.ID] {
			if st.Status == statusCancelled {
				continue
			}
			row.TicketsSold += st.Count
			row.Earnings = row.Earnings.Add(st.Earnings)
			if st.Status == statusUsed {
				row.TicketsUsed += st.Count
			}
		}
		return row
	})

	dash := &ProviderDashboard{
		ProviderID:    providerID.String(),
		TotalEvents:   len(rows),
		TicketsIssued: lo.SumBy(rows, func(r EventSales) int { return r.TicketsSold }),
		TicketsUsed:   lo.SumBy(rows, func(r EventSales) int { return r.TicketsUsed }),
		Earnings: lo.Reduce(rows, func(acc decimal.Decimal, r EventSales, _ int) decimal.Decimal {
			return acc.Add(r.Earnings)
		}, decimal.Zero),
		Events:      rows,
		GeneratedAt: s.now().UTC(),
	}
	capacity := lo.SumBy(rows, func(r EventSales) int { return r.TotalTickets })
	if capacity > 0 {
		dash.SellThrough = math.Round(float64(dash.TicketsIssued)/float64(capacity)*10000) / 100
	}
	return dash, nil
}

func (s *service) StaffDashboard(ctx context.Context, caller users.Identity) (*StaffDashboard, error) {
	if !caller.HasRole(users.RoleStaff, users.RoleAdmin) {
		return nil, fmt.Errorf("staff dashboard: %w", apperrors.ErrForbidden)
	}
	return cached(ctx, s, constants.CACHE_KEY_ANALYTICS_STAFF, constants.TTL_ANALYTICS_STAFF, func() (*StaffDashboard, error) {
		stats, err := s.repo.TicketStats(ctx)
		if err != nil {
			return nil, err
		}
		active, used, err := s.repo.InvitationCounts(ctx)
		if err != nil {
			return nil, err
		}
		count := countByStatus(stats)
		return &StaffDashboard{
			TotalTickets:        count[statusUnused] + count[statusUsed] + count[statusCancelled],
			UsedTickets:         count[statusUsed],
			UnusedTickets:       count[statusUnused],
			ActiveInvitations:   active,
			RedeemedInvitations: used,
			GeneratedAt:         s.now().UTC(),
		}, nil
	})
}

func (s *service) AdminDashboard(ctx context.Context, caller users.Identity) (*AdminDashboard, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("admin dashboard: %w", apperrors.ErrForbidden)
	}
	return cached(ctx, s, constants.CACHE_KEY_ANALYTICS_ADMIN, constants.TTL_ANALYTICS_DASHBOARD, func() (*AdminDashboard, error) {
		roles, err := s.repo.UserRoles(ctx)
		if err != nil {
			return nil, err
		}
		eventCount, err := s.repo.CountEvents(ctx)
		if err != nil {
			return nil, err
		}
		stats, err := s.repo.TicketStats(ctx)
		if err != nil {
			return nil, err
		}

		// cancelled tickets were refunded and carry no revenue
		sold := lo.Filter(stats, func(r ticketStats, _ int) bool { return r.Status != statusCancelled })
		sum := func(pick func(ticketStats) decimal.Decimal) decimal.Decimal {
			return lo.Reduce(sold, func(acc decimal.Decimal, r ticketStats, _ int) decimal.Decimal {
				return acc.Add(pick(r))
			}, decimal.Zero)
		}

		return &AdminDashboard{
			TotalUsers:         lo.SumBy(roles, func(r roleCount) int { return r.Count }),
			UsersByRole:        lo.Associate(roles, func(r roleCount) (string, int) { return r.Role, r.Count }),
			TotalEvents:        eventCount,
			TotalTickets:       lo.SumBy(stats, func(r ticketStats) int { return r.Count }),
			CancelledTickets:   countByStatus(stats)[statusCancelled],
			GrossSales:         sum(func(r ticketStats) decimal.Decimal { return r.Price }),
			PlatformCommission: sum(func(r ticketStats) decimal.Decimal { return r.CommissionAmount }),
			ProviderPayouts:    sum(func(r ticketStats) decimal.Decimal { return r.ProviderAmount }),
			GeneratedAt:        s.now().UTC(),
		}, nil
	})
}

func countByStatus(stats []ticketStats) map[string]int {
	return lo.Associate(stats, func(r ticketStats) (string, int) { return r.Status, r.Count })
}

// cached reads through the Redis cache when one is configured.
func cached[T any](ctx context.Context, s *service, key string, ttl time.Duration, build func() (*T, error)) (*T, error) {
	if s.cacheService == nil {
		return build()
	}
	var out T
	err := s.cacheService.GetOrSet(ctx, key, ttl, func() (interface{}, error) { return build() }, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
