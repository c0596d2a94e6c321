package analytics

import (
	"context"
	"testing"

	"ticketflow/internal/events"
	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/users"
	"ticketflow/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	events      []events.Event
	eventStats  []eventTicketStats
	stats       []ticketStats
	active      int
	used        int
	roles       []roleCount
	eventsCount int
}

func (r *stubRepo) ProviderEvents(context.Context, uuid.UUID) ([]events.Event, error) {
	return r.events, nil
}

func (r *stubRepo) EventTicketStats(context.Context, []uuid.UUID) ([]eventTicketStats, error) {
	return r.eventStats, nil
}

func (r *stubRepo) TicketStats(context.Context) ([]ticketStats, error) { return r.stats, nil }

func (r *stubRepo) InvitationCounts(context.Context) (int, int, error) {
	return r.active, r.used, nil
}

func (r *stubRepo) UserRoles(context.Context) ([]roleCount, error) { return r.roles, nil }
func (r *stubRepo) CountEvents(context.Context) (int, error)       { return r.eventsCount, nil }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProviderDashboardSkipsCancelledTickets(t *testing.T) {
	logger.SetDefault(logger.Discard())
	a, b := uuid.New(), uuid.New()
	repo := &stubRepo{
		events: []events.Event{
			{ID: a, Title: "Jazz Night", TotalTickets: 10, TicketsAvailable: 7},
			{ID: b, Title: "Opera", TotalTickets: 10, TicketsAvailable: 9},
		},
		eventStats: []eventTicketStats{
			{EventID: a, Status: statusUnused, Count: 2, Earnings: dec("180")},
			{EventID: a, Status: statusUsed, Count: 1, Earnings: dec("90")},
			{EventID: a, Status: statusCancelled, Count: 1, Earnings: dec("90")},
			{EventID: b, Status: statusUsed, Count: 1, Earnings: dec("45.50")},
		},
	}
	svc := NewService(repo)
	provider := users.Identity{UserID: uuid.New(), Role: users.RoleProvider}

	dash, err := svc.ProviderDashboard(context.Background(), provider)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.TotalEvents)
	assert.Equal(t, 4, dash.TicketsIssued)
	assert.Equal(t, 2, dash.TicketsUsed)
	assert.Equal(t, "315.50", dash.Earnings.StringFixed(2))
	assert.Equal(t, 20.0, dash.SellThrough)
	require.Len(t, dash.Events, 2)
	assert.Equal(t, 3, dash.Events[0].TicketsSold)
}

func TestAdminDashboardSumsCommission(t *testing.T) {
	logger.SetDefault(logger.Discard())
	repo := &stubRepo{
		stats: []ticketStats{
			{Status: statusUnused, Count: 3, Price: dec("300"), CommissionAmount: dec("30"), ProviderAmount: dec("270")},
			{Status: statusUsed, Count: 1, Price: dec("100"), CommissionAmount: dec("10"), ProviderAmount: dec("90")},
			{Status: statusCancelled, Count: 2, Price: dec("200"), CommissionAmount: dec("20"), ProviderAmount: dec("180")},
		},
		roles:       []roleCount{{Role: "customer", Count: 5}, {Role: "provider", Count: 2}},
		eventsCount: 3,
	}
	svc := NewService(repo)

	_, err := svc.AdminDashboard(context.Background(), users.Identity{UserID: uuid.New(), Role: users.RoleProvider})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	dash, err := svc.AdminDashboard(context.Background(), users.Identity{UserID: uuid.New(), Role: users.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 7, dash.TotalUsers)
	assert.Equal(t, 5, dash.UsersByRole["customer"])
	assert.Equal(t, 6, dash.TotalTickets)
	assert.Equal(t, 2, dash.CancelledTickets)
	assert.Equal(t, "40.00", dash.PlatformCommission.StringFixed(2))
	assert.Equal(t, "360.00", dash.ProviderPayouts.StringFixed(2))
	assert.True(t, dash.GrossSales.Equal(dash.PlatformCommission.Add(dash.ProviderPayouts)))
}

func TestStaffDashboard(t *testing.T) {
	logger.SetDefault(logger.Discard())
	repo := &stubRepo{
		stats: []ticketStats{
			{Status: statusUnused, Count: 4},
			{Status: statusUsed, Count: 6},
		},
		active: 2,
		used:   1,
	}
	svc := NewService(repo)

	dash, err := svc.StaffDashboard(context.Background(), users.Identity{UserID: uuid.New(), Role: users.RoleStaff})
	require.NoError(t, err)
	assert.Equal(t, 10, dash.TotalTickets)
	assert.Equal(t, 6, dash.UsedTickets)
	assert.Equal(t, 4, dash.UnusedTickets)
	assert.Equal(t, 1, dash.RedeemedInvitations)
}
