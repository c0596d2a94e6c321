package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticketflow/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		path string
		want RateLimitType
	}{
		{"/health", RateLimitTypeHealth},
		{"/metrics", RateLimitTypeHealth},
		{"/api/v1/admin/commission-rate", RateLimitTypeAdmin},
		{"/api/v1/analytics/provider", RateLimitTypeAnalytics},
		{"/api/v1/verify/tickets", RateLimitTypeVerify},
		{"/api/v1/events/:id/book", RateLimitTypeBooking},
		{"/api/v1/tickets/:id/cancel", RateLimitTypeBooking},
		{"/api/v1/events/:id", RateLimitTypePublic},
		{"/api/v1/tickets", RateLimitTypeDefault},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, getRateLimitType(tt.path))
		})
	}
}

func TestWhitelistedAndDisabledSkipRedis(t *testing.T) {
	limiter := NewRateLimiter(nil, &Config{
		Enabled:         true,
		WindowDuration:  time.Minute,
		BookingRequests: 5,
		WhitelistedIPs:  []string{"10.0.0.1"},
	})

	res, err := limiter.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 5, res.Limit)

	limiter.config.Enabled = false
	res, err = limiter.IsAllowed(context.Background(), "192.168.1.9", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMiddlewareSetsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.SetDefault(logger.Discard())

	limiter := NewRateLimiter(nil, &Config{Enabled: false, WindowDuration: time.Minute, PublicRequests: 100})
	r := gin.New()
	r.Use(Middleware(limiter))
	r.GET("/api/v1/events", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}
