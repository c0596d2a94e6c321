package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ticketflow/internal/shared/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

type RateLimitType string

const (
	RateLimitTypeDefault   RateLimitType = "default"
	RateLimitTypePublic    RateLimitType = "public"
	RateLimitTypeBooking   RateLimitType = "booking"
	RateLimitTypeVerify    RateLimitType = "verify"
	RateLimitTypeAdmin     RateLimitType = "admin"
	RateLimitTypeAnalytics RateLimitType = "analytics"
	RateLimitTypeHealth    RateLimitType = "health"
)

const keyPrefix = "ticketflow:ratelimit"

type Config struct {
	Enabled           bool          `json:"enabled"`
	WindowDuration    time.Duration `json:"window_duration"`
	DefaultRequests   int           `json:"default_requests"`
	PublicRequests    int           `json:"public_requests"`
	BookingRequests   int           `json:"booking_requests"`
	VerifyRequests    int           `json:"verify_requests"`
	AdminRequests     int           `json:"admin_requests"`
	AnalyticsRequests int           `json:"analytics_requests"`
	WhitelistedIPs    []string      `json:"whitelisted_ips"`
}

// NewConfig maps the application settings onto limiter settings.
func NewConfig(cfg config.RateLimitConfig) *Config {
	return &Config{
		Enabled:           cfg.Enabled,
		WindowDuration:    cfg.WindowDuration,
		DefaultRequests:   cfg.DefaultRequests,
		PublicRequests:    cfg.PublicRequests,
		BookingRequests:   cfg.BookingRequests,
		VerifyRequests:    cfg.VerifyRequests,
		AdminRequests:     cfg.AdminRequests,
		AnalyticsRequests: cfg.AnalyticsRequests,
		WhitelistedIPs:    cfg.WhitelistedIPs,
	}
}

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// RateLimiter is a sliding-window limiter kept in Redis sorted sets.
type RateLimiter struct {
	client *redis.Client
	config *Config
	script *redis.Script
}

// Removes expired entries, counts the window and records the request
// only when it is admitted.
const slidingWindowScript = `
local key = KEYS[1]
local window_start = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local window_ms = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local current = redis.call('ZCARD', key)
if current >= limit then
	redis.call('PEXPIRE', key, window_ms)
	return {0, 0}
end

redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, window_ms)
return {1, limit - current - 1}
`

func NewRateLimiter(client *redis.Client, config *Config) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		script: redis.NewScript(slidingWindowScript),
	}
}

// IsAllowed checks and records one request of clientIP.
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.getLimit(limitType)
	if !r.config.Enabled || r.isWhitelisted(clientIP) {
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: time.Now().Add(r.config.WindowDuration).Unix(),
		}, nil
	}

	key := fmt.Sprintf("%s:%s:%s", keyPrefix, clientIP, limitType)
	return r.checkLimit(ctx, key, limit)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-r.config.WindowDuration)

	values, err := r.script.Run(ctx, r.client, []string{key},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		limit,
		r.config.WindowDuration.Milliseconds(),
		strconv.FormatInt(now.UnixNano(), 10)+"-"+uuid.NewString()[:8],
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected redis response: %v", values)
	}

	return &Result{
		Allowed:   values[0] == 1,
		Limit:     limit,
		Remaining: int(values[1]),
		ResetTime: now.Add(r.config.WindowDuration).Unix(),
	}, nil
}

func (r *RateLimiter) getLimit(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypePublic:
		return r.config.PublicRequests
	case RateLimitTypeBooking:
		return r.config.BookingRequests
	case RateLimitTypeVerify:
		return r.config.VerifyRequests
	case RateLimitTypeAdmin:
		return r.config.AdminRequests
	case RateLimitTypeAnalytics:
		return r.config.AnalyticsRequests
	case RateLimitTypeHealth:
		// health checks are never limited
		return 0
	default:
		return r.config.DefaultRequests
	}
}

func (r *RateLimiter) isWhitelisted(ip string) bool {
	return lo.Contains(r.config.WhitelistedIPs, ip)
}
