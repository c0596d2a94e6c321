package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"ticketflow/internal/shared/utils/response"
	"ticketflow/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware limits requests per client IP and route class. Redis
// failures let the request through.
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	log := logger.GetDefault().WithComponent("ratelimit")
	return func(c *gin.Context) {
		limitType := getRateLimitType(c.FullPath())
		if limitType == RateLimitTypeHealth {
			c.Next()
			return
		}
		clientIP := getClientIP(c)

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			log.WarnContext(c.Request.Context(), "Rate limit check failed", "error", err, "client_ip", clientIP)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			log.LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/metrics"):
		return RateLimitTypeHealth

	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin

	case strings.Contains(path, "/analytics"):
		return RateLimitTypeAnalytics

	case strings.Contains(path, "/verify/"):
		return RateLimitTypeVerify

	case strings.HasSuffix(path, "/book"),
		strings.HasSuffix(path, "/cancel"):
		return RateLimitTypeBooking

	case strings.Contains(path, "/events"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// extracts real client IP
func getClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := c.GetHeader("X-Real-IP"); xRealIP != "" && net.ParseIP(xRealIP) != nil {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}
