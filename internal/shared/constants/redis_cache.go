package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: ticketflow:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // event details
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // event listings
	TTL_DYNAMIC_MEDIUM     = 10 * time.Minute // dashboards
	TTL_REALTIME_SHORT     = 30 * time.Second // live availability
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "ticketflow"
)

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":events:list"         // + :page:X:limit:Y:search:Z
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
)

const (
	TTL_EVENT_LIST   = TTL_SEMI_STATIC_QUICK
	TTL_EVENT_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_ANALYTICS_ADMIN    = CACHE_PREFIX + ":analytics:admin"
	CACHE_KEY_ANALYTICS_STAFF    = CACHE_PREFIX + ":analytics:staff"
	CACHE_KEY_ANALYTICS_PROVIDER = CACHE_PREFIX + ":analytics:provider:uuid:" // + provider-id
)

const (
	TTL_ANALYTICS_DASHBOARD = TTL_DYNAMIC_MEDIUM
	TTL_ANALYTICS_STAFF     = TTL_REALTIME_SHORT
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_EVENT_LISTS = CACHE_PREFIX + ":events:list*"
	PATTERN_INVALIDATE_ANALYTICS   = CACHE_PREFIX + ":analytics:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildEventListKey -> "ticketflow:events:list:page:1:limit:10:search:jazz"
func BuildEventListKey(page, limit int, search string) string {
	key := fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_EVENTS_LIST, page, limit)
	if search != "" {
		key += ":search:" + search
	}
	return key
}

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildProviderAnalyticsKey(providerID string) string {
	return CACHE_KEY_ANALYTICS_PROVIDER + providerID
}
