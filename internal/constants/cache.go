package constants

import "time"

// CachePrefix namespaces cache keys per data class.
type CachePrefix string

const (
	CachePrefixFlight CachePrefix = "flight:"
	CachePrefixUser   CachePrefix = "user:"
)

const (
	// FlightCacheTTLActive applies while a flight is in the air; state
	// moves quickly so entries go stale fast.
	FlightCacheTTLActive = 5 * time.Minute

	// FlightCacheTTLScheduled applies to flights that have not departed.
	FlightCacheTTLScheduled = 30 * time.Minute

	// FlightCacheTTLFinal applies to landed/cancelled flights whose state
	// will not meaningfully change again.
	FlightCacheTTLFinal = 1 * time.Hour

	// CacheCleanupInterval is how often expired entries are swept.
	CacheCleanupInterval = 10 * time.Minute
)

// FlightCacheTTL picks a write-time TTL from the flight's current status.
func FlightCacheTTL(status string) time.Duration {
	switch {
	case IsAirborne(status):
		return FlightCacheTTLActive
	case IsLanded(status), IsCancelledOrDiverted(status):
		return FlightCacheTTLFinal
	default:
		return FlightCacheTTLScheduled
	}
}
