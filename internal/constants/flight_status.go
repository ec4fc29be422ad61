package constants

import "strings"

// Provider status vocabulary is free text; these cover the values seen
// from aviationstack/aerodatabox style APIs after normalization.
const (
	StatusScheduled = "scheduled"
	StatusActive    = "active"
	StatusEnRoute   = "en-route"
	StatusLanded    = "landed"
	StatusArrived   = "arrived"
	StatusCancelled = "cancelled"
	StatusDiverted  = "diverted"
	StatusIncident  = "incident"
	StatusUnknown   = "unknown"
)

// NormalizeStatus lowercases and trims a provider-supplied status so
// comparisons are stable across providers.
func NormalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// IsAirborne reports whether a status describes a flight in the air.
func IsAirborne(status string) bool {
	switch NormalizeStatus(status) {
	case StatusActive, StatusEnRoute, "airborne", "in-air", "started":
		return true
	}
	return false
}

// IsLanded reports whether a status describes a concluded flight.
func IsLanded(status string) bool {
	switch NormalizeStatus(status) {
	case StatusLanded, StatusArrived, "arrived late", "landed late":
		return true
	}
	return false
}

// IsCancelledOrDiverted reports whether a flight will not complete its
// planned route; such flights are polled at a long fixed interval.
func IsCancelledOrDiverted(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusDiverted, "canceled":
		return true
	}
	return false
}
