package constants

// AlertType enumerates the supported alert/notification trigger types.
type AlertType string

const (
	AlertStatusChange AlertType = "STATUS_CHANGE"
	AlertDelay        AlertType = "DELAY"
	AlertGateChange   AlertType = "GATE_CHANGE"
	AlertDeparture    AlertType = "DEPARTURE"
	AlertArrival      AlertType = "ARRIVAL"

	// NotificationTrackingEnded marks the final notification sent when a
	// flight reaches a terminal state and polling stops.
	NotificationTrackingEnded AlertType = "TRACKING_ENDED"
)

// RuleOperator enumerates the logical combinators a rule can use across
// its flight references.
type RuleOperator string

const (
	RuleOperatorAnd RuleOperator = "AND"
	RuleOperatorOr  RuleOperator = "OR"
)

// IsValidAlertType reports whether t is a user-configurable alert type.
func IsValidAlertType(t AlertType) bool {
	switch t {
	case AlertStatusChange, AlertDelay, AlertGateChange, AlertDeparture, AlertArrival:
		return true
	}
	return false
}
