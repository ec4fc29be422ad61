package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"flightwatch/internal/constants"
	"flightwatch/internal/models"
	gormModels "flightwatch/internal/models/gorm"
)

// FiringAlert is one (alert, change) pair that should produce a
// notification this cycle.
type FiringAlert struct {
	Alert  gormModels.Alert
	Flight *gormModels.TrackedFlight
	Event  models.ChangeEvent
	RuleID *string
}

// MatchAlert decides whether an alert fires against the change events
// produced for its flight this cycle. For DELAY alerts the configured
// threshold must be met or exceeded by the absolute schedule shift.
func MatchAlert(alert gormModels.Alert, changes []models.ChangeEvent) (models.ChangeEvent, bool) {
	for _, event := range changes {
		if event.Type != alert.Type {
			continue
		}
		if alert.Type == constants.AlertDelay && alert.Threshold != nil {
			minutes := event.DelayMinutes
			if minutes < 0 {
				minutes = -minutes
			}
			if minutes < *alert.Threshold {
				continue
			}
		}
		return event, true
	}
	return models.ChangeEvent{}, false
}

// EvaluateDirectAlerts maps detected changes onto active rule-less
// alerts. One firing entry per matching alert.
func EvaluateDirectAlerts(alerts []gormModels.Alert, changesByFlight map[string][]models.ChangeEvent, flights map[string]*gormModels.TrackedFlight) []FiringAlert {
	var firing []FiringAlert
	for _, alert := range alerts {
		if !alert.IsActive || alert.RuleID != nil {
			continue
		}
		flight, ok := flights[alert.FlightID]
		if !ok {
			continue
		}
		if event, ok := MatchAlert(alert, changesByFlight[alert.FlightID]); ok {
			firing = append(firing, FiringAlert{
				Alert:  alert,
				Flight: flight,
				Event:  event,
			})
		}
	}
	return firing
}

// EvaluateRule applies the rule's operator across its flight references
// and, when the rule fires, checks each of its still-active alerts
// individually, exactly like the direct path.
//
// A rule with nothing to evaluate is not satisfied, for AND and OR
// alike; it is skipped rather than firing forever on an empty set.
func EvaluateRule(rule gormModels.Rule, changesByFlight map[string][]models.ChangeEvent, flights map[string]*gormModels.TrackedFlight) ([]FiringAlert, error) {
	if !rule.IsActive {
		return nil, nil
	}

	conditionsByFlight := make(map[string][]gormModels.Condition)
	for _, cond := range rule.Conditions {
		conditionsByFlight[cond.FlightID] = append(conditionsByFlight[cond.FlightID], cond)
	}

	// Referenced flights come from conditions when the rule has any,
	// otherwise from its alerts.
	refSet := make(map[string]bool)
	if len(rule.Conditions) > 0 {
		for _, cond := range rule.Conditions {
			refSet[cond.FlightID] = true
		}
	} else {
		for _, alert := range rule.Alerts {
			if alert.IsActive {
				refSet[alert.FlightID] = true
			}
		}
	}

	if len(refSet) == 0 {
		return nil, nil
	}

	satisfiedCount := 0
	for flightID := range refSet {
		satisfied, err := flightSatisfied(flightID, conditionsByFlight[flightID], changesByFlight[flightID], flights[flightID])
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		if satisfied {
			satisfiedCount++
		}
	}

	fires := false
	switch rule.Operator {
	case constants.RuleOperatorAnd:
		fires = satisfiedCount == len(refSet)
	case constants.RuleOperatorOr:
		fires = satisfiedCount > 0
	default:
		return nil, fmt.Errorf("rule %s: unsupported operator %q", rule.ID, rule.Operator)
	}

	if !fires {
		return nil, nil
	}

	var firing []FiringAlert
	for _, alert := range rule.Alerts {
		if !alert.IsActive {
			continue
		}
		flight, ok := flights[alert.FlightID]
		if !ok {
			continue
		}
		if event, ok := MatchAlert(alert, changesByFlight[alert.FlightID]); ok {
			ruleID := rule.ID
			firing = append(firing, FiringAlert{
				Alert:  alert,
				Flight: flight,
				Event:  event,
				RuleID: &ruleID,
			})
		}
	}
	return firing, nil
}

// flightSatisfied decides whether one flight reference counts toward the
// rule's operator: condition predicates when the rule defines them, a
// non-empty change set otherwise.
func flightSatisfied(flightID string, conditions []gormModels.Condition, changes []models.ChangeEvent, flight *gormModels.TrackedFlight) (bool, error) {
	if len(conditions) == 0 {
		return len(changes) > 0, nil
	}
	if flight == nil {
		// Referenced flight was not polled this cycle (terminal or
		// missing data); its conditions cannot be confirmed.
		return false, nil
	}
	for _, cond := range conditions {
		ok, err := evalCondition(cond, flight, changes)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// ---------------------------------------------------------------------
// Condition predicates
// ---------------------------------------------------------------------

type fieldAccessor func(*gormModels.TrackedFlight) string

// conditionFields is the closed set of fields a condition may reference.
// Unknown fields are rejected at rule-creation time, not silently
// falsified at evaluation time.
var conditionFields = map[string]fieldAccessor{
	"status":       func(f *gormModels.TrackedFlight) string { return constants.NormalizeStatus(f.Status) },
	"gate":         func(f *gormModels.TrackedFlight) string { return f.Gate },
	"terminal":     func(f *gormModels.TrackedFlight) string { return f.Terminal },
	"flightNumber": func(f *gormModels.TrackedFlight) string { return f.FlightNumber },
	"departureTime": func(f *gormModels.TrackedFlight) string {
		if f.DepartureTime == nil {
			return ""
		}
		return f.DepartureTime.UTC().Format(time.RFC3339)
	},
	"arrivalTime": func(f *gormModels.TrackedFlight) string {
		if f.ArrivalTime == nil {
			return ""
		}
		return f.ArrivalTime.UTC().Format(time.RFC3339)
	},
}

// changedEventTypes maps condition fields to the change event types that
// count as that field having changed this cycle.
var changedEventTypes = map[string][]constants.AlertType{
	"status":        {constants.AlertStatusChange, constants.AlertDeparture, constants.AlertArrival},
	"gate":          {constants.AlertGateChange},
	"departureTime": {constants.AlertDelay, constants.AlertDeparture},
	"arrivalTime":   {constants.AlertArrival},
}

// conditionOperators is the closed set of supported predicate operators.
var conditionOperators = map[string]bool{
	"equals":             true,
	"notEquals":          true,
	"contains":           true,
	"notContains":        true,
	"greaterThan":        true,
	"lessThan":           true,
	"greaterThanOrEqual": true,
	"lessThanOrEqual":    true,
	"between":            true,
	"changed":            true,
}

// ValidateCondition rejects unknown fields and operators at rule-creation
// time. The changed operator is only meaningful for fields a change
// event tracks.
func ValidateCondition(field, operator string) error {
	if _, ok := conditionFields[field]; !ok {
		return fmt.Errorf("unsupported condition field %q", field)
	}
	if !conditionOperators[operator] {
		return fmt.Errorf("unsupported condition operator %q", operator)
	}
	if operator == "changed" {
		if _, ok := changedEventTypes[field]; !ok {
			return fmt.Errorf("operator %q is not supported for field %q", operator, field)
		}
	}
	return nil
}

func evalCondition(cond gormModels.Condition, flight *gormModels.TrackedFlight, changes []models.ChangeEvent) (bool, error) {
	accessor, ok := conditionFields[cond.Field]
	if !ok {
		return false, fmt.Errorf("unsupported condition field %q", cond.Field)
	}
	val := accessor(flight)

	switch cond.Operator {
	case "equals":
		return strings.EqualFold(val, cond.Value), nil
	case "notEquals":
		return !strings.EqualFold(val, cond.Value), nil
	case "contains":
		return strings.Contains(strings.ToLower(val), strings.ToLower(cond.Value)), nil
	case "notContains":
		return !strings.Contains(strings.ToLower(val), strings.ToLower(cond.Value)), nil
	case "greaterThan":
		cmp, ok := compareValues(val, cond.Value)
		return ok && cmp > 0, nil
	case "lessThan":
		cmp, ok := compareValues(val, cond.Value)
		return ok && cmp < 0, nil
	case "greaterThanOrEqual":
		cmp, ok := compareValues(val, cond.Value)
		return ok && cmp >= 0, nil
	case "lessThanOrEqual":
		cmp, ok := compareValues(val, cond.Value)
		return ok && cmp <= 0, nil
	case "between":
		return evalBetween(val, cond.Value), nil
	case "changed":
		for _, eventType := range changedEventTypes[cond.Field] {
			for _, change := range changes {
				if change.Type == eventType {
					return true, nil
				}
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unsupported condition operator %q", cond.Operator)
	}
}

// compareValues orders two values numerically when both parse as
// numbers, or chronologically when both parse as RFC3339 timestamps.
// ok is false when the values are not comparable; an incomparable pair
// keeps ordering predicates from firing rather than erroring.
func compareValues(a, b string) (int, bool) {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}

	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	if errA == nil && errB == nil {
		switch {
		case ta.Before(tb):
			return -1, true
		case ta.After(tb):
			return 1, true
		default:
			return 0, true
		}
	}

	return 0, false
}

// evalBetween treats the condition value as an inclusive "min,max" pair.
func evalBetween(val, bounds string) bool {
	parts := strings.SplitN(bounds, ",", 2)
	if len(parts) != 2 {
		return false
	}
	lo, okLo := compareValues(val, strings.TrimSpace(parts[0]))
	hi, okHi := compareValues(val, strings.TrimSpace(parts[1]))
	return okLo && okHi && lo >= 0 && hi <= 0
}
