package engine

import (
	"math"
	"time"

	"flightwatch/internal/constants"
	"flightwatch/internal/models"
	gormModels "flightwatch/internal/models/gorm"
)

// delayThreshold is the schedule shift below which a DELAY event is not
// worth notifying about.
const delayThreshold = 10 * time.Minute

// DetectChanges compares the stored snapshot of a tracked flight against
// freshly fetched provider state and returns the meaningful deltas. Pure
// function: multiple rules can fire in one call, missing fields on
// either side simply keep their rule from firing.
func DetectChanges(stored *gormModels.TrackedFlight, fresh *models.Flight) []models.ChangeEvent {
	if stored == nil || fresh == nil {
		return nil
	}

	var events []models.ChangeEvent

	storedStatus := constants.NormalizeStatus(stored.Status)
	freshStatus := constants.NormalizeStatus(fresh.Status)

	if freshStatus != "" && freshStatus != storedStatus {
		events = append(events, models.ChangeEvent{
			Type: constants.AlertStatusChange,
			Old:  storedStatus,
			New:  freshStatus,
		})
	}

	if freshDep := fresh.DepartureTime(); stored.DepartureTime != nil && freshDep != nil {
		diff := freshDep.Sub(*stored.DepartureTime)
		if diff > delayThreshold || diff < -delayThreshold {
			events = append(events, models.ChangeEvent{
				Type:         constants.AlertDelay,
				Old:          stored.DepartureTime.UTC().Format(time.RFC3339),
				New:          freshDep.UTC().Format(time.RFC3339),
				DelayMinutes: int(math.Round(diff.Minutes())),
			})
		}
	}

	if freshGate := fresh.Departure.Gate; freshGate != "" && freshGate != stored.Gate {
		events = append(events, models.ChangeEvent{
			Type: constants.AlertGateChange,
			Old:  stored.Gate,
			New:  freshGate,
		})
	}

	if constants.IsAirborne(freshStatus) && !constants.IsAirborne(storedStatus) {
		events = append(events, models.ChangeEvent{
			Type: constants.AlertDeparture,
			Old:  storedStatus,
			New:  freshStatus,
		})
	}

	if constants.IsLanded(freshStatus) && !constants.IsLanded(storedStatus) {
		events = append(events, models.ChangeEvent{
			Type: constants.AlertArrival,
			Old:  storedStatus,
			New:  freshStatus,
		})
	}

	return events
}
