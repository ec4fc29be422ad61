package engine

import (
	"testing"
	"time"

	"flightwatch/internal/constants"
	"flightwatch/internal/models"
	gormModels "flightwatch/internal/models/gorm"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestDetectChanges_NoChanges(t *testing.T) {
	dep := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	stored := &gormModels.TrackedFlight{
		Status:        "scheduled",
		Gate:          "A1",
		DepartureTime: timePtr(dep),
	}
	fresh := &models.Flight{
		Status: "scheduled",
		Departure: models.FlightEndpoint{
			Gate:      "A1",
			Scheduled: timePtr(dep),
		},
	}

	changes := DetectChanges(stored, fresh)
	if len(changes) != 0 {
		t.Fatalf("Expected no changes, got %d: %v", len(changes), changes)
	}
}

func TestDetectChanges_StatusChange(t *testing.T) {
	stored := &gormModels.TrackedFlight{Status: "scheduled"}
	fresh := &models.Flight{Status: "Active"}

	changes := DetectChanges(stored, fresh)
	if len(changes) != 2 {
		t.Fatalf("Expected status change plus departure event, got %d: %v", len(changes), changes)
	}
	if changes[0].Type != constants.AlertStatusChange {
		t.Errorf("Expected STATUS_CHANGE, got %s", changes[0].Type)
	}
	if changes[0].Old != "scheduled" || changes[0].New != "active" {
		t.Errorf("Expected scheduled->active, got %q -> %q", changes[0].Old, changes[0].New)
	}
	if changes[1].Type != constants.AlertDeparture {
		t.Errorf("Expected DEPARTURE for scheduled->active, got %s", changes[1].Type)
	}
}

func TestDetectChanges_DelayBelowThreshold(t *testing.T) {
	dep := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	stored := &gormModels.TrackedFlight{
		Status:        "scheduled",
		DepartureTime: timePtr(dep),
	}
	fresh := &models.Flight{
		Status: "scheduled",
		Departure: models.FlightEndpoint{
			Scheduled: timePtr(dep.Add(10 * time.Minute)),
		},
	}

	changes := DetectChanges(stored, fresh)
	if len(changes) != 0 {
		t.Fatalf("A 10 minute shift should not produce a delay event, got %v", changes)
	}
}

func TestDetectChanges_DelayAboveThreshold(t *testing.T) {
	dep := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	stored := &gormModels.TrackedFlight{
		Status:        "scheduled",
		DepartureTime: timePtr(dep),
	}
	fresh := &models.Flight{
		Status: "scheduled",
		Departure: models.FlightEndpoint{
			Scheduled: timePtr(dep.Add(45 * time.Minute)),
		},
	}

	changes := DetectChanges(stored, fresh)
	if len(changes) != 1 {
		t.Fatalf("Expected exactly one delay event, got %d: %v", len(changes), changes)
	}
	if changes[0].Type != constants.AlertDelay {
		t.Errorf("Expected DELAY, got %s", changes[0].Type)
	}
	if changes[0].DelayMinutes != 45 {
		t.Errorf("Expected 45 delay minutes, got %d", changes[0].DelayMinutes)
	}
}

func TestDetectChanges_EarlierDepartureIsNegative(t *testing.T) {
	dep := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	stored := &gormModels.TrackedFlight{
		Status:        "scheduled",
		DepartureTime: timePtr(dep),
	}
	fresh := &models.Flight{
		Status: "scheduled",
		Departure: models.FlightEndpoint{
			Scheduled: timePtr(dep.Add(-20 * time.Minute)),
		},
	}

	changes := DetectChanges(stored, fresh)
	if len(changes) != 1 {
		t.Fatalf("Expected one delay event, got %d", len(changes))
	}
	if changes[0].DelayMinutes != -20 {
		t.Errorf("Expected -20 delay minutes, got %d", changes[0].DelayMinutes)
	}
}

func TestDetectChanges_EstimatedPreferredOverScheduled(t *testing.T) {
	dep := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	stored := &gormModels.TrackedFlight{
		Status:        "scheduled",
		DepartureTime: timePtr(dep),
	}
	fresh := &models.Flight{
		Status: "scheduled",
		Departure: models.FlightEndpoint{
			Scheduled: timePtr(dep),
			Estimated: timePtr(dep.Add(30 * time.Minute)),
		},
	}

	changes := DetectChanges(stored, fresh)
	if len(changes) != 1 || changes[0].Type != constants.AlertDelay {
		t.Fatalf("Expected a delay event from the estimated time, got %v", changes)
	}
	if changes[0].DelayMinutes != 30 {
		t.Errorf("Expected 30 delay minutes, got %d", changes[0].DelayMinutes)
	}
}

func TestDetectChanges_GateChange(t *testing.T) {
	stored := &gormModels.TrackedFlight{Status: "scheduled", Gate: "A1"}
	fresh := &models.Flight{
		Status:    "scheduled",
		Departure: models.FlightEndpoint{Gate: "B2"},
	}

	changes := DetectChanges(stored, fresh)
	if len(changes) != 1 || changes[0].Type != constants.AlertGateChange {
		t.Fatalf("Expected one gate change, got %v", changes)
	}
	if changes[0].Old != "A1" || changes[0].New != "B2" {
		t.Errorf("Expected A1 -> B2, got %q -> %q", changes[0].Old, changes[0].New)
	}
}

func TestDetectChanges_GateClearedIsNotAChange(t *testing.T) {
	stored := &gormModels.TrackedFlight{Status: "scheduled", Gate: "A1"}
	fresh := &models.Flight{Status: "scheduled"}

	changes := DetectChanges(stored, fresh)
	if len(changes) != 0 {
		t.Fatalf("A provider omitting the gate should not fire, got %v", changes)
	}
}

func TestDetectChanges_Arrival(t *testing.T) {
	stored := &gormModels.TrackedFlight{Status: "en-route"}
	fresh := &models.Flight{Status: "landed"}

	changes := DetectChanges(stored, fresh)

	var sawArrival, sawStatus bool
	for _, c := range changes {
		switch c.Type {
		case constants.AlertArrival:
			sawArrival = true
		case constants.AlertStatusChange:
			sawStatus = true
		}
	}
	if !sawArrival || !sawStatus {
		t.Fatalf("Expected ARRIVAL and STATUS_CHANGE, got %v", changes)
	}
}

func TestDetectChanges_NilInputs(t *testing.T) {
	if changes := DetectChanges(nil, &models.Flight{}); changes != nil {
		t.Errorf("Expected nil for nil stored flight, got %v", changes)
	}
	if changes := DetectChanges(&gormModels.TrackedFlight{}, nil); changes != nil {
		t.Errorf("Expected nil for nil fresh flight, got %v", changes)
	}
}
