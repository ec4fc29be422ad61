package repositories

import (
	"context"
	"testing"
	"time"

	"flightwatch/internal/constants"
	"flightwatch/internal/models"
	gormModels "flightwatch/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&gormModels.User{},
		&gormModels.TrackedFlight{},
		&gormModels.Rule{},
		&gormModels.Condition{},
		&gormModels.Alert{},
		&gormModels.Notification{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func createFlight(t *testing.T, db *gorm.DB, userID, status string) *gormModels.TrackedFlight {
	flight := &gormModels.TrackedFlight{
		ID:               uuid.NewString(),
		UserID:           userID,
		FlightNumber:     "BA142",
		DepartureAirport: "LHR",
		ArrivalAirport:   "JFK",
		Status:           status,
		Gate:             "A1",
	}
	if err := db.Create(flight).Error; err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}
	return flight
}

func TestCreate_GeneratesMissingIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTrackedFlightRepo(db)
	ctx := context.Background()

	flight := &gormModels.TrackedFlight{UserID: uuid.NewString(), FlightNumber: "BA142"}
	if err := repo.Create(ctx, flight); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := uuid.Parse(flight.ID); err != nil {
		t.Fatalf("Expected a generated uuid, got %q", flight.ID)
	}

	// Rows the engine creates carry no IDs either; two of them must not
	// collide on the primary key.
	notifRepo := NewNotificationRepo(db)
	first := &gormModels.Notification{UserID: flight.UserID, FlightID: flight.ID, Type: constants.AlertStatusChange, Title: "a", Message: "a"}
	second := &gormModels.Notification{UserID: flight.UserID, FlightID: flight.ID, Type: constants.AlertStatusChange, Title: "b", Message: "b"}
	if err := notifRepo.Create(ctx, first); err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	if err := notifRepo.Create(ctx, second); err != nil {
		t.Fatalf("Second create failed: %v", err)
	}
	if first.ID == second.ID {
		t.Errorf("Generated IDs must be distinct, both %q", first.ID)
	}
}

func TestCreate_InactiveStaysInactive(t *testing.T) {
	db := setupTestDB(t)
	userID := uuid.NewString()
	flight := createFlight(t, db, userID, "scheduled")

	alert := gormModels.Alert{UserID: userID, FlightID: flight.ID, Type: constants.AlertDelay, IsActive: false}
	if err := db.Create(&alert).Error; err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}
	rule := gormModels.Rule{UserID: userID, Name: "off", IsActive: false, Operator: constants.RuleOperatorAnd}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("Failed to create rule: %v", err)
	}

	var storedAlert gormModels.Alert
	db.First(&storedAlert, "id = ?", alert.ID)
	if storedAlert.IsActive {
		t.Error("An alert created inactive must persist as inactive")
	}
	var storedRule gormModels.Rule
	db.First(&storedRule, "id = ?", rule.ID)
	if storedRule.IsActive {
		t.Error("A rule created inactive must persist as inactive")
	}
}

func TestTrackedFlightRepo_GetByID_NotFound(t *testing.T) {
	repo := NewTrackedFlightRepo(setupTestDB(t))

	flight, err := repo.GetByID(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("Missing row should not be an error: %v", err)
	}
	if flight != nil {
		t.Errorf("Expected nil, got %v", flight)
	}
}

func TestTrackedFlightRepo_ListPollable_ExcludesTerminal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTrackedFlightRepo(db)
	userID := uuid.NewString()

	active := createFlight(t, db, userID, "scheduled")
	landed := createFlight(t, db, userID, "landed")

	flights, err := repo.ListPollable(context.Background(), []string{active.ID, landed.ID})
	if err != nil {
		t.Fatalf("ListPollable failed: %v", err)
	}
	if len(flights) != 1 {
		t.Fatalf("Expected only the active flight, got %d", len(flights))
	}
	if flights[0].ID != active.ID {
		t.Errorf("Expected %s, got %s", active.ID, flights[0].ID)
	}
}

func TestTrackedFlightRepo_ApplyFreshState_PartialUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTrackedFlightRepo(db)
	flight := createFlight(t, db, uuid.NewString(), "scheduled")

	dep := time.Date(2026, 9, 1, 10, 45, 0, 0, time.UTC)
	fresh := &models.Flight{
		Status: "Active",
		Departure: models.FlightEndpoint{
			Estimated: &dep,
		},
	}

	if err := repo.ApplyFreshState(context.Background(), flight.ID, fresh); err != nil {
		t.Fatalf("ApplyFreshState failed: %v", err)
	}

	var stored gormModels.TrackedFlight
	if err := db.First(&stored, "id = ?", flight.ID).Error; err != nil {
		t.Fatalf("Flight not found: %v", err)
	}
	if stored.Status != "active" {
		t.Errorf("Expected normalized status active, got %s", stored.Status)
	}
	// The provider omitted the gate, so the stored gate survives
	if stored.Gate != "A1" {
		t.Errorf("Gate should be untouched, got %q", stored.Gate)
	}
	if stored.DepartureTime == nil || !stored.DepartureTime.UTC().Equal(dep) {
		t.Errorf("Expected departure %v, got %v", dep, stored.DepartureTime)
	}
}

func TestTrackedFlightRepo_ApplyFreshState_EmptyFresh(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTrackedFlightRepo(db)
	flight := createFlight(t, db, uuid.NewString(), "scheduled")

	if err := repo.ApplyFreshState(context.Background(), flight.ID, &models.Flight{}); err != nil {
		t.Fatalf("Empty fresh state should be a no-op: %v", err)
	}

	var stored gormModels.TrackedFlight
	db.First(&stored, "id = ?", flight.ID)
	if stored.Status != "scheduled" || stored.Gate != "A1" {
		t.Errorf("Nothing should change, got status=%q gate=%q", stored.Status, stored.Gate)
	}
}

func TestTrackedFlightRepo_Delete_RemovesDependents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTrackedFlightRepo(db)
	userID := uuid.NewString()
	flight := createFlight(t, db, userID, "scheduled")

	alert := gormModels.Alert{
		ID:       uuid.NewString(),
		UserID:   userID,
		FlightID: flight.ID,
		Type:     constants.AlertGateChange,
		IsActive: true,
	}
	if err := db.Create(&alert).Error; err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}

	if err := repo.Delete(context.Background(), flight.ID, userID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var alertCount int64
	db.Model(&gormModels.Alert{}).Where("flight_id = ?", flight.ID).Count(&alertCount)
	if alertCount != 0 {
		t.Errorf("Dependent alerts should be deleted, got %d", alertCount)
	}
}

func TestTrackedFlightRepo_Delete_WrongUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTrackedFlightRepo(db)
	flight := createFlight(t, db, uuid.NewString(), "scheduled")

	if err := repo.Delete(context.Background(), flight.ID, uuid.NewString()); err == nil {
		t.Error("Deleting another user's flight should fail")
	}
}

func TestAlertRepo_ListActiveDirect(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAlertRepo(db)
	userID := uuid.NewString()
	flight := createFlight(t, db, userID, "scheduled")

	ruleID := uuid.NewString()
	db.Create(&gormModels.Rule{ID: ruleID, UserID: userID, Name: "r", IsActive: true, Operator: constants.RuleOperatorAnd})

	alerts := []gormModels.Alert{
		{ID: uuid.NewString(), UserID: userID, FlightID: flight.ID, Type: constants.AlertGateChange, IsActive: true},
		{ID: uuid.NewString(), UserID: userID, FlightID: flight.ID, Type: constants.AlertDelay, IsActive: false},
		{ID: uuid.NewString(), UserID: userID, FlightID: flight.ID, RuleID: &ruleID, Type: constants.AlertDelay, IsActive: true},
	}
	for i := range alerts {
		if err := db.Create(&alerts[i]).Error; err != nil {
			t.Fatalf("Failed to create alert: %v", err)
		}
	}

	got, err := repo.ListActiveDirect(context.Background())
	if err != nil {
		t.Fatalf("ListActiveDirect failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected only the active rule-less alert, got %d", len(got))
	}
	if got[0].Type != constants.AlertGateChange {
		t.Errorf("Expected the gate alert, got %s", got[0].Type)
	}
	if got[0].Flight.ID != flight.ID {
		t.Errorf("Expected the flight preloaded, got %q", got[0].Flight.ID)
	}
}

func TestRuleRepo_ListActive_PreloadsAssociations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRuleRepo(db)
	userID := uuid.NewString()
	flight := createFlight(t, db, userID, "scheduled")

	rule := gormModels.Rule{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     "gate watch",
		IsActive: true,
		Operator: constants.RuleOperatorOr,
		Alerts: []gormModels.Alert{
			{ID: uuid.NewString(), UserID: userID, FlightID: flight.ID, Type: constants.AlertGateChange, IsActive: true},
		},
		Conditions: []gormModels.Condition{
			{ID: uuid.NewString(), FlightID: flight.ID, Field: "status", Operator: "equals", Value: "scheduled"},
		},
	}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("Failed to create rule: %v", err)
	}
	db.Create(&gormModels.Rule{ID: uuid.NewString(), UserID: userID, Name: "off", IsActive: false, Operator: constants.RuleOperatorAnd})

	rules, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("Expected 1 active rule, got %d", len(rules))
	}
	if len(rules[0].Alerts) != 1 || len(rules[0].Conditions) != 1 {
		t.Fatalf("Expected alerts and conditions preloaded, got %d/%d", len(rules[0].Alerts), len(rules[0].Conditions))
	}
	if rules[0].Alerts[0].Flight.ID != flight.ID {
		t.Errorf("Expected the alert's flight preloaded")
	}
	if rules[0].Conditions[0].Flight.ID != flight.ID {
		t.Errorf("Expected the condition's flight preloaded")
	}
}

func TestRuleRepo_DeleteWithDependents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRuleRepo(db)
	userID := uuid.NewString()
	flight := createFlight(t, db, userID, "scheduled")

	rule := gormModels.Rule{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     "gate watch",
		IsActive: true,
		Operator: constants.RuleOperatorAnd,
		Alerts: []gormModels.Alert{
			{ID: uuid.NewString(), UserID: userID, FlightID: flight.ID, Type: constants.AlertGateChange, IsActive: true},
		},
		Conditions: []gormModels.Condition{
			{ID: uuid.NewString(), FlightID: flight.ID, Field: "status", Operator: "equals", Value: "scheduled"},
		},
	}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("Failed to create rule: %v", err)
	}

	if err := repo.DeleteWithDependents(context.Background(), rule.ID, userID); err != nil {
		t.Fatalf("DeleteWithDependents failed: %v", err)
	}

	var alertCount, condCount int64
	db.Model(&gormModels.Alert{}).Where("rule_id = ?", rule.ID).Count(&alertCount)
	db.Model(&gormModels.Condition{}).Where("rule_id = ?", rule.ID).Count(&condCount)
	if alertCount != 0 || condCount != 0 {
		t.Errorf("Dependents should be gone, got %d alerts %d conditions", alertCount, condCount)
	}
}

func TestNotificationRepo_ListMarkCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepo(db)
	userID := uuid.NewString()
	flightID := uuid.NewString()

	ctx := context.Background()
	var firstID string
	for i := 0; i < 3; i++ {
		n := &gormModels.Notification{
			ID:       uuid.NewString(),
			UserID:   userID,
			FlightID: flightID,
			Type:     constants.AlertStatusChange,
			Title:    "update",
			Message:  "something changed",
		}
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if i == 0 {
			firstID = n.ID
		}
	}

	list, err := repo.ListByUser(ctx, userID, 2)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Expected the limit respected, got %d", len(list))
	}

	count, err := repo.CountUnread(ctx, userID)
	if err != nil || count != 3 {
		t.Fatalf("Expected 3 unread, got %d err %v", count, err)
	}

	if err := repo.MarkRead(ctx, firstID, userID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	count, _ = repo.CountUnread(ctx, userID)
	if count != 2 {
		t.Errorf("Expected 2 unread after MarkRead, got %d", count)
	}

	// Marking someone else's notification fails
	if err := repo.MarkRead(ctx, firstID, uuid.NewString()); err == nil {
		t.Error("MarkRead for the wrong user should fail")
	}
}
