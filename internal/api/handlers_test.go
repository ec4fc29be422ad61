package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"flightwatch/internal/auth"
	"flightwatch/internal/constants"
	"flightwatch/internal/db/repositories"
	gormModels "flightwatch/internal/models/gorm"

	"github.com/go-chi/chi/v5"
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

func setupHandlers(t *testing.T) (*Handlers, *gorm.DB, string) {
	db := setupTestDB(t)

	deps := &Dependencies{
		Repo: Repositories{
			Flights:       repositories.NewTrackedFlightRepo(db),
			Alerts:        repositories.NewAlertRepo(db),
			Rules:         repositories.NewRuleRepo(db),
			Notifications: repositories.NewNotificationRepo(db),
			Users:         repositories.NewUserRepo(db),
		},
	}

	userID := uuid.NewString()
	if err := db.Create(&gormModels.User{ID: userID, Email: "pilot@example.com", IsActive: true}).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	return NewHandlers(deps), db, userID
}

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := auth.SetUserClaims(req.Context(), &auth.UserClaims{UserID: userID})
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTrackFlightHandler(t *testing.T) {
	h, db, userID := setupHandlers(t)

	body, _ := json.Marshal(TrackFlightRequest{
		FlightNumber:     "BA142",
		DepartureAirport: "LHR",
		ArrivalAirport:   "JFK",
	})
	rec := httptest.NewRecorder()
	h.TrackFlightHandler(rec, authedRequest("POST", "/api/v1/flights", body, userID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var count int64
	db.Model(&gormModels.TrackedFlight{}).Where("user_id = ?", userID).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 tracked flight, got %d", count)
	}
}

func TestTrackFlightHandler_MissingFlightNumber(t *testing.T) {
	h, _, userID := setupHandlers(t)

	body, _ := json.Marshal(TrackFlightRequest{DepartureAirport: "LHR"})
	rec := httptest.NewRecorder()
	h.TrackFlightHandler(rec, authedRequest("POST", "/api/v1/flights", body, userID))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestListFlightsHandler_EmptyIsNotNull(t *testing.T) {
	h, _, userID := setupHandlers(t)

	rec := httptest.NewRecorder()
	h.ListFlightsHandler(rec, authedRequest("GET", "/api/v1/flights", nil, userID))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp struct {
		Status string                     `json:"status"`
		Data   []gormModels.TrackedFlight `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("Expected success envelope, got %q", resp.Status)
	}
	if resp.Data == nil {
		t.Error("Expected an empty array, not null")
	}
}

func TestCreateRuleHandler_ValidatesConditions(t *testing.T) {
	h, db, userID := setupHandlers(t)

	flight := gormModels.TrackedFlight{ID: uuid.NewString(), UserID: userID, FlightNumber: "BA142"}
	db.Create(&flight)

	// Unknown condition field is rejected
	body, _ := json.Marshal(CreateRuleRequest{
		Name:     "bad rule",
		Operator: constants.RuleOperatorAnd,
		Conditions: []ConditionRequest{
			{FlightID: flight.ID, Field: "altitude", Operator: "equals", Value: "30000"},
		},
	})
	rec := httptest.NewRecorder()
	h.CreateRuleHandler(rec, authedRequest("POST", "/api/v1/rules", body, userID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Unknown condition field should be rejected, got %d", rec.Code)
	}

	// Valid rule is created with its dependents
	body, _ = json.Marshal(CreateRuleRequest{
		Name:     "gate watch",
		Operator: constants.RuleOperatorOr,
		Alerts: []CreateAlertRequest{
			{FlightID: flight.ID, Type: constants.AlertGateChange},
		},
		Conditions: []ConditionRequest{
			{FlightID: flight.ID, Field: "status", Operator: "equals", Value: "scheduled"},
		},
	})
	rec = httptest.NewRecorder()
	h.CreateRuleHandler(rec, authedRequest("POST", "/api/v1/rules", body, userID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var ruleCount, alertCount, condCount int64
	db.Model(&gormModels.Rule{}).Count(&ruleCount)
	db.Model(&gormModels.Alert{}).Count(&alertCount)
	db.Model(&gormModels.Condition{}).Count(&condCount)
	if ruleCount != 1 || alertCount != 1 || condCount != 1 {
		t.Errorf("Expected rule with dependents created, got %d/%d/%d", ruleCount, alertCount, condCount)
	}
}

func TestCreateRuleHandler_RejectsBadOperator(t *testing.T) {
	h, _, userID := setupHandlers(t)

	body, _ := json.Marshal(CreateRuleRequest{Name: "r", Operator: "XOR"})
	rec := httptest.NewRecorder()
	h.CreateRuleHandler(rec, authedRequest("POST", "/api/v1/rules", body, userID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unsupported operator, got %d", rec.Code)
	}
}

func TestCreateAlertHandler_UnknownFlight(t *testing.T) {
	h, _, userID := setupHandlers(t)

	body, _ := json.Marshal(CreateAlertRequest{
		FlightID: uuid.NewString(),
		Type:     constants.AlertDelay,
	})
	rec := httptest.NewRecorder()
	h.CreateAlertHandler(rec, authedRequest("POST", "/api/v1/alerts", body, userID))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown flight, got %d", rec.Code)
	}
}

func TestCreateAlertHandler_RejectsTrackingEndedType(t *testing.T) {
	h, db, userID := setupHandlers(t)
	flight := gormModels.TrackedFlight{ID: uuid.NewString(), UserID: userID, FlightNumber: "BA142"}
	db.Create(&flight)

	body, _ := json.Marshal(CreateAlertRequest{
		FlightID: flight.ID,
		Type:     constants.NotificationTrackingEnded,
	})
	rec := httptest.NewRecorder()
	h.CreateAlertHandler(rec, authedRequest("POST", "/api/v1/alerts", body, userID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("TRACKING_ENDED is not user-configurable, got %d", rec.Code)
	}
}

func TestNotificationHandlers(t *testing.T) {
	h, db, userID := setupHandlers(t)

	n := gormModels.Notification{
		ID:       uuid.NewString(),
		UserID:   userID,
		FlightID: uuid.NewString(),
		Type:     constants.AlertStatusChange,
		Title:    "update",
		Message:  "flight changed",
	}
	db.Create(&n)

	rec := httptest.NewRecorder()
	h.UnreadCountHandler(rec, authedRequest("GET", "/api/v1/notifications/unread", nil, userID))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data map[string]int64 `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Data["unread"] != 1 {
		t.Errorf("Expected 1 unread, got %d", resp.Data["unread"])
	}

	req := authedRequest("POST", "/api/v1/notifications/"+n.ID+"/read", nil, userID)
	rec = httptest.NewRecorder()
	h.MarkNotificationReadHandler(rec, withURLParam(req, "id", n.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("MarkRead expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.UnreadCountHandler(rec, authedRequest("GET", "/api/v1/notifications/unread", nil, userID))
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Data["unread"] != 0 {
		t.Errorf("Expected 0 unread after marking read, got %d", resp.Data["unread"])
	}
}

func TestHandlers_Unauthenticated(t *testing.T) {
	h, _, _ := setupHandlers(t)

	rec := httptest.NewRecorder()
	h.ListFlightsHandler(rec, httptest.NewRequest("GET", "/api/v1/flights", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Request without claims should be rejected, got %d", rec.Code)
	}
}
