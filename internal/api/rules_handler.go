package api

import (
	"encoding/json"
	"net/http"

	"flightwatch/internal/auth"
	"flightwatch/internal/constants"
	"flightwatch/internal/engine"
	gormModels "flightwatch/internal/models/gorm"

	"github.com/go-chi/chi/v5"
)

// CreateRuleRequest is the POST /api/v1/rules payload
type CreateRuleRequest struct {
	Name       string                 `json:"name"`
	Operator   constants.RuleOperator `json:"operator"`
	Schedule   *string                `json:"schedule,omitempty"`
	Alerts     []CreateAlertRequest   `json:"alerts"`
	Conditions []ConditionRequest     `json:"conditions"`
}

// CreateAlertRequest describes one alert, standalone or inside a rule
type CreateAlertRequest struct {
	FlightID  string              `json:"flight_id"`
	Type      constants.AlertType `json:"type"`
	Threshold *int                `json:"threshold,omitempty"`
}

// ConditionRequest describes one rule condition
type ConditionRequest struct {
	FlightID string `json:"flight_id"`
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// CreateRuleHandler handles POST /api/v1/rules. Condition fields and
// operators are validated here, at creation time, so evaluation never
// sees an unknown field.
func (h *Handlers) CreateRuleHandler(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "missing user claims")
		return
	}

	var req CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "rule name is required")
		return
	}
	if req.Operator != constants.RuleOperatorAnd && req.Operator != constants.RuleOperatorOr {
		respondWithError(w, http.StatusBadRequest, "operator must be AND or OR")
		return
	}

	rule := &gormModels.Rule{
		UserID:   claims.UserID,
		Name:     req.Name,
		IsActive: true,
		Operator: req.Operator,
		Schedule: req.Schedule,
	}

	for _, a := range req.Alerts {
		if !constants.IsValidAlertType(a.Type) {
			respondWithError(w, http.StatusBadRequest, "unsupported alert type "+string(a.Type))
			return
		}
		rule.Alerts = append(rule.Alerts, gormModels.Alert{
			UserID:    claims.UserID,
			FlightID:  a.FlightID,
			Type:      a.Type,
			IsActive:  true,
			Threshold: a.Threshold,
		})
	}

	for _, c := range req.Conditions {
		if err := engine.ValidateCondition(c.Field, c.Operator); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		rule.Conditions = append(rule.Conditions, gormModels.Condition{
			FlightID: c.FlightID,
			Field:    c.Field,
			Operator: c.Operator,
			Value:    c.Value,
		})
	}

	if err := h.deps.Repo.Rules.Create(r.Context(), rule); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to create rule")
		return
	}

	respondWithSuccess(w, http.StatusCreated, rule)
}

// DeleteRuleHandler handles DELETE /api/v1/rules/{id}, removing the rule
// together with its alerts and conditions.
func (h *Handlers) DeleteRuleHandler(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "missing user claims")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.deps.Repo.Rules.DeleteWithDependents(r.Context(), id, claims.UserID); err != nil {
		respondWithError(w, http.StatusNotFound, "rule not found")
		return
	}

	respondWithSuccess(w, http.StatusOK, &map[string]string{"id": id, "deleted": "true"})
}

// CreateAlertHandler handles POST /api/v1/alerts for direct alerts
func (h *Handlers) CreateAlertHandler(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "missing user claims")
		return
	}

	var req CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !constants.IsValidAlertType(req.Type) {
		respondWithError(w, http.StatusBadRequest, "unsupported alert type "+string(req.Type))
		return
	}

	flight, err := h.deps.Repo.Flights.GetByID(r.Context(), req.FlightID)
	if err != nil || flight == nil {
		respondWithError(w, http.StatusNotFound, "tracked flight not found")
		return
	}

	alert := &gormModels.Alert{
		UserID:    claims.UserID,
		FlightID:  req.FlightID,
		Type:      req.Type,
		IsActive:  true,
		Threshold: req.Threshold,
	}
	if err := h.deps.Repo.Alerts.Create(r.Context(), alert); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to create alert")
		return
	}

	respondWithSuccess(w, http.StatusCreated, alert)
}

// DeleteAlertHandler handles DELETE /api/v1/alerts/{id}
func (h *Handlers) DeleteAlertHandler(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "missing user claims")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.deps.Repo.Alerts.Delete(r.Context(), id, claims.UserID); err != nil {
		respondWithError(w, http.StatusNotFound, "alert not found")
		return
	}

	respondWithSuccess(w, http.StatusOK, &map[string]string{"id": id, "deleted": "true"})
}
