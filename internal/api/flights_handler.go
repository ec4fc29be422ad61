package api

import (
	"encoding/json"
	"net/http"
	"time"

	"flightwatch/internal/auth"
	gormModels "flightwatch/internal/models/gorm"

	"github.com/go-chi/chi/v5"
)

// TrackFlightRequest is the POST /api/v1/flights payload
type TrackFlightRequest struct {
	FlightNumber     string     `json:"flight_number"`
	DepartureAirport string     `json:"departure_airport"`
	ArrivalAirport   string     `json:"arrival_airport"`
	DepartureTime    *time.Time `json:"departure_time,omitempty"`
	ArrivalTime      *time.Time `json:"arrival_time,omitempty"`
}

// ListFlightsHandler handles GET /api/v1/flights
func (h *Handlers) ListFlightsHandler(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "missing user claims")
		return
	}

	flights, err := h.deps.Repo.Flights.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list flights")
		return
	}
	if flights == nil {
		flights = []gormModels.TrackedFlight{}
	}

	respondWithSuccess(w, http.StatusOK, &flights)
}

// TrackFlightHandler handles POST /api/v1/flights. The stored snapshot
// starts from what the user supplied; the next engine pass fills in
// live provider state.
func (h *Handlers) TrackFlightHandler(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "missing user claims")
		return
	}

	var req TrackFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FlightNumber == "" {
		respondWithError(w, http.StatusBadRequest, "flight_number is required")
		return
	}

	flight := &gormModels.TrackedFlight{
		UserID:           claims.UserID,
		FlightNumber:     req.FlightNumber,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		DepartureTime:    req.DepartureTime,
		ArrivalTime:      req.ArrivalTime,
	}
	if err := h.deps.Repo.Flights.Create(r.Context(), flight); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to track flight")
		return
	}

	respondWithSuccess(w, http.StatusCreated, flight)
}

// GetFlightHandler handles GET /api/v1/flights/{id}
func (h *Handlers) GetFlightHandler(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "missing user claims")
		return
	}

	id := chi.URLParam(r, "id")
	flight, err := h.deps.Repo.Flights.GetByID(r.Context(), id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get tracked flight")
		return
	}
	if flight == nil || flight.UserID != claims.UserID {
		respondWithError(w, http.StatusNotFound, "tracked flight not found")
		return
	}

	respondWithSuccess(w, http.StatusOK, flight)
}

// DeleteFlightHandler handles DELETE /api/v1/flights/{id}. Deleting a
// tracked flight is always user-initiated; the engine never does it.
func (h *Handlers) DeleteFlightHandler(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "missing user claims")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.deps.Repo.Flights.Delete(r.Context(), id, claims.UserID); err != nil {
		respondWithError(w, http.StatusNotFound, "tracked flight not found")
		return
	}

	respondWithSuccess(w, http.StatusOK, &map[string]string{"id": id, "deleted": "true"})
}
