package api

import (
	"net/http"
	"strconv"

	"flightwatch/internal/auth"
	gormModels "flightwatch/internal/models/gorm"

	"github.com/go-chi/chi/v5"
)

// ListNotificationsHandler handles GET /api/v1/notifications
func (h *Handlers) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "missing user claims")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	notifications, err := h.deps.Repo.Notifications.ListByUser(r.Context(), claims.UserID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []gormModels.Notification{}
	}

	respondWithSuccess(w, http.StatusOK, &notifications)
}

// MarkNotificationReadHandler handles POST /api/v1/notifications/{id}/read
func (h *Handlers) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "missing user claims")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.deps.Repo.Notifications.MarkRead(r.Context(), id, claims.UserID); err != nil {
		respondWithError(w, http.StatusNotFound, "notification not found")
		return
	}

	respondWithSuccess(w, http.StatusOK, &map[string]string{"id": id, "read": "true"})
}

// UnreadCountHandler handles GET /api/v1/notifications/unread
func (h *Handlers) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "missing user claims")
		return
	}

	count, err := h.deps.Repo.Notifications.CountUnread(r.Context(), claims.UserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to count notifications")
		return
	}

	respondWithSuccess(w, http.StatusOK, &map[string]int64{"unread": count})
}
