package handlers

import (
	"net/http"

	"noous-backend/internal/middleware"
	"noous-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	notifications, err := h.notificationService.GetForUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get notifications")
		respondError(w, "Failed to get notifications", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"notifications": notifications}, http.StatusOK)
}

// MarkRead handles POST /api/v1/notifications/{notification_id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	notificationID := chi.URLParam(r, "notification_id")

	if err := h.notificationService.MarkRead(ctx, notificationID, userID); err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "notification not found" {
			statusCode = http.StatusNotFound
		} else if err.Error() == "user is not the recipient of this notification" {
			statusCode = http.StatusForbidden
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/notifications/{notification_id}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	notificationID := chi.URLParam(r, "notification_id")

	if err := h.notificationService.Delete(ctx, notificationID, userID); err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "notification not found" {
			statusCode = http.StatusNotFound
		} else if err.Error() == "user is not the recipient of this notification" {
			statusCode = http.StatusForbidden
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
