package handlers

import (
	"net/http"

	"noous-backend/internal/middleware"
	"noous-backend/internal/moments"
	"noous-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// MomentHandler handles moment-related HTTP requests
type MomentHandler struct {
	momentService *services.MomentService
}

// NewMomentHandler creates a new moment handler
func NewMomentHandler(momentService *services.MomentService) *MomentHandler {
	return &MomentHandler{
		momentService: momentService,
	}
}

// GetMoments handles GET /api/v1/moments?period=today|week|month|year|all
func (h *MomentHandler) GetMoments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	period, err := moments.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.momentService.GetMoments(ctx, userID, period)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to derive moments")
		respondError(w, "Failed to get moments", http.StatusInternalServerError)
		return
	}

	respondJSON(w, view, http.StatusOK)
}
