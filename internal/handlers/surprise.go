package handlers

import (
	"net/http"

	"noous-backend/internal/middleware"
	"noous-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SurpriseHandler handles surprise-related HTTP requests
type SurpriseHandler struct {
	surpriseService *services.SurpriseService
}

// NewSurpriseHandler creates a new surprise handler
func NewSurpriseHandler(surpriseService *services.SurpriseService) *SurpriseHandler {
	return &SurpriseHandler{
		surpriseService: surpriseService,
	}
}

// CreateSurpriseRequest represents the request body for sending a surprise
type CreateSurpriseRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid4"`
	Type        string `json:"type" validate:"required,oneof=message photo music date"`
	Title       string `json:"title" validate:"required,max=120"`
	Content     string `json:"content" validate:"required,max=4000"`
	IsPrivate   bool   `json:"is_private"`
}

// Create handles POST /api/v1/surprises
func (h *SurpriseHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateSurpriseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	surprise, err := h.surpriseService.Create(ctx, userID, req.RecipientID, req.Type, req.Title, req.Content, req.IsPrivate)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("recipient_id", req.RecipientID).
			Msg("Failed to create surprise")

		statusCode := http.StatusInternalServerError
		if err.Error() == "recipient is not linked to you" {
			statusCode = http.StatusForbidden
		} else if err.Error() == "invalid surprise type" {
			statusCode = http.StatusBadRequest
		}

		respondError(w, err.Error(), statusCode)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("surprise_id", surprise.ID).
		Str("type", surprise.Type).
		Msg("Surprise created")

	respondJSON(w, surprise, http.StatusCreated)
}

// UploadRequest represents a request to get a pre-signed photo upload URL
type UploadRequest struct {
	Filename    string `json:"filename" validate:"required,max=200"`
	ContentType string `json:"content_type" validate:"omitempty,max=100"`
}

// Upload handles POST /api/v1/surprises/upload
func (h *SurpriseHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UploadRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	response, err := h.surpriseService.GetPhotoUploadURL(ctx, userID, req.Filename, req.ContentType)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("filename", req.Filename).
			Msg("Failed to generate pre-signed URL")
		respondError(w, "Failed to generate upload URL", http.StatusInternalServerError)
		return
	}

	respondJSON(w, response, http.StatusOK)
}

// GetFeed handles GET /api/v1/surprises
func (h *SurpriseHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	surprises, err := h.surpriseService.GetFeed(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get surprises")
		respondError(w, "Failed to get surprises", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{
		"surprises": surprises,
		"total":     len(surprises),
	}, http.StatusOK)
}

// Reveal handles POST /api/v1/surprises/{surprise_id}/reveal
func (h *SurpriseHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	surpriseID := chi.URLParam(r, "surprise_id")

	if err := h.surpriseService.Reveal(ctx, surpriseID, userID); err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "surprise not found" {
			statusCode = http.StatusNotFound
		} else if err.Error() == "user is not the recipient of this surprise" {
			statusCode = http.StatusForbidden
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReactRequest represents the request body for reacting to a surprise
type ReactRequest struct {
	Emoji string `json:"emoji" validate:"required,max=16"`
}

// React handles POST /api/v1/surprises/{surprise_id}/reactions
func (h *SurpriseHandler) React(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	surpriseID := chi.URLParam(r, "surprise_id")

	var req ReactRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	reaction, err := h.surpriseService.React(ctx, surpriseID, userID, req.Emoji)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "surprise not found" {
			statusCode = http.StatusNotFound
		} else if err.Error() == "user is not part of this surprise" {
			statusCode = http.StatusForbidden
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	respondJSON(w, reaction, http.StatusCreated)
}

// Delete handles DELETE /api/v1/surprises/{surprise_id}
func (h *SurpriseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	surpriseID := chi.URLParam(r, "surprise_id")

	if err := h.surpriseService.Delete(ctx, surpriseID, userID); err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "surprise not found" {
			statusCode = http.StatusNotFound
		} else if err.Error() == "user is not part of this surprise" {
			statusCode = http.StatusForbidden
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("surprise_id", surpriseID).
		Msg("Surprise deleted")

	w.WriteHeader(http.StatusNoContent)
}
