package handlers

import (
	"net/http"

	"noous-backend/internal/middleware"
	"noous-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// LinkHandler handles link-related HTTP requests
type LinkHandler struct {
	linkService *services.LinkService
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(linkService *services.LinkService) *LinkHandler {
	return &LinkHandler{
		linkService: linkService,
	}
}

// InviteRequest represents the request body for sending a link invitation
type InviteRequest struct {
	Code         string  `json:"code" validate:"required,len=6"`
	Relationship string  `json:"relationship" validate:"required,oneof=partner family friend"`
	Nickname     *string `json:"nickname" validate:"omitempty,max=40"`
}

// Invite handles POST /api/v1/links/invite
func (h *LinkHandler) Invite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req InviteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	notification, err := h.linkService.Invite(ctx, userID, req.Code, req.Relationship, req.Nickname)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("code", req.Code).
			Msg("Failed to send link invitation")

		statusCode := http.StatusInternalServerError
		if err.Error() == "user not found" {
			statusCode = http.StatusNotFound
		} else if err.Error() == "cannot create link with yourself" ||
			err.Error() == "users are already linked" {
			statusCode = http.StatusConflict
		}

		respondServiceError(w, err, statusCode)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("notification_id", notification.ID).
		Msg("Link invitation sent")

	respondJSON(w, notification, http.StatusCreated)
}

// AcceptInvite handles POST /api/v1/links/invites/{notification_id}/accept
func (h *LinkHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	notificationID := chi.URLParam(r, "notification_id")

	link, err := h.linkService.AcceptInvite(ctx, notificationID, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("notification_id", notificationID).
			Msg("Failed to accept link invitation")

		statusCode := http.StatusInternalServerError
		if err.Error() == "invitation not found" {
			statusCode = http.StatusNotFound
		} else if err.Error() == "user is not the recipient of this invitation" {
			statusCode = http.StatusForbidden
		} else if err.Error() == "invitation is no longer pending" {
			statusCode = http.StatusConflict
		}

		respondServiceError(w, err, statusCode)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("partner_id", link.PartnerID).
		Msg("Link invitation accepted")

	respondJSON(w, link, http.StatusOK)
}

// RejectInvite handles POST /api/v1/links/invites/{notification_id}/reject
func (h *LinkHandler) RejectInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	notificationID := chi.URLParam(r, "notification_id")

	if err := h.linkService.RejectInvite(ctx, notificationID, userID); err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "invitation not found" {
			statusCode = http.StatusNotFound
		} else if err.Error() == "user is not the recipient of this invitation" {
			statusCode = http.StatusForbidden
		} else if err.Error() == "invitation is no longer pending" ||
			err.Error() == "notification is no longer pending" {
			statusCode = http.StatusConflict
		}
		respondServiceError(w, err, statusCode)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetLinks handles GET /api/v1/links
func (h *LinkHandler) GetLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	links, err := h.linkService.GetLinks(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get links")
		respondError(w, "Failed to get links", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"links": links}, http.StatusOK)
}

// Unlink handles DELETE /api/v1/links/{partner_id}
func (h *LinkHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	partnerID := chi.URLParam(r, "partner_id")

	if err := h.linkService.Unlink(ctx, userID, partnerID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("partner_id", partnerID).
			Msg("Failed to remove link")

		statusCode := http.StatusInternalServerError
		if err.Error() == "link not found" {
			statusCode = http.StatusNotFound
		}

		respondServiceError(w, err, statusCode)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("partner_id", partnerID).
		Msg("Link removed")

	w.WriteHeader(http.StatusNoContent)
}
