package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"noous-backend/internal/repository"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocket event types
const (
	EventSurpriseNew      = "surprise_new"
	EventSurpriseRevealed = "surprise_revealed"
	EventSurpriseReaction = "surprise_reaction"
	EventLinkInvite       = "link_invite"
	EventLinkAccepted     = "link_accepted"
	EventLinkRemoved      = "link_removed"
	EventNotification     = "notification"
	EventPartnerStatus    = "partner_status"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp,omitempty"`
	Online    *bool       `json:"online,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
	linkRepo    *repository.LinkRepository
}

// NewWSHub creates a new WebSocket hub
func NewWSHub(linkRepo *repository.LinkRepository) *WSHub {
	return &WSHub{
		connections: make(map[string]*websocket.Conn),
		linkRepo:    linkRepo,
	}
}

// Register registers a new WebSocket connection for a user
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	// Close existing connection if any
	if existingConn, exists := h.connections[userID]; exists {
		existingConn.Close()
	}
	h.connections[userID] = conn
	h.mu.Unlock()

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")

	go h.notifyLinkedPartners(userID, true)
}

// Unregister removes a WebSocket connection for a user
func (h *WSHub) Unregister(userID string) {
	h.mu.Lock()
	if conn, exists := h.connections[userID]; exists {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
	h.mu.Unlock()

	go h.notifyLinkedPartners(userID, false)
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	conn, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %s is not connected", userID)
	}

	if message.Timestamp == 0 {
		message.Timestamp = time.Now().UnixMilli()
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// NotifyIfOnline sends a message to a user when connected, silently
// dropping it otherwise.
func (h *WSHub) NotifyIfOnline(userID string, message WSMessage) {
	if !h.IsOnline(userID) {
		return
	}
	if err := h.SendToUser(userID, message); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to send WebSocket message")
	}
}

// IsOnline checks if a user is online
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

// notifyLinkedPartners pushes a presence change to every linked partner
// that is currently connected.
func (h *WSHub) notifyLinkedPartners(userID string, online bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	links, err := h.linkRepo.GetByOwner(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load links for presence update")
		return
	}

	message := WSMessage{
		Type:   EventPartnerStatus,
		Online: &online,
		Data:   map[string]interface{}{"partner_id": userID},
	}

	for _, link := range links {
		h.NotifyIfOnline(link.PartnerID, message)
	}
}
