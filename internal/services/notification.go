package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"noous-backend/internal/models"
	"noous-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NotificationService handles notification-related business logic
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	wsHub            *WSHub
	pushService      *PushService
	redisClient      *redis.Client
}

// NewNotificationService creates a new notification service. redisClient may
// be nil when redis is not configured.
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	wsHub *WSHub,
	pushService *PushService,
	redisClient *redis.Client,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		wsHub:            wsHub,
		pushService:      pushService,
		redisClient:      redisClient,
	}
}

// Create stores a notification and fans it out over WebSocket, redis pub/sub
// and APNs. Fan-out failures never fail the create.
func (s *NotificationService) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Status == "" {
		n.Status = models.StatusPending
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.wsHub.NotifyIfOnline(n.RecipientID, WSMessage{
		Type: EventNotification,
		Data: n,
	})

	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", n.RecipientID)
		if payload, err := json.Marshal(n); err == nil {
			if err := s.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
				log.Error().Err(err).Str("channel", channel).Msg("Failed to publish notification")
			}
		}
	}

	recipient, err := s.userRepo.GetByID(ctx, n.RecipientID)
	if err != nil {
		log.Error().Err(err).Str("recipient_id", n.RecipientID).Msg("Failed to load push recipient")
		return nil
	}
	if recipient.PushToken != nil {
		s.pushService.Send(*recipient.PushToken, pushTitle(n), pushBody(n))
	}

	return nil
}

// GetForUser retrieves a user's notifications, newest first
func (s *NotificationService) GetForUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.notificationRepo.GetByRecipient(ctx, userID)
}

// MarkRead marks a notification as read, recipient only
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("notification not found")
	}
	if n.RecipientID != userID {
		return fmt.Errorf("user is not the recipient of this notification")
	}
	return s.notificationRepo.MarkRead(ctx, notificationID)
}

// Delete removes a notification, recipient only
func (s *NotificationService) Delete(ctx context.Context, notificationID, userID string) error {
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("notification not found")
	}
	if n.RecipientID != userID {
		return fmt.Errorf("user is not the recipient of this notification")
	}
	return s.notificationRepo.Delete(ctx, notificationID)
}

func pushTitle(n *models.Notification) string {
	switch n.Type {
	case models.NotificationLinkInvite:
		return "Novo convite"
	case models.NotificationNewSurprise:
		return "Nova surpresa"
	case models.NotificationDateProposal:
		return "Convite para um encontro"
	case models.NotificationDateChangeRequest:
		return "Mudança de encontro"
	}
	return "Noo.us"
}

func pushBody(n *models.Notification) string {
	switch n.Type {
	case models.NotificationLinkInvite:
		return fmt.Sprintf("%s quer se conectar com você", n.SenderName)
	case models.NotificationNewSurprise:
		return fmt.Sprintf("%s enviou uma surpresa para você", n.SenderName)
	case models.NotificationDateProposal:
		return fmt.Sprintf("%s propôs um encontro", n.SenderName)
	case models.NotificationDateChangeRequest:
		return fmt.Sprintf("%s quer remarcar o encontro", n.SenderName)
	}
	return ""
}
