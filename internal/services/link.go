package services

import (
	"context"
	"fmt"
	"time"

	"noous-backend/internal/models"
	"noous-backend/internal/repository"

	"github.com/google/uuid"
)

// ActionLinkInvite is the rate-limited action key for sending invitations
const ActionLinkInvite = "link_invite"

// LinkService handles relationship-link business logic
type LinkService struct {
	linkRepo            *repository.LinkRepository
	userRepo            *repository.UserRepository
	notificationService *NotificationService
	rateLimiter         *RateLimiter
	wsHub               *WSHub
}

// NewLinkService creates a new link service
func NewLinkService(
	linkRepo *repository.LinkRepository,
	userRepo *repository.UserRepository,
	notificationService *NotificationService,
	rateLimiter *RateLimiter,
	wsHub *WSHub,
) *LinkService {
	return &LinkService{
		linkRepo:            linkRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		rateLimiter:         rateLimiter,
		wsHub:               wsHub,
	}
}

func validRelationship(r string) bool {
	switch r {
	case models.RelationshipPartner, models.RelationshipFamily, models.RelationshipFriend:
		return true
	}
	return false
}

// Invite sends a link invitation to the user owning the given code. The
// attempt is counted against the sender's invitation rate limit whether or
// not the target exists.
func (s *LinkService) Invite(ctx context.Context, senderID, code, relationship string, nickname *string) (*models.Notification, error) {
	if len(code) != codeLength {
		return nil, fmt.Errorf("invite code must be %d characters", codeLength)
	}
	if !validRelationship(relationship) {
		return nil, fmt.Errorf("invalid relationship")
	}

	if err := s.rateLimiter.Check(ctx, senderID, ActionLinkInvite); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("sender not found: %w", err)
	}

	target, err := s.userRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	if target.ID == senderID {
		return nil, fmt.Errorf("cannot create link with yourself")
	}

	linked, err := s.linkRepo.Exists(ctx, senderID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check link existence: %w", err)
	}
	if linked {
		return nil, fmt.Errorf("users are already linked")
	}

	payload := map[string]string{"relationship": relationship}
	if nickname != nil {
		payload["nickname"] = *nickname
	}

	notification := &models.Notification{
		ID:          uuid.New().String(),
		Type:        models.NotificationLinkInvite,
		SenderID:    senderID,
		SenderName:  sender.Name,
		RecipientID: target.ID,
		Status:      models.StatusPending,
		Payload:     payload,
		CreatedAt:   time.Now(),
	}

	if err := s.notificationService.Create(ctx, notification); err != nil {
		return nil, err
	}

	return notification, nil
}

// AcceptInvite accepts a pending link invitation. Both mirror link rows and
// the notification status flip land in a single transaction.
func (s *LinkService) AcceptInvite(ctx context.Context, notificationID, userID string) (*models.Link, error) {
	invite, err := s.loadPendingInvite(ctx, notificationID, userID)
	if err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, invite.SenderID)
	if err != nil {
		return nil, fmt.Errorf("inviter no longer exists: %w", err)
	}
	accepter, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	relationship := invite.Payload["relationship"]
	if !validRelationship(relationship) {
		relationship = models.RelationshipFriend
	}
	var nickname *string
	if n, ok := invite.Payload["nickname"]; ok && n != "" {
		nickname = &n
	}

	now := time.Now()
	senderSide := &models.Link{
		ID:           uuid.New().String(),
		OwnerID:      sender.ID,
		PartnerID:    accepter.ID,
		PartnerName:  accepter.Name,
		Relationship: relationship,
		Nickname:     nickname,
		CreatedAt:    now,
	}
	accepterSide := &models.Link{
		ID:           uuid.New().String(),
		OwnerID:      accepter.ID,
		PartnerID:    sender.ID,
		PartnerName:  sender.Name,
		Relationship: relationship,
		CreatedAt:    now,
	}

	if err := s.linkRepo.CreateMutual(ctx, senderSide, accepterSide, invite.ID); err != nil {
		return nil, err
	}

	event := WSMessage{
		Type: EventLinkAccepted,
		Data: map[string]interface{}{
			"partner_id":   accepter.ID,
			"partner_name": accepter.Name,
			"relationship": relationship,
		},
	}
	s.wsHub.NotifyIfOnline(sender.ID, event)

	return accepterSide, nil
}

// RejectInvite rejects a pending link invitation
func (s *LinkService) RejectInvite(ctx context.Context, notificationID, userID string) error {
	invite, err := s.loadPendingInvite(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	return s.notificationService.notificationRepo.UpdateStatus(ctx, invite.ID, models.StatusRejected)
}

func (s *LinkService) loadPendingInvite(ctx context.Context, notificationID, userID string) (*models.Notification, error) {
	invite, err := s.notificationService.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, fmt.Errorf("invitation not found")
	}
	if invite.Type != models.NotificationLinkInvite {
		return nil, fmt.Errorf("notification is not a link invitation")
	}
	if invite.RecipientID != userID {
		return nil, fmt.Errorf("user is not the recipient of this invitation")
	}
	if invite.Status != models.StatusPending {
		return nil, fmt.Errorf("invitation is no longer pending")
	}
	return invite, nil
}

// GetLinks retrieves all links owned by a user
func (s *LinkService) GetLinks(ctx context.Context, userID string) ([]*models.Link, error) {
	return s.linkRepo.GetByOwner(ctx, userID)
}

// AreLinked checks whether two users share a link
func (s *LinkService) AreLinked(ctx context.Context, userID, partnerID string) (bool, error) {
	return s.linkRepo.Exists(ctx, userID, partnerID)
}

// Unlink removes both sides of a link and tells the partner
func (s *LinkService) Unlink(ctx context.Context, userID, partnerID string) error {
	if err := s.linkRepo.DeleteMutual(ctx, userID, partnerID); err != nil {
		return err
	}

	s.wsHub.NotifyIfOnline(partnerID, WSMessage{
		Type: EventLinkRemoved,
		Data: map[string]interface{}{"partner_id": userID},
	})

	return nil
}
