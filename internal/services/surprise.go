package services

import (
	"context"
	"fmt"
	"time"

	appconfig "noous-backend/internal/config"
	"noous-backend/internal/models"
	"noous-backend/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

func validSurpriseType(t string) bool {
	switch t {
	case models.SurpriseTypeMessage, models.SurpriseTypePhoto, models.SurpriseTypeMusic, models.SurpriseTypeDate:
		return true
	}
	return false
}

// SurpriseService handles surprise-related business logic
type SurpriseService struct {
	surpriseRepo        *repository.SurpriseRepository
	linkRepo            *repository.LinkRepository
	userRepo            *repository.UserRepository
	notificationService *NotificationService
	wsHub               *WSHub
	s3Client            *s3.Client
	s3Bucket            string
	s3Region            string
}

// NewSurpriseService creates a new surprise service
func NewSurpriseService(
	surpriseRepo *repository.SurpriseRepository,
	linkRepo *repository.LinkRepository,
	userRepo *repository.UserRepository,
	notificationService *NotificationService,
	wsHub *WSHub,
	awsCfg appconfig.AWSConfig,
) (*SurpriseService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(awsCfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsCfg.AccessKey, awsCfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if awsCfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(awsCfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &SurpriseService{
		surpriseRepo:        surpriseRepo,
		linkRepo:            linkRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		wsHub:               wsHub,
		s3Client:            s3Client,
		s3Bucket:            awsCfg.S3Bucket,
		s3Region:            awsCfg.Region,
	}, nil
}

// Create sends a surprise to a linked recipient and notifies them
func (s *SurpriseService) Create(ctx context.Context, senderID, recipientID, surpriseType, title, content string, isPrivate bool) (*models.Surprise, error) {
	if !validSurpriseType(surpriseType) {
		return nil, fmt.Errorf("invalid surprise type")
	}

	linked, err := s.linkRepo.Exists(ctx, senderID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check link: %w", err)
	}
	if !linked {
		return nil, fmt.Errorf("recipient is not linked to you")
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("sender not found: %w", err)
	}

	surprise := &models.Surprise{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Type:        surpriseType,
		Title:       title,
		Content:     content,
		SenderName:  sender.Name,
		IsPrivate:   isPrivate,
		Reactions:   []models.Reaction{},
		CreatedAt:   time.Now(),
	}

	if err := s.surpriseRepo.Create(ctx, surprise); err != nil {
		return nil, err
	}

	notificationType := models.NotificationNewSurprise
	if surpriseType == models.SurpriseTypeDate {
		notificationType = models.NotificationDateProposal
	}
	notification := &models.Notification{
		Type:        notificationType,
		SenderID:    senderID,
		SenderName:  sender.Name,
		RecipientID: recipientID,
		Payload:     map[string]string{"surprise_id": surprise.ID},
	}
	if err := s.notificationService.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to notify recipient: %w", err)
	}

	s.wsHub.NotifyIfOnline(recipientID, WSMessage{
		Type: EventSurpriseNew,
		Data: surprise,
	})

	return surprise, nil
}

// UploadResponse represents the response with pre-signed URL
type UploadResponse struct {
	UploadURL  string `json:"upload_url"`
	ContentURL string `json:"content_url"`
	ExpiresIn  int    `json:"expires_in"`
}

// GetPhotoUploadURL generates a pre-signed URL for uploading a photo
// surprise. The returned ContentURL becomes the surprise's content once the
// upload finishes.
func (s *SurpriseService) GetPhotoUploadURL(ctx context.Context, userID, filename, contentType string) (*UploadResponse, error) {
	key := fmt.Sprintf("surprises/%s/%s.jpg", userID, uuid.New().String())

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 5 * time.Minute
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	contentURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Bucket, s.s3Region, key)
	return &UploadResponse{
		UploadURL:  request.URL,
		ContentURL: contentURL,
		ExpiresIn:  300,
	}, nil
}

// GetFeed retrieves the caller's received surprises, newest first
func (s *SurpriseService) GetFeed(ctx context.Context, userID string) ([]models.Surprise, error) {
	return s.surpriseRepo.GetByRecipient(ctx, userID)
}

// Reveal marks a surprise as viewed by its recipient
func (s *SurpriseService) Reveal(ctx context.Context, surpriseID, userID string) error {
	surprise, err := s.surpriseRepo.GetByID(ctx, surpriseID)
	if err != nil {
		return fmt.Errorf("surprise not found")
	}
	if surprise.RecipientID != userID {
		return fmt.Errorf("user is not the recipient of this surprise")
	}

	if err := s.surpriseRepo.MarkViewed(ctx, surpriseID); err != nil {
		return err
	}

	s.wsHub.NotifyIfOnline(surprise.SenderID, WSMessage{
		Type: EventSurpriseRevealed,
		Data: map[string]interface{}{"surprise_id": surpriseID},
	})

	return nil
}

// React appends an emoji reaction from the sender or recipient
func (s *SurpriseService) React(ctx context.Context, surpriseID, userID, emoji string) (*models.Reaction, error) {
	if emoji == "" {
		return nil, fmt.Errorf("emoji is required")
	}

	surprise, err := s.surpriseRepo.GetByID(ctx, surpriseID)
	if err != nil {
		return nil, fmt.Errorf("surprise not found")
	}
	if surprise.SenderID != userID && surprise.RecipientID != userID {
		return nil, fmt.Errorf("user is not part of this surprise")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	reaction := models.Reaction{
		UserID:    userID,
		UserName:  user.Name,
		Emoji:     emoji,
		CreatedAt: time.Now(),
	}
	if err := s.surpriseRepo.AddReaction(ctx, surpriseID, reaction); err != nil {
		return nil, err
	}

	other := surprise.SenderID
	if other == userID {
		other = surprise.RecipientID
	}
	s.wsHub.NotifyIfOnline(other, WSMessage{
		Type: EventSurpriseReaction,
		Data: map[string]interface{}{
			"surprise_id": surpriseID,
			"reaction":    reaction,
		},
	})

	return &reaction, nil
}

// Delete removes a surprise permanently, sender or recipient only
func (s *SurpriseService) Delete(ctx context.Context, surpriseID, userID string) error {
	surprise, err := s.surpriseRepo.GetByID(ctx, surpriseID)
	if err != nil {
		return fmt.Errorf("surprise not found")
	}
	if surprise.SenderID != userID && surprise.RecipientID != userID {
		return fmt.Errorf("user is not part of this surprise")
	}
	return s.surpriseRepo.Delete(ctx, surpriseID)
}
