package services

import (
	"fmt"

	"noous-backend/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// PushService delivers APNs pushes. A nil client (no certificate configured)
// turns every send into a no-op so the rest of the app never has to care.
type PushService struct {
	client *apns2.Client
	topic  string
}

// NewPushService creates a push service from APNs configuration
func NewPushService(cfg config.APNsConfig) (*PushService, error) {
	if cfg.CertPath == "" {
		log.Info().Msg("APNs certificate not configured, push notifications disabled")
		return &PushService{}, nil
	}

	cert, err := certificate.FromP12File(cfg.CertPath, cfg.CertPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &PushService{client: client, topic: cfg.Topic}, nil
}

// Send pushes an alert to a device token. Failures are logged, not returned:
// a lost push must never fail the operation that triggered it.
func (s *PushService) Send(deviceToken, title, body string) {
	if s.client == nil || deviceToken == "" {
		return
	}

	n := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload: payload.NewPayload().
			AlertTitle(title).
			AlertBody(body).
			Sound("default"),
	}

	res, err := s.client.Push(n)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send push notification")
		return
	}
	if !res.Sent() {
		log.Warn().
			Int("status", res.StatusCode).
			Str("reason", res.Reason).
			Msg("Push notification rejected")
	}
}
