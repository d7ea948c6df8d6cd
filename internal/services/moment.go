package services

import (
	"context"
	"fmt"
	"time"

	"noous-backend/internal/models"
	"noous-backend/internal/moments"
	"noous-backend/internal/repository"
)

// MomentService derives display-ready moments from a user's surprises
type MomentService struct {
	surpriseRepo *repository.SurpriseRepository
}

// NewMomentService creates a new moment service
func NewMomentService(surpriseRepo *repository.SurpriseRepository) *MomentService {
	return &MomentService{surpriseRepo: surpriseRepo}
}

// MomentsView is the full derivation result for one viewer and period
type MomentsView struct {
	Moments     []moments.Moment `json:"moments"`
	MomentOfDay *moments.Moment  `json:"moment_of_day,omitempty"`
	Streak      int              `json:"streak"`
	MusicCount  int              `json:"music_count"`
	PhotoCount  int              `json:"photo_count"`
}

// GetMoments derives the viewer's moments and filters them by period. The
// streak, counts and moment-of-day pick are always computed over the full
// feed, not the filtered subset.
func (s *MomentService) GetMoments(ctx context.Context, userID string, period moments.Period) (*MomentsView, error) {
	surprises, err := s.surpriseRepo.GetByRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load surprises: %w", err)
	}

	now := time.Now()
	all := moments.Derive(surprises, now)
	filtered := moments.FilterByPeriod(all, period)
	if filtered == nil {
		filtered = []moments.Moment{}
	}

	return &MomentsView{
		Moments:     filtered,
		MomentOfDay: moments.MomentOfDay(all, now, userID),
		Streak:      moments.Streak(all, now),
		MusicCount:  moments.CountType(all, models.SurpriseTypeMusic),
		PhotoCount:  moments.CountType(all, models.SurpriseTypePhoto),
	}, nil
}
