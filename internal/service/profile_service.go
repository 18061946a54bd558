package service

import (
	"context"

	"viralreel/internal/model"
	"viralreel/internal/repository"

	"github.com/rs/zerolog"
)

// ProfileService reads account profiles and runs the monthly quota reset.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
	// ResetMonthlyUsage zeroes every profile's monthly video counter.
	ResetMonthlyUsage(ctx context.Context) (int64, error)
}

type profileService struct {
	repo   repository.ProfileRepository
	logger zerolog.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(repo repository.ProfileRepository, logger zerolog.Logger) ProfileService {
	return &profileService{
		repo:   repo,
		logger: logger.With().Str("service", "ProfileService").Logger(),
	}
}

func (s *profileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch profile")
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *profileService) ResetMonthlyUsage(ctx context.Context) (int64, error) {
	count, err := s.repo.ResetMonthlyCounts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to reset monthly usage")
		return 0, err
	}
	s.logger.Info().Int64("profiles", count).Msg("Monthly usage reset")
	return count, nil
}
