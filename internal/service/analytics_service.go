package service

import (
	"context"

	"viralreel/internal/model"
	"viralreel/internal/repository"

	"github.com/rs/zerolog"
)

// AnalyticsService reads performance counters, owner-scoped through the
// video row.
type AnalyticsService interface {
	ListForVideo(ctx context.Context, videoID, userID string) ([]model.Analytics, error)
}

type analyticsService struct {
	analytics repository.AnalyticsRepository
	videos    repository.VideoRepository
	logger    zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(analytics repository.AnalyticsRepository, videos repository.VideoRepository, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		analytics: analytics,
		videos:    videos,
		logger:    logger.With().Str("service", "AnalyticsService").Logger(),
	}
}

func (s *analyticsService) ListForVideo(ctx context.Context, videoID, userID string) ([]model.Analytics, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		s.logger.Error().Err(err).Str("video_id", videoID).Msg("Failed to fetch video for analytics")
		return nil, err
	}
	if video == nil || video.UserID != userID {
		return nil, ErrVideoNotFound
	}
	records, err := s.analytics.ListByVideo(ctx, videoID)
	if err != nil {
		s.logger.Error().Err(err).Str("video_id", videoID).Msg("Failed to list analytics")
		return nil, err
	}
	return records, nil
}
