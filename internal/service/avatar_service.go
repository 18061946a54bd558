package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"viralreel/internal/model"
	"viralreel/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrStyleRequired is returned when the avatar stage is called without a
	// style.
	ErrStyleRequired = errors.New("style_required")
	// ErrInvalidStyle is returned for a style outside the supported set.
	ErrInvalidStyle = errors.New("invalid_style")
)

// Display names per avatar style, shown in the dashboard.
var avatarStyleNames = map[string]string{
	"professional": "Professional Male",
	"casual":       "Casual Female",
	"fitness":      "Fitness Coach",
	"teacher":      "Educator",
	"business":     "Business Presenter",
}

// AvatarService creates AI presenter avatars. The provider call is mocked:
// each request persists a fresh avatar row with a placeholder thumbnail.
type AvatarService interface {
	CreateAvatar(ctx context.Context, userID *string, style, description string) (*model.Avatar, error)
}

type avatarService struct {
	repo   repository.AvatarRepository
	delay  time.Duration
	logger zerolog.Logger
}

// NewAvatarService creates a new AvatarService.
func NewAvatarService(repo repository.AvatarRepository, mockDelay time.Duration, logger zerolog.Logger) AvatarService {
	return &avatarService{
		repo:   repo,
		delay:  mockDelay,
		logger: logger.With().Str("service", "AvatarService").Logger(),
	}
}

func (s *avatarService) CreateAvatar(ctx context.Context, userID *string, style, description string) (*model.Avatar, error) {
	if style == "" {
		return nil, ErrStyleRequired
	}
	name, ok := avatarStyleNames[style]
	if !ok {
		return nil, ErrInvalidStyle
	}

	if err := simulateDelay(ctx, s.delay); err != nil {
		return nil, err
	}

	providerID := "hg-" + uuid.NewString()
	thumbnail := "https://example.com/placeholder-avatar.jpg"
	avatar := &model.Avatar{
		UserID:           userID,
		Name:             name,
		Style:            style,
		ProviderAvatarID: &providerID,
		ThumbnailURL:     &thumbnail,
	}
	if description != "" {
		avatar.Config = []byte(fmt.Sprintf(`{"description":%q}`, description))
	}
	if err := s.repo.Create(ctx, avatar); err != nil {
		s.logger.Error().Err(err).Str("style", style).Msg("Failed to persist avatar")
		return nil, fmt.Errorf("create avatar: %w", err)
	}
	return avatar, nil
}
