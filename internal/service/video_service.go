package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"viralreel/internal/model"
	"viralreel/internal/repository"

	"github.com/rs/zerolog"
)

var (
	// ErrQuotaExceeded mirrors the repository sentinel for handler mapping.
	ErrQuotaExceeded = repository.ErrQuotaExceeded
	// ErrPremiumTemplate is returned when a free-plan user picks a premium
	// template.
	ErrPremiumTemplate = errors.New("premium_template")
	// ErrProfileNotFound is returned when the caller has no profile row.
	ErrProfileNotFound = errors.New("profile_not_found")
	// ErrStoreUnavailable marks failures reaching the backing store.
	ErrStoreUnavailable = errors.New("store_unavailable")
	// ErrVideoNotFound is returned for missing or foreign-owned videos.
	ErrVideoNotFound = errors.New("video not found")
)

// CreateVideoParams is the validated creation payload.
type CreateVideoParams struct {
	Title       string
	Description string
	Prompt      string
	TemplateID  string
	VoiceType   string
	Duration    int
}

// GenerationJob is the queue payload handed to the worker.
type GenerationJob struct {
	VideoID string `json:"video_id"`
}

// Enqueuer pushes jobs onto a queue. Satisfied by pgmq.Client.
type Enqueuer interface {
	Send(ctx context.Context, queue string, payload []byte) error
}

// VideoService owns video rows: quota-gated creation, owner-scoped reads,
// and the stale-generation expiry used by cron.
type VideoService interface {
	Create(ctx context.Context, userID string, params CreateVideoParams) (*model.Video, error)
	List(ctx context.Context, userID string) ([]model.Video, error)
	Get(ctx context.Context, videoID, userID string) (*model.Video, error)
	ExpireStale(ctx context.Context) ([]string, error)
}

type videoService struct {
	videos    repository.VideoRepository
	profiles  repository.ProfileRepository
	templates repository.TemplateRepository
	queue     Enqueuer
	queueName string
	freeLimit int
	staleTTL  time.Duration
	logger    zerolog.Logger
}

// NewVideoService creates a new VideoService.
func NewVideoService(
	videos repository.VideoRepository,
	profiles repository.ProfileRepository,
	templates repository.TemplateRepository,
	queue Enqueuer,
	queueName string,
	freeLimit int,
	staleTTL time.Duration,
	logger zerolog.Logger,
) VideoService {
	return &videoService{
		videos:    videos,
		profiles:  profiles,
		templates: templates,
		queue:     queue,
		queueName: queueName,
		freeLimit: freeLimit,
		staleTTL:  staleTTL,
		logger:    logger.With().Str("service", "VideoService").Logger(),
	}
}

func (s *videoService) Create(ctx context.Context, userID string, params CreateVideoParams) (*model.Video, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	// Premium template gate: free profiles only get non-premium templates.
	var templateID *string
	if params.TemplateID != "" {
		tmpl, err := s.templates.GetByID(ctx, params.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if tmpl != nil {
			if tmpl.IsPremium && profile.SubscriptionPlan == model.PlanFree {
				return nil, ErrPremiumTemplate
			}
			templateID = &tmpl.ID
		}
	}

	title := params.Title
	if title == "" {
		title = "Untitled Video"
	}
	video := &model.Video{
		UserID:    userID,
		Title:     title,
		Prompt:    params.Prompt,
		VoiceType: params.VoiceType,
		Duration:  params.Duration,
	}
	if params.Description != "" {
		video.Description = &params.Description
	}
	video.TemplateID = templateID

	if err := s.videos.CreateWithQuota(ctx, video, s.freeLimit); err != nil {
		if errors.Is(err, repository.ErrQuotaExceeded) {
			return nil, ErrQuotaExceeded
		}
		return nil, err
	}

	// Kick off server-side generation. Enqueue failure is logged, not
	// surfaced: the row stays in draft and the stale cron expires it if it
	// is never picked up.
	payload, _ := json.Marshal(GenerationJob{VideoID: video.ID})
	if err := s.queue.Send(ctx, s.queueName, payload); err != nil {
		s.logger.Error().Err(err).Str("video_id", video.ID).Msg("Failed to enqueue generation job")
	}

	return video, nil
}

func (s *videoService) List(ctx context.Context, userID string) ([]model.Video, error) {
	videos, err := s.videos.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return videos, nil
}

func (s *videoService) Get(ctx context.Context, videoID, userID string) (*model.Video, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if video == nil || video.UserID != userID {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

func (s *videoService) ExpireStale(ctx context.Context) ([]string, error) {
	ids, err := s.videos.ExpireStaleGenerating(ctx, s.staleTTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to expire stale generations")
		return nil, err
	}
	if len(ids) > 0 {
		s.logger.Warn().Strs("video_ids", ids).Msg("Expired stale generations")
	}
	return ids, nil
}
