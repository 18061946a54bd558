package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrScriptAndAvatarRequired is returned when the render stage is missing
// its script or avatar id.
var ErrScriptAndAvatarRequired = errors.New("script_and_avatar_required")

// RenderedVideo is the output of the render stage.
type RenderedVideo struct {
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration"`
	Resolution   string `json:"resolution"`
	Status       string `json:"status"`
}

// RenderService assembles the final clip from script, avatar and voiceover.
// Mocked: with media storage configured the artifact URLs are presigned GETs
// under videos/{id}/, otherwise placeholders.
type RenderService interface {
	// RenderVideo renders the clip. videoID keys the artifact paths; the
	// public stage endpoint passes "" and gets a generated key.
	RenderVideo(ctx context.Context, videoID, script, avatarID, audioURL string, templateConfig json.RawMessage) (*RenderedVideo, error)
}

type renderService struct {
	media  *MediaStore // nil when storage is not configured
	delay  time.Duration
	logger zerolog.Logger
}

// NewRenderService creates a new RenderService. media may be nil.
func NewRenderService(media *MediaStore, mockDelay time.Duration, logger zerolog.Logger) RenderService {
	return &renderService{
		media:  media,
		delay:  mockDelay,
		logger: logger.With().Str("service", "RenderService").Logger(),
	}
}

func (s *renderService) RenderVideo(ctx context.Context, videoID, script, avatarID, audioURL string, templateConfig json.RawMessage) (*RenderedVideo, error) {
	if script == "" || avatarID == "" {
		return nil, ErrScriptAndAvatarRequired
	}
	if err := simulateDelay(ctx, s.delay); err != nil {
		return nil, err
	}

	videoURL := "https://example.com/placeholder-video.mp4"
	thumbnailURL := "https://example.com/placeholder-thumbnail.jpg"
	if s.media != nil {
		key := videoID
		if key == "" {
			key = uuid.NewString()
		}
		var err error
		videoURL, err = s.media.PresignGet(ctx, fmt.Sprintf("videos/%s/final.mp4", key))
		if err != nil {
			s.logger.Error().Err(err).Str("video_id", key).Msg("Failed to presign video artifact")
			return nil, fmt.Errorf("render video: %w", err)
		}
		thumbnailURL, err = s.media.PresignGet(ctx, fmt.Sprintf("videos/%s/thumb.jpg", key))
		if err != nil {
			s.logger.Error().Err(err).Str("video_id", key).Msg("Failed to presign thumbnail artifact")
			return nil, fmt.Errorf("render video: %w", err)
		}
	}

	return &RenderedVideo{
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     estimateSpeechSeconds(script),
		Resolution:   "1080x1920",
		Status:       "completed",
	}, nil
}
