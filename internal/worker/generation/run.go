package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"viralreel/internal/config"
	"viralreel/internal/model"
	"viralreel/internal/pgmq"
	"viralreel/internal/pubsub"
	"viralreel/internal/repository"
	"viralreel/internal/service"

	"github.com/rs/zerolog"
)

// Stages is the set of services the pipeline runs, in order.
type Stages struct {
	Scripts    service.ScriptService
	Avatars    service.AvatarService
	Voiceovers service.VoiceoverService
	Renders    service.RenderService
}

// Run starts the generation worker. It consumes jobs from the generation
// queue and drives each video through scripting, avatar, voiceover and
// rendering. Progress is persisted after every stage, so a redelivered job
// resumes where the previous attempt stopped instead of redoing work.
func Run(
	ctx context.Context,
	logger zerolog.Logger,
	client *pgmq.Client,
	cfg *config.Config,
	videos repository.VideoRepository,
	templates repository.TemplateRepository,
	stages Stages,
	publisher pubsub.Publisher,
) error {
	queue := cfg.GenerationQueueName
	logger.Info().Str("queue", queue).Msg("Starting generation worker")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down generation worker")
			return nil
		default:
		}
		msgs, err := client.ReadWithPoll(ctx, queue, cfg.GenerationPollTimeoutSec, cfg.GenerationPollMaxMsg)
		if err != nil {
			logger.Error().Err(err).Msg("Error reading generation queue")
			time.Sleep(time.Second)
			continue
		}
		if len(msgs) == 0 {
			continue
		}

		msg := msgs[0]
		logger.Info().Int64("msg_id", msg.ID).Msgf("Received generation job: %s", string(msg.Data))

		var job service.GenerationJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			logger.Error().Err(err).Msg("Failed to unmarshal generation payload; deleting message")
			client.Delete(ctx, queue, []int64{msg.ID})
			continue
		}

		video, err := videos.GetByID(ctx, job.VideoID)
		if err != nil {
			logger.Error().Err(err).Str("video_id", job.VideoID).Msg("Failed to load video; will retry")
			time.Sleep(time.Second)
			continue
		}
		if video == nil || video.Status == model.VideoStatusCompleted || video.Status == model.VideoStatusFailed {
			// Gone or already terminal, nothing to do.
			if err := client.Delete(ctx, queue, []int64{msg.ID}); err != nil {
				logger.Error().Err(err).Msg("Error deleting generation message")
			}
			continue
		}

		if err := videos.MarkGenerating(ctx, video.ID); err != nil {
			logger.Error().Err(err).Str("video_id", video.ID).Msg("Failed to mark video generating; will retry")
			time.Sleep(time.Second)
			continue
		}

		stage, pipeErr := runPipeline(ctx, logger, cfg, videos, templates, stages, video)
		if pipeErr != nil {
			errorDetails := map[string]string{
				"stage":   stage,
				"message": pipeErr.Error(),
			}
			detailsBytes, _ := json.Marshal(errorDetails)
			if err := videos.MarkFailed(ctx, video.ID, detailsBytes); err != nil {
				logger.Error().Err(err).Str("video_id", video.ID).Msg("Failed to mark video failed")
			}
			dlq := cfg.GenerationDeadLetterQueueName
			if err := client.Send(ctx, dlq, msg.Data); err != nil {
				logger.Error().Err(err).Str("dlq", dlq).Msg("Failed to send message to dead-letter queue")
			}
			if err := client.Delete(ctx, queue, []int64{msg.ID}); err != nil {
				logger.Error().Err(err).Msg("Error deleting generation message after failure")
			}
			logger.Warn().
				Str("video_id", video.ID).
				Str("stage", stage).
				Err(pipeErr).
				Msg("Exhausted all generation retries; moving job to DLQ")
			continue
		}

		if err := videos.MarkCompleted(ctx, video.ID); err != nil {
			logger.Error().Err(err).Str("video_id", video.ID).Msg("Failed to mark video completed; will retry")
			time.Sleep(time.Second)
			continue
		}
		if err := client.Delete(ctx, queue, []int64{msg.ID}); err != nil {
			logger.Error().Err(err).Msg("Error deleting generation message")
		}
		publishCompleted(ctx, logger, publisher, cfg.AnalyticsEventTopic, video.ID, video.UserID)
	}
}

// runPipeline executes the remaining stages for a video. It returns the
// stage that failed alongside the error. Stage outputs already present on
// the row are kept, only the missing ones are produced.
func runPipeline(
	ctx context.Context,
	logger zerolog.Logger,
	cfg *config.Config,
	videos repository.VideoRepository,
	templates repository.TemplateRepository,
	stages Stages,
	video *model.Video,
) (string, error) {
	templateName := ""
	var templateConfig json.RawMessage
	if video.TemplateID != nil {
		tmpl, err := templates.GetByID(ctx, *video.TemplateID)
		if err != nil {
			logger.Warn().Err(err).Str("video_id", video.ID).Msg("Failed to load template; continuing without it")
		} else if tmpl != nil {
			templateName = tmpl.Name
			templateConfig = tmpl.Config
		}
	}

	script := ""
	if video.ScriptContent != nil {
		script = *video.ScriptContent
	}
	if script == "" {
		if err := videos.SetStage(ctx, video.ID, model.StageScripting); err != nil {
			return model.StageScripting, err
		}
		err := withRetry(ctx, logger, cfg, model.StageScripting, func() error {
			out, err := stages.Scripts.GenerateScript(ctx, video.Prompt, video.Duration, templateName)
			if err != nil {
				return err
			}
			script = out
			return nil
		})
		if err != nil {
			return model.StageScripting, err
		}
		if err := videos.SaveScript(ctx, video.ID, script); err != nil {
			return model.StageScripting, err
		}
	}

	avatarID := ""
	if video.AvatarID != nil {
		avatarID = *video.AvatarID
	}
	if avatarID == "" {
		if err := videos.SetStage(ctx, video.ID, model.StageAvatar); err != nil {
			return model.StageAvatar, err
		}
		err := withRetry(ctx, logger, cfg, model.StageAvatar, func() error {
			avatar, err := stages.Avatars.CreateAvatar(ctx, &video.UserID, avatarStyleFor(video.VoiceType), "")
			if err != nil {
				return err
			}
			avatarID = avatar.ID
			return nil
		})
		if err != nil {
			return model.StageAvatar, err
		}
		if err := videos.SaveAvatar(ctx, video.ID, avatarID); err != nil {
			return model.StageAvatar, err
		}
	}

	audioURL := ""
	if video.AudioURL != nil {
		audioURL = *video.AudioURL
	}
	if audioURL == "" {
		if err := videos.SetStage(ctx, video.ID, model.StageVoiceover); err != nil {
			return model.StageVoiceover, err
		}
		err := withRetry(ctx, logger, cfg, model.StageVoiceover, func() error {
			voiceover, err := stages.Voiceovers.GenerateVoiceover(ctx, script, video.VoiceType, languageFor(video.VoiceType))
			if err != nil {
				return err
			}
			audioURL = voiceover.AudioURL
			return nil
		})
		if err != nil {
			return model.StageVoiceover, err
		}
		if err := videos.SaveAudio(ctx, video.ID, audioURL); err != nil {
			return model.StageVoiceover, err
		}
	}

	if video.VideoURL == nil {
		if err := videos.SetStage(ctx, video.ID, model.StageRendering); err != nil {
			return model.StageRendering, err
		}
		var rendered *service.RenderedVideo
		err := withRetry(ctx, logger, cfg, model.StageRendering, func() error {
			out, err := stages.Renders.RenderVideo(ctx, video.ID, script, avatarID, audioURL, templateConfig)
			if err != nil {
				return err
			}
			rendered = out
			return nil
		})
		if err != nil {
			return model.StageRendering, err
		}
		metadata, _ := json.Marshal(map[string]any{
			"duration":   rendered.Duration,
			"resolution": rendered.Resolution,
		})
		if err := videos.SaveRender(ctx, video.ID, rendered.VideoURL, rendered.ThumbnailURL, metadata); err != nil {
			return model.StageRendering, err
		}
	}

	return model.StageDone, nil
}

// withRetry runs fn up to the configured number of attempts with exponential
// backoff.
func withRetry(ctx context.Context, logger zerolog.Logger, cfg *config.Config, stage string, fn func() error) error {
	backoff := time.Duration(cfg.GenerationBackoffInitialSec) * time.Second
	var lastErr error
	for attempt := 1; attempt <= cfg.GenerationMaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		logger.Error().Err(lastErr).Str("stage", stage).Int("attempt", attempt).Msg("Generation stage failed, retrying")
		time.Sleep(backoff)
		backoff *= 2
		if backoff > time.Duration(cfg.GenerationBackoffMaxSec)*time.Second {
			backoff = time.Duration(cfg.GenerationBackoffMaxSec) * time.Second
		}
	}
	return fmt.Errorf("stage %s failed after %d attempts: %w", stage, cfg.GenerationMaxRetries, lastErr)
}

func publishCompleted(ctx context.Context, logger zerolog.Logger, publisher pubsub.Publisher, topic, videoID, userID string) {
	event, _ := json.Marshal(map[string]string{
		"event":    "video.completed",
		"video_id": videoID,
		"user_id":  userID,
	})
	if _, err := publisher.Publish(ctx, topic, event); err != nil {
		logger.Error().Err(err).Str("video_id", videoID).Msg("Failed to publish completion event")
	}
}

// avatarStyleFor picks a presenter style matching the requested voice.
func avatarStyleFor(voiceType string) string {
	if strings.HasPrefix(voiceType, "female") {
		return "casual"
	}
	return "professional"
}

// languageFor derives the narration language from the voice type.
func languageFor(voiceType string) string {
	if strings.HasSuffix(voiceType, "-spanish") {
		return "es"
	}
	return "en"
}
