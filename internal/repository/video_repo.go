package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"viralreel/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrQuotaExceeded is returned when a free-plan user has used up their
// monthly video quota.
var ErrQuotaExceeded = errors.New("quota_exceeded")

// VideoRepository manages video rows and their generation state.
type VideoRepository interface {
	// CreateWithQuota inserts a draft video and bumps the owner's monthly
	// counter in a single transaction. The counter update is a conditional
	// increment-with-ceiling, so two concurrent creations at the free-plan
	// boundary cannot both pass. Returns ErrQuotaExceeded with no row
	// created when the ceiling is hit.
	CreateWithQuota(ctx context.Context, v *model.Video, freeLimit int) error

	ListByUser(ctx context.Context, userID string) ([]model.Video, error)
	GetByID(ctx context.Context, videoID string) (*model.Video, error)

	// Generation state transitions, driven by the worker.
	MarkGenerating(ctx context.Context, videoID string) error
	SetStage(ctx context.Context, videoID, stage string) error
	SaveScript(ctx context.Context, videoID, script string) error
	SaveAvatar(ctx context.Context, videoID, avatarID string) error
	SaveAudio(ctx context.Context, videoID, audioURL string) error
	SaveRender(ctx context.Context, videoID, videoURL, thumbnailURL string, metadata json.RawMessage) error
	MarkCompleted(ctx context.Context, videoID string) error
	MarkFailed(ctx context.Context, videoID string, errorDetails json.RawMessage) error

	// ExpireStaleGenerating fails videos stuck in 'generating' (or still
	// 'draft' and never picked up) for longer than ttl. Returns ids of the
	// expired rows.
	ExpireStaleGenerating(ctx context.Context, ttl time.Duration) ([]string, error)
}

type videoRepo struct {
	pool *pgxpool.Pool
}

// NewVideoRepo creates a new VideoRepository.
func NewVideoRepo(pool *pgxpool.Pool) VideoRepository {
	return &videoRepo{pool: pool}
}

const videoColumns = `id, user_id, title, description, prompt, template_id, avatar_id,
       voice_type, duration, status, generation_stage, video_url, thumbnail_url,
       script_content, audio_url, error_details, metadata, created_at, updated_at`

func scanVideo(row pgx.Row) (*model.Video, error) {
	var v model.Video
	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.Title,
		&v.Description,
		&v.Prompt,
		&v.TemplateID,
		&v.AvatarID,
		&v.VoiceType,
		&v.Duration,
		&v.Status,
		&v.GenerationStage,
		&v.VideoURL,
		&v.ThumbnailURL,
		&v.ScriptContent,
		&v.AudioURL,
		&v.ErrorDetails,
		&v.Metadata,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *videoRepo) CreateWithQuota(ctx context.Context, v *model.Video, freeLimit int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("starting transaction for video create: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Atomic increment-with-ceiling: free profiles only advance while under
	// the limit, paid plans always advance. Zero rows means the quota is
	// spent (or the profile is gone).
	const incrQ = `
        UPDATE profiles
        SET videos_created_this_month = videos_created_this_month + 1,
            updated_at = NOW()
        WHERE id = $1
          AND (subscription_plan <> 'free' OR videos_created_this_month < $2)
    `
	tag, err := tx.Exec(ctx, incrQ, v.UserID, freeLimit)
	if err != nil {
		return fmt.Errorf("incrementing video count for user %s: %w", v.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuotaExceeded
	}

	const insertQ = `
        INSERT INTO videos (user_id, title, description, prompt, template_id,
                            voice_type, duration, status, generation_stage, metadata)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 'draft', 'pending', $8)
        RETURNING ` + videoColumns
	created, err := scanVideo(tx.QueryRow(ctx, insertQ,
		v.UserID, v.Title, v.Description, v.Prompt, v.TemplateID,
		v.VoiceType, v.Duration, v.Metadata,
	))
	if err != nil {
		return fmt.Errorf("inserting video for user %s: %w", v.UserID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing video create for user %s: %w", v.UserID, err)
	}
	*v = *created
	return nil
}

func (r *videoRepo) ListByUser(ctx context.Context, userID string) ([]model.Video, error) {
	const q = `
        SELECT v.id, v.user_id, v.title, v.description, v.prompt, v.template_id,
               v.avatar_id, v.voice_type, v.duration, v.status, v.generation_stage,
               v.video_url, v.thumbnail_url, v.script_content, v.audio_url,
               v.error_details, v.metadata, v.created_at, v.updated_at,
               t.name, t.category, a.name, a.style
        FROM videos v
        LEFT JOIN templates t ON t.id = v.template_id
        LEFT JOIN avatars a ON a.id = v.avatar_id
        WHERE v.user_id = $1
        ORDER BY v.created_at DESC
    `
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("querying videos for user %s: %w", userID, err)
	}
	defer rows.Close()

	var videos []model.Video
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.Title, &v.Description, &v.Prompt, &v.TemplateID,
			&v.AvatarID, &v.VoiceType, &v.Duration, &v.Status, &v.GenerationStage,
			&v.VideoURL, &v.ThumbnailURL, &v.ScriptContent, &v.AudioURL,
			&v.ErrorDetails, &v.Metadata, &v.CreatedAt, &v.UpdatedAt,
			&v.TemplateName, &v.TemplateCategory, &v.AvatarName, &v.AvatarStyle,
		); err != nil {
			return nil, fmt.Errorf("scanning video row: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("video rows iteration: %w", err)
	}
	return videos, nil
}

func (r *videoRepo) GetByID(ctx context.Context, videoID string) (*model.Video, error) {
	q := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	v, err := scanVideo(r.pool.QueryRow(ctx, q, videoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch video %s: %w", videoID, err)
	}
	return v, nil
}

func (r *videoRepo) exec(ctx context.Context, q string, args ...any) error {
	if _, err := r.pool.Exec(ctx, q, args...); err != nil {
		return err
	}
	return nil
}

func (r *videoRepo) MarkGenerating(ctx context.Context, videoID string) error {
	const q = `
        UPDATE videos
        SET status = 'generating',
            generation_stage = CASE WHEN generation_stage = 'pending' THEN 'scripting' ELSE generation_stage END,
            updated_at = NOW()
        WHERE id = $1 AND status IN ('draft', 'generating')
    `
	if err := r.exec(ctx, q, videoID); err != nil {
		return fmt.Errorf("mark video %s generating: %w", videoID, err)
	}
	return nil
}

func (r *videoRepo) SetStage(ctx context.Context, videoID, stage string) error {
	const q = `UPDATE videos SET generation_stage = $2, updated_at = NOW() WHERE id = $1`
	if err := r.exec(ctx, q, videoID, stage); err != nil {
		return fmt.Errorf("set stage %s for video %s: %w", stage, videoID, err)
	}
	return nil
}

func (r *videoRepo) SaveScript(ctx context.Context, videoID, script string) error {
	const q = `UPDATE videos SET script_content = $2, updated_at = NOW() WHERE id = $1`
	if err := r.exec(ctx, q, videoID, script); err != nil {
		return fmt.Errorf("save script for video %s: %w", videoID, err)
	}
	return nil
}

func (r *videoRepo) SaveAvatar(ctx context.Context, videoID, avatarID string) error {
	const q = `UPDATE videos SET avatar_id = $2, updated_at = NOW() WHERE id = $1`
	if err := r.exec(ctx, q, videoID, avatarID); err != nil {
		return fmt.Errorf("save avatar for video %s: %w", videoID, err)
	}
	return nil
}

func (r *videoRepo) SaveAudio(ctx context.Context, videoID, audioURL string) error {
	const q = `UPDATE videos SET audio_url = $2, updated_at = NOW() WHERE id = $1`
	if err := r.exec(ctx, q, videoID, audioURL); err != nil {
		return fmt.Errorf("save audio for video %s: %w", videoID, err)
	}
	return nil
}

func (r *videoRepo) SaveRender(ctx context.Context, videoID, videoURL, thumbnailURL string, metadata json.RawMessage) error {
	const q = `
        UPDATE videos
        SET video_url = $2, thumbnail_url = $3, metadata = COALESCE($4, metadata), updated_at = NOW()
        WHERE id = $1
    `
	if err := r.exec(ctx, q, videoID, videoURL, thumbnailURL, metadata); err != nil {
		return fmt.Errorf("save render for video %s: %w", videoID, err)
	}
	return nil
}

func (r *videoRepo) MarkCompleted(ctx context.Context, videoID string) error {
	const q = `
        UPDATE videos
        SET status = 'completed', generation_stage = 'done', error_details = NULL, updated_at = NOW()
        WHERE id = $1
    `
	if err := r.exec(ctx, q, videoID); err != nil {
		return fmt.Errorf("mark video %s completed: %w", videoID, err)
	}
	return nil
}

func (r *videoRepo) MarkFailed(ctx context.Context, videoID string, errorDetails json.RawMessage) error {
	const q = `
        UPDATE videos
        SET status = 'failed', error_details = $2, updated_at = NOW()
        WHERE id = $1
    `
	if err := r.exec(ctx, q, videoID, errorDetails); err != nil {
		return fmt.Errorf("mark video %s failed: %w", videoID, err)
	}
	return nil
}

func (r *videoRepo) ExpireStaleGenerating(ctx context.Context, ttl time.Duration) ([]string, error) {
	const q = `
        UPDATE videos
        SET status = 'failed',
            error_details = jsonb_build_object('stage', generation_stage, 'message', 'generation expired'),
            updated_at = NOW()
        WHERE status IN ('generating', 'draft')
          AND generation_stage <> 'done'
          AND updated_at < NOW() - $1::interval
        RETURNING id
    `
	interval := fmt.Sprintf("%d seconds", int(ttl.Seconds()))
	rows, err := r.pool.Query(ctx, q, interval)
	if err != nil {
		return nil, fmt.Errorf("expiring stale generations: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning expired video id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("expired rows iteration: %w", err)
	}
	return ids, nil
}
