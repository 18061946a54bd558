package repository

import (
	"context"
	"fmt"

	"viralreel/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsRepository reads per-video performance counters. Rows are written
// by the external analytics pipeline, never by this service.
type AnalyticsRepository interface {
	ListByVideo(ctx context.Context, videoID string) ([]model.Analytics, error)
}

type analyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepo creates a new AnalyticsRepository.
func NewAnalyticsRepo(pool *pgxpool.Pool) AnalyticsRepository {
	return &analyticsRepo{pool: pool}
}

func (r *analyticsRepo) ListByVideo(ctx context.Context, videoID string) ([]model.Analytics, error) {
	const q = `
        SELECT id, video_id, views, likes, shares, comments, engagement_rate, platform, date
        FROM analytics
        WHERE video_id = $1
        ORDER BY date DESC
    `
	rows, err := r.pool.Query(ctx, q, videoID)
	if err != nil {
		return nil, fmt.Errorf("querying analytics for video %s: %w", videoID, err)
	}
	defer rows.Close()

	var records []model.Analytics
	for rows.Next() {
		var a model.Analytics
		if err := rows.Scan(
			&a.ID,
			&a.VideoID,
			&a.Views,
			&a.Likes,
			&a.Shares,
			&a.Comments,
			&a.EngagementRate,
			&a.Platform,
			&a.Date,
		); err != nil {
			return nil, fmt.Errorf("scanning analytics row: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics rows iteration: %w", err)
	}
	return records, nil
}
