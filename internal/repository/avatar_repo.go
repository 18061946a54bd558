package repository

import (
	"context"
	"fmt"

	"viralreel/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AvatarRepository persists generated avatars. One row per generation
// request; rows are never deduplicated.
type AvatarRepository interface {
	Create(ctx context.Context, a *model.Avatar) error
}

type avatarRepo struct {
	pool *pgxpool.Pool
}

// NewAvatarRepo creates a new AvatarRepository.
func NewAvatarRepo(pool *pgxpool.Pool) AvatarRepository {
	return &avatarRepo{pool: pool}
}

func (r *avatarRepo) Create(ctx context.Context, a *model.Avatar) error {
	const q = `
        INSERT INTO avatars (user_id, name, style, provider_avatar_id, thumbnail_url, config)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := r.pool.QueryRow(ctx, q,
		a.UserID, a.Name, a.Style, a.ProviderAvatarID, a.ThumbnailURL, a.Config,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting avatar: %w", err)
	}
	return nil
}
