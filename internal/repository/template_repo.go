package repository

import (
	"context"
	"errors"
	"fmt"

	"viralreel/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TemplateRepository reads video templates.
type TemplateRepository interface {
	// List returns templates newest-first, optionally filtered by exact
	// category match when category is non-empty.
	List(ctx context.Context, category string) ([]model.Template, error)
	GetByID(ctx context.Context, templateID string) (*model.Template, error)
}

type templateRepo struct {
	pool *pgxpool.Pool
}

// NewTemplateRepo creates a new TemplateRepository.
func NewTemplateRepo(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepo{pool: pool}
}

const templateColumns = `id, name, description, category, thumbnail_url, config,
       is_premium, created_by, created_at, updated_at`

func (r *templateRepo) List(ctx context.Context, category string) ([]model.Template, error) {
	q := `SELECT ` + templateColumns + ` FROM templates`
	var args []any
	if category != "" {
		q += ` WHERE category = $1`
		args = append(args, category)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var templates []model.Template
	for rows.Next() {
		var t model.Template
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Description,
			&t.Category,
			&t.ThumbnailURL,
			&t.Config,
			&t.IsPremium,
			&t.CreatedBy,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning template row: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("template rows iteration: %w", err)
	}
	return templates, nil
}

func (r *templateRepo) GetByID(ctx context.Context, templateID string) (*model.Template, error) {
	q := `SELECT ` + templateColumns + ` FROM templates WHERE id = $1`
	var t model.Template
	err := r.pool.QueryRow(ctx, q, templateID).Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.Category,
		&t.ThumbnailURL,
		&t.Config,
		&t.IsPremium,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch template %s: %w", templateID, err)
	}
	return &t, nil
}
