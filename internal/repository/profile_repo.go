package repository

import (
	"context"
	"errors"
	"fmt"

	"viralreel/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository accesses the per-user account rows.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	GetProfileByStripeCustomerID(ctx context.Context, customerID string) (*model.Profile, error)
	SetStripeCustomerID(ctx context.Context, userID, customerID string) error
	// UpdateSubscription sets the plan and provider subscription id for a user.
	// An empty subscriptionID stores NULL.
	UpdateSubscription(ctx context.Context, userID, plan, subscriptionID string) error
	// ResetMonthlyCounts zeroes videos_created_this_month for every profile.
	// Idempotent; returns the number of rows touched.
	ResetMonthlyCounts(ctx context.Context) (int64, error)
}

type profileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepo creates a new ProfileRepository.
func NewProfileRepo(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepo{pool: pool}
}

const profileColumns = `id, username, full_name, avatar_url, role, subscription_plan,
       subscription_id, stripe_customer_id, videos_created_this_month, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.FullName,
		&p.AvatarURL,
		&p.Role,
		&p.SubscriptionPlan,
		&p.SubscriptionID,
		&p.StripeCustomerID,
		&p.VideosCreatedThisMonth,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.pool.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch profile %s: %w", userID, err)
	}
	return p, nil
}

func (r *profileRepo) GetProfileByStripeCustomerID(ctx context.Context, customerID string) (*model.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE stripe_customer_id = $1`
	p, err := scanProfile(r.pool.QueryRow(ctx, q, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch profile by stripe customer %s: %w", customerID, err)
	}
	return p, nil
}

func (r *profileRepo) SetStripeCustomerID(ctx context.Context, userID, customerID string) error {
	const q = `UPDATE profiles SET stripe_customer_id = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, userID, customerID); err != nil {
		return fmt.Errorf("set stripe customer for user %s: %w", userID, err)
	}
	return nil
}

func (r *profileRepo) UpdateSubscription(ctx context.Context, userID, plan, subscriptionID string) error {
	const q = `
        UPDATE profiles
        SET subscription_plan = $2,
            subscription_id = NULLIF($3, ''),
            updated_at = NOW()
        WHERE id = $1
    `
	if _, err := r.pool.Exec(ctx, q, userID, plan, subscriptionID); err != nil {
		return fmt.Errorf("update subscription for user %s: %w", userID, err)
	}
	return nil
}

func (r *profileRepo) ResetMonthlyCounts(ctx context.Context) (int64, error) {
	const q = `UPDATE profiles SET videos_created_this_month = 0, updated_at = NOW()`
	tag, err := r.pool.Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("reset monthly video counts: %w", err)
	}
	return tag.RowsAffected(), nil
}
