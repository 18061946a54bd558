package model

import "time"

// Subscription plans. Free accounts are capped at a monthly video quota;
// paid plans are unbounded.
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Profile is the per-user account row. videos_created_this_month is reset
// to zero by the monthly cron.
type Profile struct {
	ID                     string    `db:"id" json:"id"`
	Username               *string   `db:"username" json:"username,omitempty"`
	FullName               *string   `db:"full_name" json:"full_name,omitempty"`
	AvatarURL              *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	Role                   string    `db:"role" json:"role"`
	SubscriptionPlan       string    `db:"subscription_plan" json:"subscription_plan"`
	SubscriptionID         *string   `db:"subscription_id" json:"subscription_id,omitempty"`
	StripeCustomerID       *string   `db:"stripe_customer_id" json:"stripe_customer_id,omitempty"`
	VideosCreatedThisMonth int       `db:"videos_created_this_month" json:"videos_created_this_month"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}
