package dto

import "time"

// ProfileResponseDTO is returned for the authenticated user's profile
type ProfileResponseDTO struct {
	ID                     string    `json:"id"`
	Username               *string   `json:"username,omitempty"`
	FullName               *string   `json:"full_name,omitempty"`
	AvatarURL              *string   `json:"avatar_url,omitempty"`
	Role                   string    `json:"role"`
	SubscriptionPlan       string    `json:"subscription_plan"`
	VideosCreatedThisMonth int       `json:"videos_created_this_month"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}
