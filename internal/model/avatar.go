package model

import (
	"encoding/json"
	"time"
)

// Avatar styles accepted by the avatar stage.
var AvatarStyles = []string{"professional", "casual", "fitness", "teacher", "business"}

// Avatar is one generated presenter. Rows are created per generation
// request and are not deduplicated.
type Avatar struct {
	ID               string          `db:"id" json:"id"`
	UserID           *string         `db:"user_id" json:"user_id,omitempty"`
	Name             string          `db:"name" json:"name"`
	Style            string          `db:"style" json:"style"`
	ProviderAvatarID *string         `db:"provider_avatar_id" json:"provider_avatar_id,omitempty"`
	ThumbnailURL     *string         `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	Config           json.RawMessage `db:"config" json:"config,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}
