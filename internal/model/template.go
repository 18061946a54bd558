package model

import (
	"encoding/json"
	"time"
)

// Template describes a video template. Config is opaque structured data
// interpreted by the render stage. Premium templates are usable only by
// paid plans.
type Template struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Description  *string         `db:"description" json:"description,omitempty"`
	Category     string          `db:"category" json:"category"`
	ThumbnailURL *string         `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	Config       json.RawMessage `db:"config" json:"config"`
	IsPremium    bool            `db:"is_premium" json:"is_premium"`
	CreatedBy    *string         `db:"created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
