package dto

import (
	"encoding/json"
	"time"
)

// TemplateResponseDTO is returned in API responses for templates
type TemplateResponseDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	Category     string          `json:"category"`
	ThumbnailURL *string         `json:"thumbnail_url,omitempty"`
	Config       json.RawMessage `json:"config"`
	IsPremium    bool            `json:"is_premium"`
	CreatedAt    time.Time       `json:"created_at"`
}
