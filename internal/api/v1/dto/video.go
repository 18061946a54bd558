package dto

import (
	"encoding/json"
	"time"
)

// VideoCreateDTO is used for incoming video creation requests
type VideoCreateDTO struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty"`
	Prompt      string  `json:"prompt" validate:"required"`
	TemplateID  *string `json:"template_id,omitempty" validate:"omitempty,uuid"`
	VoiceType   string  `json:"voice_type" validate:"required,oneof=male-professional female-friendly male-spanish female-spanish"`
	Duration    int     `json:"duration" validate:"required,oneof=15 30 60"`
}

// VideoResponseDTO is returned in API responses for videos
type VideoResponseDTO struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Title           string          `json:"title"`
	Description     *string         `json:"description,omitempty"`
	Prompt          string          `json:"prompt"`
	TemplateID      *string         `json:"template_id,omitempty"`
	AvatarID        *string         `json:"avatar_id,omitempty"`
	VoiceType       string          `json:"voice_type"`
	Duration        int             `json:"duration"`
	Status          string          `json:"status"`
	GenerationStage string          `json:"generation_stage"`
	VideoURL        *string         `json:"video_url,omitempty"`
	ThumbnailURL    *string         `json:"thumbnail_url,omitempty"`
	ScriptContent   *string         `json:"script_content,omitempty"`
	AudioURL        *string         `json:"audio_url,omitempty"`
	ErrorDetails    json.RawMessage `json:"error_details,omitempty"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	TemplateName     *string `json:"template_name,omitempty"`
	TemplateCategory *string `json:"template_category,omitempty"`
	AvatarName       *string `json:"avatar_name,omitempty"`
	AvatarStyle      *string `json:"avatar_style,omitempty"`
}
