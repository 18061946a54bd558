package model

import (
	"encoding/json"
	"time"
)

// Video lifecycle. A row is created in draft by the quota-checked create
// call, flips to generating when the worker dequeues it, and ends in
// completed or failed. Status is owned by the server; clients never patch it.
const (
	VideoStatusDraft      = "draft"
	VideoStatusGenerating = "generating"
	VideoStatusCompleted  = "completed"
	VideoStatusFailed     = "failed"
)

// Generation stages, in execution order. The persisted stage is the saga
// cursor: a redelivered job resumes at the first stage whose output is
// missing.
const (
	StagePending   = "pending"
	StageScripting = "scripting"
	StageAvatar    = "avatar"
	StageVoiceover = "voiceover"
	StageRendering = "rendering"
	StageDone      = "done"
)

// Voice types accepted by the voiceover stage.
var VoiceTypes = []string{"male-professional", "female-friendly", "male-spanish", "female-spanish"}

// Accepted clip durations in seconds.
var VideoDurations = []int{15, 30, 60}

type Video struct {
	ID              string          `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"user_id"`
	Title           string          `db:"title" json:"title"`
	Description     *string         `db:"description" json:"description,omitempty"`
	Prompt          string          `db:"prompt" json:"prompt"`
	TemplateID      *string         `db:"template_id" json:"template_id,omitempty"`
	AvatarID        *string         `db:"avatar_id" json:"avatar_id,omitempty"`
	VoiceType       string          `db:"voice_type" json:"voice_type"`
	Duration        int             `db:"duration" json:"duration"`
	Status          string          `db:"status" json:"status"`
	GenerationStage string          `db:"generation_stage" json:"generation_stage"`
	VideoURL        *string         `db:"video_url" json:"video_url,omitempty"`
	ThumbnailURL    *string         `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	ScriptContent   *string         `db:"script_content" json:"script_content,omitempty"`
	AudioURL        *string         `db:"audio_url" json:"audio_url,omitempty"`
	ErrorDetails    json.RawMessage `db:"error_details" json:"error_details,omitempty"`
	Metadata        json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`

	// Joined display fields, populated by the list query.
	TemplateName     *string `db:"template_name" json:"template_name,omitempty"`
	TemplateCategory *string `db:"template_category" json:"template_category,omitempty"`
	AvatarName       *string `db:"avatar_name" json:"avatar_name,omitempty"`
	AvatarStyle      *string `db:"avatar_style" json:"avatar_style,omitempty"`
}
