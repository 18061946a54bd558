package dto

import "encoding/json"

// GenerateScriptDTO is the request body for the script stage endpoint
type GenerateScriptDTO struct {
	Prompt   string `json:"prompt"`
	Duration int    `json:"duration"`
	Template string `json:"template"`
}

// ScriptResponseDTO wraps a generated script
type ScriptResponseDTO struct {
	Script string `json:"script"`
}

// CreateAvatarDTO is the request body for the avatar stage endpoint
type CreateAvatarDTO struct {
	Style       string `json:"style"`
	Description string `json:"description"`
}

// AvatarResponseDTO wraps a created avatar
type AvatarResponseDTO struct {
	Avatar AvatarDTO `json:"avatar"`
}

type AvatarDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Style        string  `json:"style"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	Status       string  `json:"status"`
}

// GenerateVoiceoverDTO is the request body for the voiceover stage endpoint
type GenerateVoiceoverDTO struct {
	Text     string `json:"text"`
	Voice    string `json:"voice"`
	Language string `json:"language"`
}

// VoiceoverResponseDTO wraps a synthesized voiceover
type VoiceoverResponseDTO struct {
	Voiceover VoiceoverDTO `json:"voiceover"`
}

type VoiceoverDTO struct {
	AudioURL string `json:"audio_url"`
	Duration int    `json:"duration"`
	Status   string `json:"status"`
}

// RenderVideoDTO is the request body for the render stage endpoint
type RenderVideoDTO struct {
	Script         string          `json:"script"`
	AvatarID       string          `json:"avatar_id"`
	VoiceAudioURL  string          `json:"voice_audio_url"`
	TemplateConfig json.RawMessage `json:"template_config,omitempty"`
}

// RenderResponseDTO wraps a rendered clip
type RenderResponseDTO struct {
	Video RenderedVideoDTO `json:"video"`
}

type RenderedVideoDTO struct {
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration"`
	Resolution   string `json:"resolution"`
	Status       string `json:"status"`
}
