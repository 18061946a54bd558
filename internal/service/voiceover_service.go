package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrTextAndVoiceRequired is returned when the voiceover stage is missing
// its script text or voice id.
var ErrTextAndVoiceRequired = errors.New("text_and_voice_required")

// Voiceover is the synthesized audio for a script.
type Voiceover struct {
	AudioURL string `json:"audio_url"`
	Duration int    `json:"duration"`
	Status   string `json:"status"`
}

// VoiceoverService synthesizes a voiceover from script text. Mocked: returns
// a placeholder audio URL and a word-count duration estimate.
type VoiceoverService interface {
	GenerateVoiceover(ctx context.Context, text, voice, language string) (*Voiceover, error)
}

type voiceoverService struct {
	delay  time.Duration
	logger zerolog.Logger
}

// NewVoiceoverService creates a new VoiceoverService.
func NewVoiceoverService(mockDelay time.Duration, logger zerolog.Logger) VoiceoverService {
	return &voiceoverService{
		delay:  mockDelay,
		logger: logger.With().Str("service", "VoiceoverService").Logger(),
	}
}

func (s *voiceoverService) GenerateVoiceover(ctx context.Context, text, voice, language string) (*Voiceover, error) {
	if text == "" || voice == "" {
		return nil, ErrTextAndVoiceRequired
	}
	if err := simulateDelay(ctx, s.delay); err != nil {
		return nil, err
	}
	return &Voiceover{
		AudioURL: "https://example.com/placeholder-audio.mp3",
		Duration: estimateSpeechSeconds(text),
		Status:   "completed",
	}, nil
}

// estimateSpeechSeconds approximates narration length at ~150 words/minute.
func estimateSpeechSeconds(text string) int {
	words := len(strings.Fields(text))
	seconds := words * 60 / 150
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
