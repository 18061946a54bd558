package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// ErrPromptRequired is returned when the script stage is called without a
// prompt.
var ErrPromptRequired = errors.New("prompt_required")

// ScriptService generates the video script for a prompt. Without an OpenAI
// key it returns the placeholder script so the rest of the pipeline stays
// exercisable.
type ScriptService interface {
	GenerateScript(ctx context.Context, prompt string, duration int, template string) (string, error)
}

type scriptService struct {
	client *openai.Client // nil when no API key is configured
	delay  time.Duration
	logger zerolog.Logger
}

// NewScriptService creates a new ScriptService. apiKey may be empty.
func NewScriptService(apiKey string, mockDelay time.Duration, logger zerolog.Logger) ScriptService {
	var client *openai.Client
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}
	return &scriptService{
		client: client,
		delay:  mockDelay,
		logger: logger.With().Str("service", "ScriptService").Logger(),
	}
}

func (s *scriptService) GenerateScript(ctx context.Context, prompt string, duration int, template string) (string, error) {
	if prompt == "" {
		return "", ErrPromptRequired
	}

	if s.client == nil {
		if err := simulateDelay(ctx, s.delay); err != nil {
			return "", err
		}
		script := fmt.Sprintf("This is a placeholder script for the video about: %s\nDuration: %d seconds\nTemplate: %s",
			prompt, duration, template)
		return script, nil
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a professional video script writer. Create engaging, concise scripts for short-form videos.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Create a %d-second video script about: %s\nTemplate style: %s", duration, prompt, template),
			},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("OpenAI chat completion failed")
		return "", fmt.Errorf("generate script: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("generate script: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// simulateDelay stands in for the latency of the real provider call.
func simulateDelay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
