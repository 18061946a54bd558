package service

import (
	"context"
	"fmt"

	"viralreel/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/rs/zerolog"
)

// SecretManagerService overlays sensitive configuration from GCP Secret
// Manager at boot. Environment variables remain the source of truth when
// no prefix is configured.
type SecretManagerService interface {
	OverlayConfig(ctx context.Context, cfg *config.Config) error
	Close() error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
	prefix    string
	logger    zerolog.Logger
}

func NewSecretManagerService(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (SecretManagerService, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP Project ID is not set for the current environment")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretManagerService{
		client:    client,
		projectID: cfg.GCPProjectID,
		prefix:    cfg.SecretManagerPrefix,
		logger:    logger.With().Str("service", "SecretManagerService").Logger(),
	}, nil
}

// OverlayConfig replaces selected config fields with values from Secret
// Manager. Missing secrets are skipped so partial rollouts keep working.
func (s *secretManagerService) OverlayConfig(ctx context.Context, cfg *config.Config) error {
	targets := []struct {
		name string
		dst  *string
	}{
		{"jwt-secret", &cfg.JWTSecret},
		{"cron-secret", &cfg.CronSecret},
		{"openai-api-key", &cfg.OpenAIAPIKey},
		{"s3-access-key", &cfg.S3AccessKey},
		{"s3-secret-key", &cfg.S3SecretKey},
		{"stripe-secret-key", &cfg.StripeSecretKey},
		{"stripe-webhook-secret", &cfg.StripeWebhookSecret},
	}

	for _, t := range targets {
		value, err := s.access(ctx, t.name)
		if err != nil {
			s.logger.Debug().Str("secret", t.name).Msg("Secret not found, keeping environment value")
			continue
		}
		if value != "" {
			*t.dst = value
		}
	}
	return nil
}

func (s *secretManagerService) access(ctx context.Context, name string) (string, error) {
	secretName := s.prefix + name
	resourceName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, secretName)

	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}

	return string(result.Payload.Data), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}
