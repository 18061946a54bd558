package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"SUPABASE_JWT_SECRET" required:"true"`

	// Cron endpoints are protected by a shared bearer secret.
	CronSecret string `envconfig:"CRON_SECRET" required:"true"`

	// Monthly quota for free-plan accounts.
	FreePlanVideoLimit int `envconfig:"FREE_PLAN_VIDEO_LIMIT" default:"3"`

	// Simulated latency for the mocked AI stages, in milliseconds.
	MockStageDelayMs int `envconfig:"MOCK_STAGE_DELAY_MS" default:"500"`

	// Optional: real script generation. Placeholder scripts when empty.
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// Optional: S3-compatible media storage for rendered artifacts.
	// Placeholder URLs when S3URL is empty.
	S3URL       string `envconfig:"SUPABASE_S3_URL"`
	S3Bucket    string `envconfig:"SUPABASE_S3_BUCKET" default:"media"`
	S3Region    string `envconfig:"SUPABASE_S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"SUPABASE_S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"SUPABASE_S3_SECRET_KEY"`

	// Stripe billing.
	StripeSecretKey        string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret    string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	StripeProPriceID       string `envconfig:"STRIPE_PRO_PRICE_ID"`
	StripeEnterprisePriceID string `envconfig:"STRIPE_ENTERPRISE_PRICE_ID"`
	CheckoutSuccessURL     string `envconfig:"CHECKOUT_SUCCESS_URL" default:"http://localhost:3000/dashboard?upgraded=1"`
	CheckoutCancelURL      string `envconfig:"CHECKOUT_CANCEL_URL" default:"http://localhost:3000/pricing"`

	// Optional: analytics events. Disabled when project ID is empty.
	GCPProjectID        string `envconfig:"GCP_PROJECT_ID"`
	AnalyticsEventTopic string `envconfig:"ANALYTICS_EVENT_TOPIC" default:"video-events"`
	PubSubEmulatorHost  string `envconfig:"PUBSUB_EMULATOR_HOST"`

	// Optional: overlay production secrets from GCP Secret Manager at boot.
	SecretManagerPrefix string `envconfig:"SECRET_MANAGER_PREFIX"`

	// Generation worker settings.
	GenerationQueueName           string `envconfig:"GENERATION_QUEUE_NAME" default:"video_generation_queue"`
	GenerationDeadLetterQueueName string `envconfig:"GENERATION_DEAD_LETTER_QUEUE_NAME" default:"video_generation_queue_dlq"`
	GenerationPollTimeoutSec      int    `envconfig:"GENERATION_POLL_TIMEOUT_SEC" default:"30"`
	GenerationPollMaxMsg          int    `envconfig:"GENERATION_POLL_MAX_MSG" default:"1"`
	GenerationMaxRetries          int    `envconfig:"GENERATION_MAX_RETRIES" default:"3"`
	GenerationBackoffInitialSec   int    `envconfig:"GENERATION_BACKOFF_INITIAL_SEC" default:"1"`
	GenerationBackoffMaxSec       int    `envconfig:"GENERATION_BACKOFF_MAX_SEC" default:"30"`

	// Videos stuck in 'generating' longer than this are expired by cron.
	StaleGenerationTTLMin int `envconfig:"STALE_GENERATION_TTL_MIN" default:"60"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
