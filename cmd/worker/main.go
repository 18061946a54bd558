package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"viralreel/internal/config"
	"viralreel/internal/logger"
	"viralreel/internal/pgmq"
	"viralreel/internal/pubsub"
	"viralreel/internal/repository"
	"viralreel/internal/service"
	"viralreel/internal/worker/generation"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Initialize logger
	logger := logger.New()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// Set up context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize DB pool
	pool, err := pgxpool.New(ctx, cfg.DBConnectionString)
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Msgf("Failed to ping DB: %v", err)
	}
	logger.Info().Msg("Database connection established")

	// Initialize PGMQ client
	pgmqClient := pgmq.New(pool)
	logger.Info().Msg("PGMQ client initialized")

	// Media store is optional; without it the render stage emits
	// placeholder URLs.
	mediaStore, err := service.NewMediaStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to initialize media store: %v", err)
	}

	// Completion events are optional too.
	var publisher pubsub.Publisher = pubsub.NopPublisher{}
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Pub/Sub publisher: %v", err)
		}
		publisher = p
	}

	videoRepo := repository.NewVideoRepo(pool)
	templateRepo := repository.NewTemplateRepo(pool)
	avatarRepo := repository.NewAvatarRepo(pool)

	mockDelay := time.Duration(cfg.MockStageDelayMs) * time.Millisecond
	stages := generation.Stages{
		Scripts:    service.NewScriptService(cfg.OpenAIAPIKey, mockDelay, logger),
		Avatars:    service.NewAvatarService(avatarRepo, mockDelay, logger),
		Voiceovers: service.NewVoiceoverService(mockDelay, logger),
		Renders:    service.NewRenderService(mediaStore, mockDelay, logger),
	}

	if err := generation.Run(ctx, logger, pgmqClient, cfg, videoRepo, templateRepo, stages, publisher); err != nil {
		logger.Fatal().Msgf("Generation worker failed: %v", err)
	}

	logger.Info().Msg("Generation worker stopped gracefully")
}
