package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"viralreel/internal/api/v1/handler"
	"viralreel/internal/config"
	"viralreel/internal/middleware"
	"viralreel/internal/pgmq"
	"viralreel/internal/repository"
	"viralreel/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires the full API: database pool, repositories, services, handlers
// and middleware. The returned pool is owned by the caller.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	dsn := cfg.DBConnectionString
	// Local Postgres rarely has SSL; production connection strings carry
	// their own sslmode.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open DB pool")
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to ping DB")
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	validate := validator.New(validator.WithRequiredStructEnabled())

	mediaStore, err := service.NewMediaStore(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize media store")
		pool.Close()
		return nil, nil, err
	}
	if mediaStore == nil {
		logger.Warn().Msg("Media storage not configured; rendered artifacts will use placeholder URLs")
	}

	queue := pgmq.New(pool)

	profileRepo := repository.NewProfileRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)
	templateRepo := repository.NewTemplateRepo(pool)
	avatarRepo := repository.NewAvatarRepo(pool)
	analyticsRepo := repository.NewAnalyticsRepo(pool)

	mockDelay := time.Duration(cfg.MockStageDelayMs) * time.Millisecond
	scriptSvc := service.NewScriptService(cfg.OpenAIAPIKey, mockDelay, logger)
	avatarSvc := service.NewAvatarService(avatarRepo, mockDelay, logger)
	voiceoverSvc := service.NewVoiceoverService(mockDelay, logger)
	renderSvc := service.NewRenderService(mediaStore, mockDelay, logger)
	videoSvc := service.NewVideoService(
		videoRepo, profileRepo, templateRepo,
		queue, cfg.GenerationQueueName,
		cfg.FreePlanVideoLimit,
		time.Duration(cfg.StaleGenerationTTLMin)*time.Minute,
		logger,
	)
	templateSvc := service.NewTemplateService(templateRepo, logger)
	profileSvc := service.NewProfileService(profileRepo, logger)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, videoRepo, logger)
	stripeSvc := service.NewStripeService(cfg, profileRepo, logger)

	videoHandler := handler.NewVideoHandler(videoSvc, analyticsSvc, validate)
	aiHandler := handler.NewAIHandler(scriptSvc, avatarSvc, voiceoverSvc, renderSvc)
	templateHandler := handler.NewTemplateHandler(templateSvc)
	userHandler := handler.NewUserHandler(profileSvc)
	cronHandler := handler.NewCronHandler(profileSvc, videoSvc)
	subscriptionHandler := handler.NewSubscriptionHandler(stripeSvc, validate, logger)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)
	cronMiddleware := middleware.CronAuthMiddleware(cfg.CronSecret, logger)

	apiMux := http.NewServeMux()
	videoHandler.RegisterRoutes(apiMux, authMiddleware)
	aiHandler.RegisterRoutes(apiMux, authMiddleware)
	templateHandler.RegisterRoutes(apiMux)
	userHandler.RegisterRoutes(apiMux, authMiddleware)
	cronHandler.RegisterRoutes(apiMux, cronMiddleware)
	subscriptionHandler.RegisterRoutes(apiMux, authMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiMux))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux)), pool, nil
}
