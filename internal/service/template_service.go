package service

import (
	"context"

	"viralreel/internal/model"
	"viralreel/internal/repository"

	"github.com/rs/zerolog"
)

// TemplateService lists the template catalog.
type TemplateService interface {
	List(ctx context.Context, category string) ([]model.Template, error)
}

type templateService struct {
	repo   repository.TemplateRepository
	logger zerolog.Logger
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(repo repository.TemplateRepository, logger zerolog.Logger) TemplateService {
	return &templateService{
		repo:   repo,
		logger: logger.With().Str("service", "TemplateService").Logger(),
	}
}

func (s *templateService) List(ctx context.Context, category string) ([]model.Template, error) {
	templates, err := s.repo.List(ctx, category)
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Msg("Failed to list templates")
		return nil, err
	}
	return templates, nil
}
