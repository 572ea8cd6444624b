package earthquake

import (
	"context"

	"github.com/rs/zerolog"
)

// Provider fetches the newest notable earthquake.
type Provider interface {
	GetLatest(ctx context.Context) (*Event, error)
}

// ServiceConfig holds configuration for the earthquake service.
type ServiceConfig struct {
	Provider Provider

	// FallbackImageURL is sent with NotFound (default: DefaultFallbackImageURL).
	FallbackImageURL string

	Logger zerolog.Logger
}

// Service produces earthquake replies.
type Service struct {
	provider         Provider
	fallbackImageURL string
	logger           zerolog.Logger
}

// NewService creates a new earthquake service.
func NewService(cfg ServiceConfig) *Service {
	fallback := cfg.FallbackImageURL
	if fallback == "" {
		fallback = DefaultFallbackImageURL
	}

	return &Service{
		provider:         cfg.Provider,
		fallbackImageURL: fallback,
		logger:           cfg.Logger,
	}
}

// Latest returns the summary text and report image URL of the newest event.
// Any failure yields NotFound with the fallback image.
func (s *Service) Latest(ctx context.Context) (text, imageURL string) {
	event, err := s.provider.GetLatest(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("earthquake report unavailable")
		return NotFound, s.fallbackImageURL
	}

	imageURL = event.ImageURL
	if imageURL == "" {
		s.logger.Warn().Str("origin_time", event.OriginTime).Msg("earthquake report has no image")
		imageURL = s.fallbackImageURL
	}

	return event.Text(), imageURL
}
