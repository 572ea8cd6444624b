package weather

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Provider fetches the nearest forecast window for a city.
type Provider interface {
	GetForecast(ctx context.Context, city string) (*Forecast, error)
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the forecast data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Clock supplies the report date (default: real clock).
	Clock clockwork.Clock
}

// Service produces weather replies. It never returns an error: failures are
// logged and replaced by Unavailable.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	clock    clockwork.Clock
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		clock:    clock,
	}
}

// Report returns the formatted forecast reply for city.
func (s *Service) Report(ctx context.Context, city string) string {
	forecast, err := s.provider.GetForecast(ctx, city)
	if err != nil {
		s.logger.Warn().Err(err).Str("city", city).Msg("weather forecast unavailable")
		return Unavailable
	}

	if forecast.City == "" {
		forecast.City = city
	}

	return NewReport(*forecast, s.clock.Now()).Text()
}
