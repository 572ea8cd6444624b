package airquality

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Provider fetches the latest reading of every station.
type Provider interface {
	FetchReadings(ctx context.Context) ([]Reading, error)
}

// ServiceConfig holds configuration for the air quality service.
type ServiceConfig struct {
	// Provider is the air quality data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Clock supplies the summary date (default: real clock).
	Clock clockwork.Clock
}

// Service produces the air quality summary.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	clock    clockwork.Clock
}

// NewService creates a new air quality service.
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

// Summary returns today's date followed by one line per station, worst AQI
// first. Failures yield Unavailable.
func (s *Service) Summary(ctx context.Context) string {
	readings, err := s.provider.FetchReadings(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("air quality readings unavailable")
		return Unavailable
	}

	s.logger.Debug().Int("stations", len(readings)).Msg("air quality readings fetched")

	return Format(readings, s.clock.Now())
}

// Format renders readings sorted by AQI descending. Ties keep upstream order.
func Format(readings []Reading, now time.Time) string {
	sorted := slices.Clone(readings)
	slices.SortStableFunc(sorted, func(a, b Reading) int {
		return cmp.Compare(b.AQI, a.AQI)
	})

	var sb strings.Builder
	sb.WriteString("📅 日期：")
	sb.WriteString(now.Format(time.DateOnly))
	for _, r := range sorted {
		sb.WriteString("\n")
		sb.WriteString(r.Line())
	}
	return sb.String()
}
