// Package app assembles the upstream clients, services and dispatcher shared
// by the webhook server and the console.
package app

import (
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/cwabot/cwabot/internal/airquality"
	"github.com/cwabot/cwabot/internal/airquality/moenv"
	"github.com/cwabot/cwabot/internal/bot"
	"github.com/cwabot/cwabot/internal/config"
	"github.com/cwabot/cwabot/internal/cwa"
	"github.com/cwabot/cwabot/internal/earthquake"
	"github.com/cwabot/cwabot/internal/provider/resilience"
	"github.com/cwabot/cwabot/internal/radar"
	"github.com/cwabot/cwabot/internal/region"
	"github.com/cwabot/cwabot/internal/weather"
)

// Upstream names, also used as circuit breaker and registry keys.
const (
	ForecastUpstream   = "cwa-forecast"
	EarthquakeUpstream = "cwa-earthquake"
	AirQualityUpstream = moenv.ProviderName
)

// Options holds the process-wide collaborators.
type Options struct {
	Logger zerolog.Logger

	// Registerer receives the dispatcher metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer

	// UpstreamMetrics records every upstream call. Optional.
	UpstreamMetrics *resilience.Metrics

	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

// App is the assembled bot.
type App struct {
	Dispatcher *bot.Dispatcher
	Providers  *resilience.Registry
}

// New builds the bot from cfg.
func New(cfg config.Config, opts Options) *App {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	providers := resilience.NewRegistry()

	upstream := func(name string) *resilience.Client {
		c := resilience.DefaultClientConfig(name)
		c.Timeout = cfg.UpstreamTimeout
		c.MaxRetries = cfg.UpstreamMaxRetries
		c.Registry = providers
		c.Metrics = opts.UpstreamMetrics
		c.Logger = opts.Logger
		return resilience.NewClient(c)
	}

	cwaClient := cwa.NewClient(cwa.ClientConfig{
		APIKey:               cfg.CWAAPIKey,
		BaseURL:              cfg.CWABaseURL,
		ForecastHTTPClient:   upstream(ForecastUpstream),
		EarthquakeHTTPClient: upstream(EarthquakeUpstream),
		Logger:               opts.Logger,
	})
	moenvClient := moenv.NewClient(moenv.ClientConfig{
		APIKey:     cfg.MOENVAPIKey,
		BaseURL:    cfg.MOENVBaseURL,
		HTTPClient: upstream(AirQualityUpstream),
		Logger:     opts.Logger,
	})

	var metrics *bot.Metrics
	if opts.Registerer != nil {
		metrics = bot.NewMetrics(opts.Registerer)
	}

	dispatcher := bot.NewDispatcher(bot.DispatcherConfig{
		Regions: region.Default(),
		Weather: weather.NewService(weather.ServiceConfig{
			Provider: cwaClient,
			Logger:   opts.Logger,
			Clock:    clock,
		}),
		Earthquake: earthquake.NewService(earthquake.ServiceConfig{
			Provider:         cwaClient,
			FallbackImageURL: cfg.EarthquakeFallbackImageURL,
			Logger:           opts.Logger,
		}),
		AirQuality: airquality.NewService(airquality.ServiceConfig{
			Provider: moenvClient,
			Logger:   opts.Logger,
			Clock:    clock,
		}),
		Radar:   radar.NewSource(cfg.RadarImageURL, clock),
		Metrics: metrics,
		Logger:  opts.Logger,
	})

	return &App{Dispatcher: dispatcher, Providers: providers}
}
