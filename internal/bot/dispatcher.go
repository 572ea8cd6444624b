package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cwabot/cwabot/internal/region"
)

const tracerName = "github.com/cwabot/cwabot/internal/bot"

// Fixed reply texts.
const (
	MenuPrompt = "請選擇區域："
	HelpText   = "請輸入'W'查詢天氣資訊，'E'來查詢地震資訊，'A'查詢空氣品質，'R'查詢雷達回波"
)

// RegionPrompt is the city menu title for a region.
func RegionPrompt(regionName string) string {
	return fmt.Sprintf("請選擇 %s 的縣市：", regionName)
}

// WeatherReporter renders the forecast reply for a city.
type WeatherReporter interface {
	Report(ctx context.Context, city string) string
}

// EarthquakeReporter renders the latest earthquake as text plus image URL.
type EarthquakeReporter interface {
	Latest(ctx context.Context) (text, imageURL string)
}

// AirQualityReporter renders the nationwide AQI summary.
type AirQualityReporter interface {
	Summary(ctx context.Context) string
}

// RadarSource hands out radar image URLs.
type RadarSource interface {
	URL() string
}

// DispatcherConfig holds the dispatcher's collaborators.
type DispatcherConfig struct {
	Regions    *region.Table
	Weather    WeatherReporter
	Earthquake EarthquakeReporter
	AirQuality AirQualityReporter
	Radar      RadarSource

	// Metrics is optional.
	Metrics *Metrics

	Logger zerolog.Logger
}

// Dispatcher routes tokens to replies. It is safe for concurrent use.
type Dispatcher struct {
	regions    *region.Table
	weather    WeatherReporter
	earthquake EarthquakeReporter
	airQuality AirQualityReporter
	radar      RadarSource
	metrics    *Metrics
	tracer     trace.Tracer
	logger     zerolog.Logger
}

// NewDispatcher creates a dispatcher. A nil region table uses region.Default.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	regions := cfg.Regions
	if regions == nil {
		regions = region.Default()
	}

	return &Dispatcher{
		regions:    regions,
		weather:    cfg.Weather,
		earthquake: cfg.Earthquake,
		airQuality: cfg.AirQuality,
		radar:      cfg.Radar,
		metrics:    cfg.Metrics,
		tracer:     otel.Tracer(tracerName),
		logger:     cfg.Logger,
	}
}

// Dispatch classifies token and builds its reply. The result is never empty
// and at most one upstream call is made.
func (d *Dispatcher) Dispatch(ctx context.Context, token string) []Message {
	cmd := Classify(token, d.regions)

	ctx, span := d.tracer.Start(ctx, "bot.Dispatch",
		trace.WithAttributes(attribute.String("bot.command", cmd.String())),
	)
	defer span.End()

	d.metrics.observe(cmd)
	d.logger.Debug().Str("command", cmd.String()).Msg("dispatching")

	switch cmd {
	case CommandShowMenu:
		return []Message{Text{Text: MenuPrompt, QuickReplies: quickReplies(d.regions.Names())}}

	case CommandSelectRegion:
		r, _ := d.regions.Lookup(token)
		return []Message{Text{Text: RegionPrompt(r.Name), QuickReplies: quickReplies(r.Cities)}}

	case CommandSelectCity:
		return []Message{Text{Text: d.weather.Report(ctx, token)}}

	case CommandEarthquake:
		text, imageURL := d.earthquake.Latest(ctx)
		return []Message{
			Text{Text: text},
			Image{OriginalURL: imageURL, PreviewURL: imageURL},
		}

	case CommandAirQuality:
		return []Message{Text{Text: d.airQuality.Summary(ctx)}}

	case CommandRadar:
		u := d.radar.URL()
		return []Message{Image{OriginalURL: u, PreviewURL: u}}

	default:
		return []Message{Text{Text: HelpText}}
	}
}
