// Package main provides the entrypoint for the LINE webhook server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/cwabot/cwabot/internal/api"
	"github.com/cwabot/cwabot/internal/api/middleware"
	"github.com/cwabot/cwabot/internal/app"
	"github.com/cwabot/cwabot/internal/config"
	"github.com/cwabot/cwabot/internal/line"
	"github.com/cwabot/cwabot/internal/provider/resilience"
	"github.com/cwabot/cwabot/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "cwabot"

	cfg, err := config.Load()
	if err != nil {
		bootLog := telemetry.NewLogger(os.Stderr, telemetry.LoggerConfig{ServiceName: serviceName, ServiceVersion: Version})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := telemetry.NewLogger(os.Stdout, telemetry.LoggerConfig{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Level:          cfg.LogLevel,
		Console:        cfg.LogFormat == "console",
	})

	log.Info().
		Str("build_time", BuildTime).
		Object("config", cfg).
		Msg("starting cwabot")

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		return err
	}
	upstreamMetrics, err := resilience.NewMetrics()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cwabot := app.New(cfg, app.Options{
		Logger:          log,
		Registerer:      reg,
		UpstreamMetrics: upstreamMetrics,
	})

	replier, err := line.NewReplier(cfg.LineChannelAccessToken)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   "cwabot",
		Metrics:       httpMetrics,
		ChannelSecret: cfg.LineChannelSecret,
		Dispatcher:    cwabot.Dispatcher,
		Responder:     line.NewResponder(replier, log),
		Providers:     cwabot.Providers,
		Gatherer:      reg,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
