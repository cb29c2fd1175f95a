// Command oscd receives OSC messages over UDP and logs the ones addressed to
// the configured watch list.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chabad360/go-osc-server/osc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func initLogger(app string, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).Level(level).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

func main() {
	configPath := flag.String("config", "", "path to the TOML config file")
	flag.Parse()

	cfg := defaultServerConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadServerConfig(*configPath)
		if err != nil {
			logger := initLogger("oscd", zerolog.InfoLevel)
			logger.Fatal().Err(err).Msg("failed to load oscd config")
		}
	}
	applyEnvOverrides(&cfg)
	logger := initLogger("oscd", cfg.LogLevel)
	if *configPath != "" {
		logger.Info().Str("path", *configPath).Msg("loaded oscd config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, prometheus.DefaultRegisterer); err != nil {
		logger.Fatal().Err(err).Msg("oscd stopped")
	}
	logger.Info().Msg("oscd stopped")
}

func run(ctx context.Context, cfg serverConfig, logger zerolog.Logger, reg prometheus.Registerer) error {
	server := newServer(cfg, logger)
	defer server.Close()

	metrics, err := osc.NewMetrics(reg)
	if err != nil {
		return err
	}
	server.Metrics = metrics

	if err := watch(server, cfg.Watch, logger); err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsHandler(reg)}
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	return server.ListenAndServe(ctx)
}

func newServer(cfg serverConfig, logger zerolog.Logger) *osc.Server {
	server := osc.NewServer(cfg.Addr)
	server.ReadTimeout = cfg.ReadTimeout
	server.BufferSize = cfg.BufferSize
	server.Decoder.SkipUnknownTags = cfg.SkipUnknownTags
	server.Logger = &logger
	return server
}

// watch registers a logging handler for every address in addrs.
func watch(server *osc.Server, addrs []string, logger zerolog.Logger) error {
	for _, addr := range addrs {
		_, err := server.Handle(addr, func(p osc.Payload) {
			logger.Info().
				Str("address", addr).
				Stringer("kind", p.Kind()).
				Int("args", p.Len()).
				Stringer("payload", p).
				Msg("osc message")
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func metricsHandler(reg prometheus.Registerer) http.Handler {
	mux := http.NewServeMux()
	if g, ok := reg.(prometheus.Gatherer); ok {
		mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	} else {
		mux.Handle("/metrics", promhttp.Handler())
	}
	return mux
}
