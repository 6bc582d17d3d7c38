// Command windmap renders the current wind at a place as an HTML map.
//
// Usage:
//
//	windmap [place name ...]
//
// All arguments are joined into one place name. With no arguments the map is
// centered on Folly Beach, SC. The result is written to wind_map.html
// (OUTPUT_PATH) in the working directory.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	kafkaadapter "github.com/couchcryptid/wind-map/internal/adapter/kafka"
	"github.com/couchcryptid/wind-map/internal/adapter/mapbox"
	"github.com/couchcryptid/wind-map/internal/adapter/nominatim"
	"github.com/couchcryptid/wind-map/internal/adapter/tomorrow"
	"github.com/couchcryptid/wind-map/internal/config"
	"github.com/couchcryptid/wind-map/internal/domain"
	"github.com/couchcryptid/wind-map/internal/observability"
	"github.com/couchcryptid/wind-map/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err = run(ctx, cfg, placeName(os.Args[1:]), logger, metrics, prometheus.DefaultGatherer)
	stop()
	if err != nil {
		logger.Error("wind map failed", "error", err)
		os.Exit(1)
	}
}

func placeName(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func run(ctx context.Context, cfg *config.Config, place string, logger *slog.Logger, metrics *observability.Metrics, gatherer prometheus.Gatherer) error {
	logger.Info("starting wind visualization")

	weather := tomorrow.NewClient(cfg.TomorrowAPIKey, cfg.TomorrowBaseURL, cfg.WeatherTimeout, metrics, logger)
	snapshot := pipeline.New(newGeocoder(cfg, metrics, logger), weather, cfg.OutputPath, logger, metrics)

	if cfg.PublishEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		snapshot.WithPublisher(writer, cfg.ShutdownTimeout)
		logger.Info("snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	_, err := snapshot.Run(ctx, place)

	// Metrics are pushed for failed runs too.
	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		if pushErr := observability.Push(pushCtx, cfg.PushgatewayURL, gatherer); pushErr != nil {
			logger.Warn("metrics push failed", "error", pushErr)
		}
		cancel()
	}

	if err != nil {
		return err
	}
	logger.Info("application completed successfully")
	return nil
}

// newGeocoder picks Mapbox when MAPBOX_TOKEN is configured, Nominatim otherwise.
func newGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.Geocoder {
	if cfg.MapboxEnabled {
		logger.Info("mapbox geocoding enabled", "timeout", cfg.GeocodeTimeout)
		return mapbox.NewClient(cfg.MapboxToken, cfg.GeocodeTimeout, metrics, logger)
	}
	logger.Debug("nominatim geocoding enabled", "base_url", cfg.NominatimBaseURL)
	return nominatim.NewClient(cfg.NominatimBaseURL, cfg.GeocodeTimeout, metrics, logger)
}
