package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/wind-map/internal/domain"
	"github.com/couchcryptid/wind-map/internal/observability"
	"github.com/couchcryptid/wind-map/internal/render"
)

// WeatherFetcher returns the current wind reading at a coordinate.
type WeatherFetcher interface {
	FetchWind(ctx context.Context, lat, lon float64) (domain.WeatherSample, error)
}

// Publisher announces a finished snapshot.
type Publisher interface {
	Publish(ctx context.Context, snap domain.WindSnapshot) error
}

// Snapshot runs the resolve, fetch, derive, render sequence once.
type Snapshot struct {
	geocoder       domain.Geocoder
	weather        WeatherFetcher
	publisher      Publisher
	publishTimeout time.Duration
	outputPath     string
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// New creates a Snapshot. A nil geocoder sends every named place to the
// default location.
func New(geocoder domain.Geocoder, weather WeatherFetcher, outputPath string, logger *slog.Logger, metrics *observability.Metrics) *Snapshot {
	return &Snapshot{
		geocoder:   geocoder,
		weather:    weather,
		outputPath: outputPath,
		logger:     logger,
		metrics:    metrics,
	}
}

// WithPublisher sends every written snapshot to p, giving each publish at
// most timeout (zero means no limit).
func (s *Snapshot) WithPublisher(p Publisher, timeout time.Duration) *Snapshot {
	s.publisher = p
	s.publishTimeout = timeout
	return s
}

// Run produces the map for placeName. Geocoding problems fall back to the
// default location; weather and write failures are returned.
func (s *Snapshot) Run(ctx context.Context, placeName string) (domain.WindSnapshot, error) {
	loc := domain.ResolveLocation(ctx, placeName, s.geocoder, s.logger)
	s.metrics.LocationSource.WithLabelValues(loc.Source).Inc()
	s.logger.Info("using location", "lat", loc.Lat, "lon", loc.Lon, "address", loc.Address)

	s.logger.Info("getting weather data")
	sample, err := s.weather.FetchWind(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return domain.WindSnapshot{}, fmt.Errorf("fetch weather: %w", err)
	}
	s.logger.Info("wind reading",
		"speed_mps", sample.SpeedRaw,
		"direction_deg", sample.DirectionDeg,
	)

	snap := domain.NewWindSnapshot(loc, sample)
	s.metrics.WindSpeedKnots.Set(snap.Visual.Knots)
	s.logger.Info("derived visual parameters",
		"knots", snap.Visual.Knots,
		"tier", snap.Visual.Tier,
		"compass", snap.Visual.Compass,
		"rotation_deg", snap.Visual.RotationDeg,
		"arrow_size_pt", snap.Visual.ArrowSizePt,
	)

	start := time.Now()
	page := render.NewPage(snap)
	s.logger.Info("writing map to file", "path", s.outputPath, "markers", len(page.Grid))
	if err := render.WriteFile(s.outputPath, page); err != nil {
		return domain.WindSnapshot{}, err
	}
	s.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	s.metrics.MarkersRendered.Set(float64(len(page.Grid)))
	s.metrics.SnapshotsWritten.Inc()

	snap.Markers = len(page.Grid)
	snap.OutputPath = s.outputPath
	s.logger.Info("map saved", "path", s.outputPath)

	s.publish(ctx, snap)
	return snap, nil
}

// publish is best effort: the HTML file is already on disk.
func (s *Snapshot) publish(ctx context.Context, snap domain.WindSnapshot) {
	if s.publisher == nil {
		return
	}
	if s.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.publishTimeout)
		defer cancel()
	}
	if err := s.publisher.Publish(ctx, snap); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish snapshot failed", "error", err)
		return
	}
	s.logger.Info("snapshot published")
}
