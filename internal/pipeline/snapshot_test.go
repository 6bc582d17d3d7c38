package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/wind-map/internal/domain"
	"github.com/couchcryptid/wind-map/internal/observability"
	"github.com/couchcryptid/wind-map/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockGeocoder struct {
	result domain.GeocodingResult
	err    error
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, _ string) (domain.GeocodingResult, error) {
	return m.result, m.err
}

type mockWeather struct {
	sample   domain.WeatherSample
	err      error
	lat, lon float64
	calls    int
}

func (m *mockWeather) FetchWind(_ context.Context, lat, lon float64) (domain.WeatherSample, error) {
	m.calls++
	m.lat, m.lon = lat, lon
	return m.sample, m.err
}

type mockPublisher struct {
	published []domain.WindSnapshot
	err       error
	deadline  bool
}

func (m *mockPublisher) Publish(ctx context.Context, snap domain.WindSnapshot) error {
	_, m.deadline = ctx.Deadline()
	m.published = append(m.published, snap)
	return m.err
}

var testNow = time.Date(2025, time.June, 1, 14, 5, 0, 0, time.UTC)

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(testNow))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func outputPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "wind_map.html")
}

// --- tests ---

func TestSnapshot_Run_HappyPath(t *testing.T) {
	freezeClock(t)
	geo := &mockGeocoder{result: domain.GeocodingResult{
		Lat: 41.49, Lon: -71.31, FormattedAddress: "Newport, Rhode Island, United States",
	}}
	weather := &mockWeather{sample: domain.NewWeatherSample("10", 90)}
	metrics := observability.NewMetricsForTesting()
	path := outputPath(t)

	snap, err := pipeline.New(geo, weather, path, slog.Default(), metrics).Run(context.Background(), "Newport RI")
	require.NoError(t, err)

	want := domain.WindSnapshot{
		Location: domain.Location{
			Name: "Newport RI", Lat: 41.49, Lon: -71.31,
			Address: "Newport, Rhode Island, United States", Source: "geocoded",
		},
		Sample: domain.WeatherSample{SpeedRaw: "10", SpeedMPS: 10, DirectionDeg: 90},
		Visual: domain.VisualParams{
			Knots: 19.4384, Tier: 4, Color: "#e67e22",
			RotationDeg: 270, Compass: "E", ArrowSizePt: 20,
		},
		Markers:    1600,
		RenderedAt: testNow,
		OutputPath: path,
	}
	if diff := cmp.Diff(want, snap, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 41.49, weather.lat)
	assert.Equal(t, -71.31, weather.lon)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1600, strings.Count(string(data), `"lat":`))
	assert.Contains(t, string(data), "E, 19.4 kts")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SnapshotsWritten))
	assert.Equal(t, 1600.0, testutil.ToFloat64(metrics.MarkersRendered))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LocationSource.WithLabelValues("geocoded")))
}

func TestSnapshot_Run_UnresolvedPlaceFallsBack(t *testing.T) {
	freezeClock(t)
	geo := &mockGeocoder{} // no match
	weather := &mockWeather{sample: domain.NewWeatherSample("3", 200)}
	path := outputPath(t)

	snap, err := pipeline.New(geo, weather, path, slog.Default(), observability.NewMetricsForTesting()).
		Run(context.Background(), "Atlantis")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultLat, snap.Location.Lat)
	assert.Equal(t, domain.DefaultLon, snap.Location.Lon)
	assert.Equal(t, domain.DefaultPlaceName, snap.Location.Address)
	assert.Equal(t, domain.DefaultLat, weather.lat, "weather is fetched at the default location")
	assert.Equal(t, domain.DefaultLon, weather.lon)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Live Wind Visualization: Atlantis")
	assert.Contains(t, string(data), "32.66")
	assert.Contains(t, string(data), "-79.96")
}

func TestSnapshot_Run_GeocoderErrorFallsBack(t *testing.T) {
	freezeClock(t)
	geo := &mockGeocoder{err: errors.New("dial tcp: no route to host")}
	weather := &mockWeather{sample: domain.NewWeatherSample("3", 200)}

	snap, err := pipeline.New(geo, weather, outputPath(t), slog.Default(), observability.NewMetricsForTesting()).
		Run(context.Background(), "Charleston")
	require.NoError(t, err)
	assert.Equal(t, "fallback", snap.Location.Source)
}

func TestSnapshot_Run_NoPlaceUsesDefault(t *testing.T) {
	freezeClock(t)
	weather := &mockWeather{sample: domain.NewWeatherSample("N/A", 0)}
	metrics := observability.NewMetricsForTesting()

	snap, err := pipeline.New(&mockGeocoder{}, weather, outputPath(t), slog.Default(), metrics).
		Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultLocation(), snap.Location)
	assert.Equal(t, 1, snap.Visual.Tier)
	assert.Equal(t, domain.MinArrowSizePt, snap.Visual.ArrowSizePt)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LocationSource.WithLabelValues("default")))
}

func TestSnapshot_Run_WeatherErrorIsFatal(t *testing.T) {
	weather := &mockWeather{err: errors.New("tomorrow.io API error: status 429")}
	path := outputPath(t)

	_, err := pipeline.New(nil, weather, path, slog.Default(), observability.NewMetricsForTesting()).
		Run(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch weather")
	assert.Contains(t, err.Error(), "429")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no map is written when the weather fetch fails")
}

func TestSnapshot_Run_WriteErrorIsFatal(t *testing.T) {
	weather := &mockWeather{sample: domain.NewWeatherSample("5", 10)}
	path := filepath.Join(t.TempDir(), "missing", "wind_map.html")
	pub := &mockPublisher{}

	_, err := pipeline.New(nil, weather, path, slog.Default(), observability.NewMetricsForTesting()).
		WithPublisher(pub, time.Second).
		Run(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write map")
	assert.Empty(t, pub.published, "nothing is published when the map was not written")
}

func TestSnapshot_Run_Publishes(t *testing.T) {
	freezeClock(t)
	weather := &mockWeather{sample: domain.NewWeatherSample("12", 300)}
	pub := &mockPublisher{}

	snap, err := pipeline.New(nil, weather, outputPath(t), slog.Default(), observability.NewMetricsForTesting()).
		WithPublisher(pub, 5*time.Second).
		Run(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	assert.Equal(t, snap, pub.published[0])
	assert.True(t, pub.deadline, "publish is bounded by the timeout")
}

func TestSnapshot_Run_PublishErrorIsNotFatal(t *testing.T) {
	freezeClock(t)
	weather := &mockWeather{sample: domain.NewWeatherSample("12", 300)}
	pub := &mockPublisher{err: errors.New("broker unavailable")}
	metrics := observability.NewMetricsForTesting()

	_, err := pipeline.New(nil, weather, outputPath(t), slog.Default(), metrics).
		WithPublisher(pub, 0).
		Run(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, pub.deadline)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PublishErrors))
}
