package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for a snapshot run.
type Metrics struct {
	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: provider={nominatim,mapbox}, outcome={success,error,empty}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: provider
	LocationSource     *prometheus.CounterVec   // labels: source={geocoded,default,fallback}

	// Weather API metrics.
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error}
	WeatherAPIDuration prometheus.Histogram
	WindSpeedKnots     prometheus.Gauge

	// Rendering and publishing.
	RenderDuration   prometheus.Histogram
	MarkersRendered  prometheus.Gauge
	SnapshotsWritten prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "windmap",
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		LocationSource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "location_resolved_total",
			Help:      "Resolved locations by source.",
		}, []string{"source"}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "weather_requests_total",
			Help:      "Weather API requests by outcome.",
		}, []string{"outcome"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "windmap",
			Name:      "weather_api_duration_seconds",
			Help:      "Weather API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		WindSpeedKnots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "windmap",
			Name:      "wind_speed_knots",
			Help:      "Wind speed of the last rendered snapshot in knots.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "windmap",
			Name:      "render_duration_seconds",
			Help:      "Duration of rendering and writing the HTML map.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		MarkersRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "windmap",
			Name:      "markers_rendered",
			Help:      "Number of arrow markers in the last rendered map.",
		}),
		SnapshotsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "snapshots_written_total",
			Help:      "Total HTML maps written.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "publish_errors_total",
			Help:      "Snapshot publish failures.",
		}),
	}

	prometheus.MustRegister(
		m.GeocodeRequests,
		m.GeocodeAPIDuration,
		m.LocationSource,
		m.WeatherRequests,
		m.WeatherAPIDuration,
		m.WindSpeedKnots,
		m.RenderDuration,
		m.MarkersRendered,
		m.SnapshotsWritten,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "windmap", Name: "geocode_requests_total"}, []string{"provider", "outcome"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "windmap", Name: "geocode_api_duration_seconds"}, []string{"provider"}),
		LocationSource:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "windmap", Name: "location_resolved_total"}, []string{"source"}),
		WeatherRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "windmap", Name: "weather_requests_total"}, []string{"outcome"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "windmap", Name: "weather_api_duration_seconds"}),
		WindSpeedKnots:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "windmap", Name: "wind_speed_knots"}),
		RenderDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "windmap", Name: "render_duration_seconds"}),
		MarkersRendered:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "windmap", Name: "markers_rendered"}),
		SnapshotsWritten:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "windmap", Name: "snapshots_written_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "windmap", Name: "publish_errors_total"}),
	}
}
