// Command windpreview renders the wind map from flag-supplied readings
// without calling the geocoding or weather APIs. It uses the same domain and
// render packages as windmap, so the output matches a live run.
//
// Usage:
//
//	go run ./cmd/windpreview -speed 10 -direction 90 -out preview.html
//	go run ./cmd/windpreview -speed 18 -direction 225 -at 2025-06-01T14:05:00Z
//	go run ./cmd/windpreview -speed 7 -direction 300 -serve :8080
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	httpadapter "github.com/couchcryptid/wind-map/internal/adapter/http"
	"github.com/couchcryptid/wind-map/internal/domain"
	"github.com/couchcryptid/wind-map/internal/observability"
	"github.com/couchcryptid/wind-map/internal/render"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	speed     string
	direction float64
	lat       float64
	lon       float64
	place     string
	address   string
	out       string
	at        string
	serve     string
}

func run() error {
	var opts options
	flag.StringVar(&opts.speed, "speed", "10", "wind speed in m/s as the API would report it (\"N/A\" allowed)")
	flag.Float64Var(&opts.direction, "direction", 90, "meteorological wind direction in degrees")
	flag.Float64Var(&opts.lat, "lat", domain.DefaultLat, "map center latitude")
	flag.Float64Var(&opts.lon, "lon", domain.DefaultLon, "map center longitude")
	flag.StringVar(&opts.place, "place", domain.DefaultPlaceName, "place name shown in the title")
	flag.StringVar(&opts.address, "address", domain.DefaultPlaceName, "address shown under the title")
	flag.StringVar(&opts.out, "out", "wind_map_preview.html", "output HTML path")
	flag.StringVar(&opts.at, "at", "", "render timestamp (RFC3339); defaults to now")
	flag.StringVar(&opts.serve, "serve", "", "serve the map over HTTP on this address after writing it")
	flag.Parse()

	snap, err := preview(opts)
	if err != nil {
		return err
	}
	page, err := writePreview(snap, opts.out, observability.NewMetrics())
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s: %s %.1f kts, tier %d, rotation %g°\n",
		opts.out, snap.Visual.Compass, snap.Visual.Knots, snap.Visual.Tier, snap.Visual.RotationDeg)

	if opts.serve == "" {
		return nil
	}
	maps := &mapSource{}
	maps.Set(page)
	return serve(opts.serve, maps)
}

// writePreview renders snap to path and records the render metrics served
// under /metrics.
func writePreview(snap domain.WindSnapshot, path string, metrics *observability.Metrics) (render.Page, error) {
	start := time.Now()
	page := render.NewPage(snap)
	if err := render.WriteFile(path, page); err != nil {
		return render.Page{}, err
	}
	metrics.RenderDuration.Observe(time.Since(start).Seconds())
	metrics.MarkersRendered.Set(float64(len(page.Grid)))
	metrics.WindSpeedKnots.Set(snap.Visual.Knots)
	metrics.SnapshotsWritten.Inc()
	return page, nil
}

func serve(addr string, maps httpadapter.MapSource) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := httpadapter.NewServer(addr, maps, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// mapSource holds the most recently rendered page.
type mapSource struct {
	page atomic.Pointer[render.Page]
}

func (m *mapSource) Set(p render.Page) { m.page.Store(&p) }

func (m *mapSource) CheckReadiness(_ context.Context) error {
	if m.page.Load() == nil {
		return errors.New("no map rendered")
	}
	return nil
}

func (m *mapSource) WriteMap(w io.Writer) error {
	p := m.page.Load()
	if p == nil {
		return errors.New("no map rendered")
	}
	return render.Render(w, *p)
}

// preview builds the snapshot, freezing the clock when -at is given.
func preview(opts options) (domain.WindSnapshot, error) {
	if opts.at != "" {
		at, err := time.Parse(time.RFC3339, opts.at)
		if err != nil {
			return domain.WindSnapshot{}, fmt.Errorf("invalid -at: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(at))
		defer domain.SetClock(nil)
	}

	loc := domain.Location{
		Name:    opts.place,
		Lat:     opts.lat,
		Lon:     opts.lon,
		Address: opts.address,
		Source:  "preview",
	}
	snap := domain.NewWindSnapshot(loc, domain.NewWeatherSample(opts.speed, opts.direction))
	snap.Markers = domain.GridSize * domain.GridSize
	snap.OutputPath = opts.out
	return snap, nil
}
