// Package render writes a wind snapshot as a self-contained Leaflet map.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/wind-map/internal/domain"
)

// Map view settings.
const (
	Zoom    = 14
	MinZoom = 10

	// Glyph drawn at every grid point.
	ArrowGlyph = "↑"

	// TimestampLayout renders e.g. "14:05 June 01, 2025".
	TimestampLayout = "15:04 January 02, 2006"

	Attribution = "Data provided by Tomorrow.io API • Visualization created by Mike Kozub"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

// Page is everything needed to draw one map.
type Page struct {
	Location   domain.Location
	Sample     domain.WeatherSample
	Visual     domain.VisualParams
	Grid       []domain.GridPoint
	RenderedAt time.Time
}

// NewPage builds a page from a snapshot, laying out the marker grid.
func NewPage(snap domain.WindSnapshot) Page {
	return Page{
		Location:   snap.Location,
		Sample:     snap.Sample,
		Visual:     snap.Visual,
		Grid:       domain.BuildGrid(snap.Location),
		RenderedAt: snap.RenderedAt,
	}
}

// arrow is the per-marker icon, identical at every grid point.
type arrow struct {
	Glyph       string  `json:"glyph"`
	SizePt      float64 `json:"size_pt"`
	RotationDeg float64 `json:"rotation_deg"`
	Opacity     float64 `json:"opacity"`
	Color       string  `json:"color"`
	Tooltip     string  `json:"tooltip"`
}

type legendEntry struct {
	Label  string
	Swatch template.CSS
}

type view struct {
	Location        domain.Location
	Visual          domain.VisualParams
	KnotsText       string
	UpdatedText     string
	TitleArrowStyle template.CSS
	Legend          []legendEntry
	Attribution     string
	Zoom            int
	MinZoom         int
	Arrow           arrow
	Points          []domain.GridPoint
}

// Render writes the HTML document for page to w.
func Render(w io.Writer, page Page) error {
	if err := mapTemplate.Execute(w, newView(page)); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}

// WriteFile renders page and writes it to path, replacing any existing file.
func WriteFile(path string, page Page) error {
	var buf bytes.Buffer
	if err := Render(&buf, page); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	return nil
}

// Tooltip is the hover text shown on every marker.
func Tooltip(sample domain.WeatherSample, visual domain.VisualParams) string {
	return fmt.Sprintf("Wind: %s m/s (%.1f kts), Direction: %s°", sample.SpeedRaw, visual.Knots, sample.DirectionText())
}

func newView(page Page) view {
	legend := make([]legendEntry, 0, len(domain.Tiers))
	for _, t := range domain.Tiers {
		legend = append(legend, legendEntry{
			Label: t.Label,
			// Colors come from the fixed tier table, never from input.
			Swatch: template.CSS("background:" + t.Color + "; width: 12px; height: 12px; display: inline-block; margin-right: 4px;"),
		})
	}

	// Leaflet inserts tooltip strings as HTML.
	tooltip := html.EscapeString(Tooltip(page.Sample, page.Visual))

	return view{
		Location:        page.Location,
		Visual:          page.Visual,
		KnotsText:       strconv.FormatFloat(page.Visual.Knots, 'f', 1, 64),
		UpdatedText:     page.RenderedAt.Format(TimestampLayout),
		TitleArrowStyle: template.CSS(fmt.Sprintf("transform: rotate(%gdeg); transform-origin: 50%% 50%%;", page.Visual.RotationDeg)),
		Legend:          legend,
		Attribution:     Attribution,
		Zoom:            Zoom,
		MinZoom:         MinZoom,
		Arrow: arrow{
			Glyph:       ArrowGlyph,
			SizePt:      page.Visual.ArrowSizePt,
			RotationDeg: page.Visual.RotationDeg,
			Opacity:     domain.ArrowOpacity,
			Color:       page.Visual.Color,
			Tooltip:     tooltip,
		},
		Points: page.Grid,
	}
}
