package domain

import "time"

// WindSnapshot records the outcome of one run.
type WindSnapshot struct {
	Location   Location      `json:"location"`
	Sample     WeatherSample `json:"sample"`
	Visual     VisualParams  `json:"visual"`
	Markers    int           `json:"markers"`
	RenderedAt time.Time     `json:"rendered_at"`
	OutputPath string        `json:"output_path"`
}

// NewWindSnapshot derives the visual parameters for sample and stamps the
// snapshot with the package clock.
func NewWindSnapshot(loc Location, sample WeatherSample) WindSnapshot {
	return WindSnapshot{
		Location:   loc,
		Sample:     sample,
		Visual:     DeriveVisualParams(sample),
		RenderedAt: clock.Now(),
	}
}
