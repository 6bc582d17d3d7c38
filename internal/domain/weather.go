package domain

import (
	"errors"
	"strconv"
	"strings"
)

// SpeedUnavailable is shown when the API omits wind speed.
const SpeedUnavailable = "N/A"

// WeatherSample is the wind reading returned by the weather API.
type WeatherSample struct {
	SpeedRaw     string  `json:"speed_raw"`     // as reported, "N/A" when absent
	SpeedMPS     float64 `json:"speed_mps"`     // 0 when SpeedRaw does not parse
	DirectionDeg float64 `json:"direction_deg"` // meteorological, 0 when absent
}

// NewWeatherSample builds a sample from the raw speed text and direction.
func NewWeatherSample(speedRaw string, directionDeg float64) WeatherSample {
	return WeatherSample{
		SpeedRaw:     speedRaw,
		SpeedMPS:     ParseSpeed(speedRaw),
		DirectionDeg: directionDeg,
	}
}

// ParseSpeed coerces a reported wind speed to float64. Unparseable values such
// as "N/A" yield 0 without an error; a missing reading draws as calm.
// Out-of-range values keep their ±Inf result.
func ParseSpeed(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return v
}

// DirectionText formats the raw direction the way the API reported it.
func (s WeatherSample) DirectionText() string {
	return strconv.FormatFloat(s.DirectionDeg, 'f', -1, 64)
}
