package domain

import "math"

// KnotsPerMPS converts meters per second to knots.
const KnotsPerMPS = 1.94384

// Arrow size bounds in points.
const (
	MinArrowSizePt = 16.0
	MaxArrowSizePt = 30.0
)

// ArrowOpacity is the opacity of every grid arrow.
const ArrowOpacity = 0.7

// Tier is one color bucket of the wind speed legend.
type Tier struct {
	Index    int     // 1-based
	MaxKnots float64 // inclusive upper bound; +Inf for the top tier
	Color    string
	Label    string
}

// Tiers lists the color buckets in ascending order.
var Tiers = []Tier{
	{Index: 1, MaxKnots: 5, Color: "#3498db", Label: "0-5"},
	{Index: 2, MaxKnots: 10, Color: "#2ecc71", Label: "6-10"},
	{Index: 3, MaxKnots: 15, Color: "#f1c40f", Label: "11-15"},
	{Index: 4, MaxKnots: 20, Color: "#e67e22", Label: "16-20"},
	{Index: 5, MaxKnots: 25, Color: "#e74c3c", Label: "21-25"},
	{Index: 6, MaxKnots: 30, Color: "#c0392b", Label: "26-30"},
	{Index: 7, MaxKnots: math.Inf(1), Color: "#8e44ad", Label: "31+"},
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// VisualParams holds everything the renderer needs to draw one reading.
type VisualParams struct {
	Knots       float64 `json:"knots"`
	Tier        int     `json:"tier"`
	Color       string  `json:"color"`
	RotationDeg float64 `json:"rotation_deg"`
	Compass     string  `json:"compass"`
	ArrowSizePt float64 `json:"arrow_size_pt"`
}

// DeriveVisualParams maps a weather sample to its drawing parameters.
func DeriveVisualParams(s WeatherSample) VisualParams {
	knots := KnotsFromMPS(s.SpeedMPS)
	tier := TierForKnots(knots)
	return VisualParams{
		Knots:       knots,
		Tier:        tier.Index,
		Color:       tier.Color,
		RotationDeg: CorrectedRotation(s.DirectionDeg),
		Compass:     CompassLabel(s.DirectionDeg),
		ArrowSizePt: ArrowSize(s.SpeedMPS),
	}
}

// KnotsFromMPS converts a speed in m/s to knots.
func KnotsFromMPS(mps float64) float64 {
	return mps * KnotsPerMPS
}

// TierForKnots returns the first tier whose upper bound is >= knots.
// NaN falls through to the top tier.
func TierForKnots(knots float64) Tier {
	for _, t := range Tiers {
		if knots <= t.MaxKnots {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}

// CorrectedRotation reverses a meteorological direction so the arrow points
// downwind. The result is always in [0, 360).
func CorrectedRotation(directionDeg float64) float64 {
	return floorMod(directionDeg+180, 360)
}

// CompassLabel returns the nearest of the 16 compass points for a direction.
// Ties round to even, so 11.25° is "N" and 33.75° is "NE".
func CompassLabel(directionDeg float64) string {
	idx := int(math.RoundToEven(directionDeg/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}

// ArrowSize returns the glyph size in points, clamped to [16, 30].
func ArrowSize(speedMPS float64) float64 {
	size := 20 * (speedMPS / 10)
	if math.IsNaN(size) {
		return MinArrowSizePt
	}
	return math.Min(MaxArrowSizePt, math.Max(MinArrowSizePt, size))
}

func floorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}
