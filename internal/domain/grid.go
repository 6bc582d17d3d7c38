package domain

// Marker grid dimensions.
const (
	GridSize    = 40
	GridSpacing = 0.0025 // degrees
)

// GridPoint is one marker position.
type GridPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BuildGrid lays out GridSize x GridSize points around loc, GridSpacing apart.
// The lattice starts GridSize/2 steps south-west of loc, so loc itself is the
// point at column GridSize/2, row GridSize/2. Points are ordered by column
// (longitude) then row (latitude).
func BuildGrid(loc Location) []GridPoint {
	half := float64(GridSize / 2)
	lonMin := loc.Lon - half*GridSpacing
	latMin := loc.Lat - half*GridSpacing

	points := make([]GridPoint, 0, GridSize*GridSize)
	for i := 0; i < GridSize; i++ {
		for j := 0; j < GridSize; j++ {
			points = append(points, GridPoint{
				Lat: latMin + float64(j)*GridSpacing,
				Lon: lonMin + float64(i)*GridSpacing,
			})
		}
	}
	return points
}
