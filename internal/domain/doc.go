// Package domain models a single wind snapshot: where it was taken, what the
// weather API reported, and how the reading is drawn on the map.
//
// # Data Source
//
// Wind readings come from the Tomorrow.io realtime endpoint. The payload
// carries wind speed in meters per second under data.values.windSpeed and the
// meteorological direction (the bearing the wind blows from) in degrees under
// data.values.windDirection. Either field may be missing; speed may also arrive
// as a string. See [ParseSpeed] for the lenient coercion.
//
// # Visual Conventions
//
// Speed is bucketed in knots (1 m/s = 1.94384 kt) into seven color tiers with
// inclusive upper bounds:
//
//	tier 1: <= 5 kt   #3498db  blue
//	tier 2: <= 10 kt  #2ecc71  green
//	tier 3: <= 15 kt  #f1c40f  yellow
//	tier 4: <= 20 kt  #e67e22  orange
//	tier 5: <= 25 kt  #e74c3c  red
//	tier 6: <= 30 kt  #c0392b  dark red
//	tier 7: > 30 kt   #8e44ad  purple
//
// Arrows are drawn with an "↑" glyph rotated by (direction + 180) mod 360, so
// the glyph points downwind. The compass label uses the raw direction and
// one of 16 points spaced 22.5° apart, index round(direction/22.5) mod 16 with
// ties rounded to even.
//
// # Marker Grid
//
// The map carries a 40x40 lattice of identical arrows spaced 0.0025° apart.
// Every cell shows the same reading: the API returns one point sample, not a
// field, so the grid is decoration over a single vector rather than a
// spatially varying wind model. See [BuildGrid].
package domain
