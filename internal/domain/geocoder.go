package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0 to 1.0 provider confidence score
}

// Found reports whether the provider matched the query.
func (r GeocodingResult) Found() bool {
	return r.Lat != 0 || r.Lon != 0 || r.FormattedAddress != ""
}

// Geocoder turns free text into coordinates.
type Geocoder interface {
	// ForwardGeocode looks up a free-text place name. A zero GeocodingResult
	// with a nil error means the provider had no match.
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)
}
