package domain

import (
	"context"
	"log/slog"
)

// Default location used when no place is given or the lookup fails.
const (
	DefaultLat       = 32.66
	DefaultLon       = -79.96
	DefaultPlaceName = "Folly Beach, SC"
)

// Location is the resolved point a snapshot is centered on. Name is the place
// as the user typed it; Address is the provider's formatted address.
type Location struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address"`
	Source  string  `json:"source"` // "geocoded", "default", "fallback"
}

// DefaultLocation returns Folly Beach, SC.
func DefaultLocation() Location {
	return Location{
		Name:    DefaultPlaceName,
		Lat:     DefaultLat,
		Lon:     DefaultLon,
		Address: DefaultPlaceName,
		Source:  "default",
	}
}

// ResolveLocation geocodes placeName. It never fails: an empty name yields the
// default location, and a lookup error or miss falls back to the default
// coordinates while keeping the user's place name for display.
func ResolveLocation(ctx context.Context, placeName string, geocoder Geocoder, logger *slog.Logger) Location {
	if placeName == "" {
		logger.Info("no location specified, using default location", "place", DefaultPlaceName)
		return DefaultLocation()
	}

	fallback := Location{
		Name:    placeName,
		Lat:     DefaultLat,
		Lon:     DefaultLon,
		Address: DefaultPlaceName,
		Source:  "fallback",
	}

	if geocoder == nil {
		logger.Warn("no geocoder configured, using default location", "place", placeName)
		return fallback
	}

	logger.Info("looking up coordinates", "place", placeName)
	result, err := geocoder.ForwardGeocode(ctx, placeName)
	if err != nil {
		logger.Warn("error looking up coordinates, using default location",
			"place", placeName,
			"lat", DefaultLat,
			"lon", DefaultLon,
			"error", err,
		)
		return fallback
	}
	if !result.Found() {
		logger.Warn("could not find coordinates, using default location",
			"place", placeName,
			"lat", DefaultLat,
			"lon", DefaultLon,
		)
		return fallback
	}

	logger.Info("found location",
		"address", result.FormattedAddress,
		"lat", result.Lat,
		"lon", result.Lon,
	)
	return Location{
		Name:    placeName,
		Lat:     result.Lat,
		Lon:     result.Lon,
		Address: result.FormattedAddress,
		Source:  "geocoded",
	}
}
