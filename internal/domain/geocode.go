package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding looks up a place name for the object's parsed
// coordinates. If geocoder is nil the object is returned unchanged; lookup
// failures are recorded in GeoSource and never drop the object.
func EnrichWithGeocoding(ctx context.Context, obj WaterObject, geocoder ReverseGeocoder, logger *slog.Logger) WaterObject {
	if geocoder == nil {
		return obj
	}

	result, err := geocoder.ReverseGeocode(ctx, obj.Geo.Lat, obj.Geo.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"object_id", obj.ID,
			"lat", obj.Geo.Lat,
			"lon", obj.Geo.Lon,
			"error", err,
		)
		obj.GeoSource = "failed"
		return obj
	}
	if result.FormattedAddress == "" {
		obj.GeoSource = "original"
		return obj
	}

	obj.FormattedAddress = result.FormattedAddress
	obj.PlaceName = result.PlaceName
	obj.GeoConfidence = result.Confidence
	obj.GeoSource = "reverse"
	return obj
}
