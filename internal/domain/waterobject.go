package domain

import (
	"context"
	"time"
)

// ResourceType is the kind of water resource object.
type ResourceType string

const (
	ResourceLake      ResourceType = "lake"
	ResourceCanal     ResourceType = "canal"
	ResourceReservoir ResourceType = "reservoir"
	ResourceLock      ResourceType = "lock"
	ResourceHydroUnit ResourceType = "hydro-unit"
)

// WaterType distinguishes fresh from saline water.
type WaterType string

const (
	WaterFresh    WaterType = "fresh"
	WaterNonFresh WaterType = "non-fresh"
)

// FaunaPresence records whether fauna was observed.
type FaunaPresence string

const (
	FaunaYes     FaunaPresence = "yes"
	FaunaNo      FaunaPresence = "no"
	FaunaUnknown FaunaPresence = "unknown"
)

// RecordKind names the source array a record came from.
type RecordKind string

const (
	KindHydroStructure RecordKind = "hydro_structure"
	KindLake           RecordKind = "lake"
)

// Geo is a WGS-84 latitude/longitude pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RawRecord is an unprocessed message from the source topic.
type RawRecord struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// WaterObject is the normalized catalogue entry.
type WaterObject struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Region            string            `json:"region"`
	ResourceType      ResourceType      `json:"resource_type"`
	WaterType         WaterType         `json:"water_type"`
	Fauna             FaunaPresence     `json:"fauna"`
	ConditionCategory ConditionCategory `json:"condition_category"`
	PassportDate      string            `json:"passport_date"` // YYYY-MM-DD
	Geo               Geo               `json:"geo"`
	PassportURL       string            `json:"passport_url,omitempty"`
	Description       string            `json:"description,omitempty"`
	AreaKM2           *float64          `json:"area_km2,omitempty"`
	DepthM            *float64          `json:"depth_m,omitempty"`
	PassportDetails   *PassportDetails  `json:"passport_details,omitempty"`

	Priority *PriorityResult `json:"priority,omitempty"`

	// Reverse geocoding enrichment fields.
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "reverse", "original", "failed"

	ProcessedAt time.Time `json:"processed_at"`
}

// Coordinate returns the object's position as a DecimalCoordinate.
func (o WaterObject) Coordinate() DecimalCoordinate {
	return DecimalCoordinate{Latitude: o.Geo.Lat, Longitude: o.Geo.Lon}
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
