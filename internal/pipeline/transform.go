package pipeline

import (
	"context"
	"log/slog"

	"github.com/gidroatlas/water-objects-etl/internal/domain"
)

// WaterTransformer implements Transformer with the domain normalization
// steps and optional reverse geocoding.
type WaterTransformer struct {
	geocoder domain.ReverseGeocoder
	logger   *slog.Logger
}

// NewTransformer creates a WaterTransformer. Pass a nil geocoder to disable
// reverse geocoding.
func NewTransformer(geocoder domain.ReverseGeocoder, logger *slog.Logger) *WaterTransformer {
	return &WaterTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

// Transform parses the record, resolves its coordinates, scores its
// priority, and serializes the result.
func (t *WaterTransformer) Transform(ctx context.Context, raw domain.RawRecord) (domain.OutputEvent, error) {
	obj, err := domain.ParseRawRecord(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	obj = domain.EnrichWaterObject(obj)
	obj = domain.EnrichWithGeocoding(ctx, obj, t.geocoder, t.logger)

	return domain.SerializeWaterObject(obj)
}
