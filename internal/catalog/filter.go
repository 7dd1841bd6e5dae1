package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gidroatlas/water-objects-etl/internal/domain"
)

// FilterAll disables the water type or fauna criterion.
const FilterAll = "all"

// ErrInvalidFilter is returned when a filter fails validation.
var ErrInvalidFilter = errors.New("invalid filter")

var validate = validator.New()

// Filter narrows the catalogue. Zero-valued criteria match everything.
type Filter struct {
	Region              string                     `json:"region,omitempty"`
	ResourceTypes       []domain.ResourceType      `json:"resource_types,omitempty" validate:"dive,oneof=lake canal reservoir lock hydro-unit"`
	WaterType           string                     `json:"water_type" validate:"omitempty,oneof=all fresh non-fresh"`
	Fauna               string                     `json:"fauna" validate:"omitempty,oneof=all yes no unknown"`
	ConditionCategories []domain.ConditionCategory `json:"condition_categories,omitempty" validate:"dive,min=1,max=5"`
	DateFrom            string                     `json:"date_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateTo              string                     `json:"date_to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SearchQuery         string                     `json:"search_query,omitempty"`
}

// DefaultFilter matches every object: all five categories, any water type
// and any fauna.
func DefaultFilter() Filter {
	return Filter{
		WaterType:           FilterAll,
		Fauna:               FilterAll,
		ConditionCategories: []domain.ConditionCategory{1, 2, 3, 4, 5},
	}
}

// FilterPatch carries a partial filter update. Nil fields are left as-is.
type FilterPatch struct {
	Region              *string
	ResourceTypes       *[]domain.ResourceType
	WaterType           *string
	Fauna               *string
	ConditionCategories *[]domain.ConditionCategory
	DateFrom            *string
	DateTo              *string
	SearchQuery         *string
}

// merge returns f with the non-nil patch fields applied.
func (p FilterPatch) merge(f Filter) Filter {
	if p.Region != nil {
		f.Region = *p.Region
	}
	if p.ResourceTypes != nil {
		f.ResourceTypes = slices.Clone(*p.ResourceTypes)
	}
	if p.WaterType != nil {
		f.WaterType = *p.WaterType
	}
	if p.Fauna != nil {
		f.Fauna = *p.Fauna
	}
	if p.ConditionCategories != nil {
		f.ConditionCategories = slices.Clone(*p.ConditionCategories)
	}
	if p.DateFrom != nil {
		f.DateFrom = *p.DateFrom
	}
	if p.DateTo != nil {
		f.DateTo = *p.DateTo
	}
	if p.SearchQuery != nil {
		f.SearchQuery = *p.SearchQuery
	}
	return f
}

func (f Filter) clone() Filter {
	f.ResourceTypes = slices.Clone(f.ResourceTypes)
	f.ConditionCategories = slices.Clone(f.ConditionCategories)
	return f
}

// Validate checks the filter's enumerations and date bounds.
func (f Filter) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	// ISO dates order lexically.
	if f.DateFrom != "" && f.DateTo != "" && f.DateFrom > f.DateTo {
		return fmt.Errorf("%w: date_from %s is after date_to %s", ErrInvalidFilter, f.DateFrom, f.DateTo)
	}
	return nil
}

// Matches reports whether obj satisfies every criterion of f.
func (f Filter) Matches(obj domain.WaterObject) bool {
	if f.Region != "" && obj.Region != f.Region {
		return false
	}
	if len(f.ResourceTypes) > 0 && !slices.Contains(f.ResourceTypes, obj.ResourceType) {
		return false
	}
	if f.WaterType != "" && f.WaterType != FilterAll && string(obj.WaterType) != f.WaterType {
		return false
	}
	if f.Fauna != "" && f.Fauna != FilterAll && string(obj.Fauna) != f.Fauna {
		return false
	}
	if len(f.ConditionCategories) > 0 && !slices.Contains(f.ConditionCategories, obj.ConditionCategory) {
		return false
	}
	if f.DateFrom != "" && obj.PassportDate < f.DateFrom {
		return false
	}
	if f.DateTo != "" && obj.PassportDate > f.DateTo {
		return false
	}
	return matchesSearch(obj, f.SearchQuery)
}

// Apply returns the objects matching f, preserving input order.
func Apply(objects []domain.WaterObject, f Filter) []domain.WaterObject {
	out := make([]domain.WaterObject, 0, len(objects))
	for _, obj := range objects {
		if f.Matches(obj) {
			out = append(out, obj)
		}
	}
	return out
}

// matchesSearch is a case-insensitive substring match on name or region.
func matchesSearch(obj domain.WaterObject, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(obj.Name), query) ||
		strings.Contains(strings.ToLower(obj.Region), query)
}
