package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gidroatlas/water-objects-etl/internal/domain"
)

const (
	regionAlmaty   = "Алматинская область"
	regionPavlodar = "Павлодарская область"
)

func testObjects() []domain.WaterObject {
	return []domain.WaterObject{
		{ID: "lake-a", Name: "Иссык", Region: regionAlmaty, ResourceType: domain.ResourceLake, WaterType: domain.WaterFresh, Fauna: domain.FaunaYes, ConditionCategory: 2, PassportDate: "2019-05-14"},
		{ID: "hts-b", Name: "Канал им. Сатпаева", Region: regionPavlodar, ResourceType: domain.ResourceCanal, WaterType: domain.WaterFresh, Fauna: domain.FaunaNo, ConditionCategory: 4, PassportDate: "2012-03-01"},
		{ID: "hts-c", Name: "Капшагайское водохранилище", Region: regionAlmaty, ResourceType: domain.ResourceReservoir, WaterType: domain.WaterNonFresh, Fauna: domain.FaunaYes, ConditionCategory: 5, PassportDate: "2008-09-30"},
		{ID: "hts-d", Name: "Шлюз №1", Region: regionPavlodar, ResourceType: domain.ResourceLock, WaterType: domain.WaterFresh, Fauna: domain.FaunaUnknown, ConditionCategory: 1, PassportDate: "2024-11-20"},
	}
}

func ids(objects []domain.WaterObject) []string {
	out := make([]string, len(objects))
	for i, o := range objects {
		out[i] = o.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter func(f *Filter)
		want   []string
	}{
		{"default matches everything", func(*Filter) {}, []string{"lake-a", "hts-b", "hts-c", "hts-d"}},
		{"zero filter matches everything", func(f *Filter) { *f = Filter{} }, []string{"lake-a", "hts-b", "hts-c", "hts-d"}},
		{"region equality", func(f *Filter) { f.Region = regionAlmaty }, []string{"lake-a", "hts-c"}},
		{"resource types", func(f *Filter) {
			f.ResourceTypes = []domain.ResourceType{domain.ResourceCanal, domain.ResourceLock}
		}, []string{"hts-b", "hts-d"}},
		{"water type", func(f *Filter) { f.WaterType = "non-fresh" }, []string{"hts-c"}},
		{"fauna", func(f *Filter) { f.Fauna = "yes" }, []string{"lake-a", "hts-c"}},
		{"categories", func(f *Filter) {
			f.ConditionCategories = []domain.ConditionCategory{4, 5}
		}, []string{"hts-b", "hts-c"}},
		{"empty categories match any", func(f *Filter) { f.ConditionCategories = nil }, []string{"lake-a", "hts-b", "hts-c", "hts-d"}},
		{"date range inclusive", func(f *Filter) {
			f.DateFrom = "2012-03-01"
			f.DateTo = "2019-05-14"
		}, []string{"lake-a", "hts-b"}},
		{"search name case-insensitive", func(f *Filter) { f.SearchQuery = "КАНАЛ" }, []string{"hts-b"}},
		{"search region", func(f *Filter) { f.SearchQuery = "павлодар" }, []string{"hts-b", "hts-d"}},
		{"combined", func(f *Filter) {
			f.Region = regionAlmaty
			f.Fauna = "yes"
			f.ConditionCategories = []domain.ConditionCategory{1, 2}
		}, []string{"lake-a"}},
		{"no match", func(f *Filter) { f.Region = "Мангистауская область" }, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilter()
			tt.filter(&f)
			assert.Equal(t, tt.want, ids(Apply(testObjects(), f)))
		})
	}
}

func TestFilter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filter  func(f *Filter)
		wantErr bool
	}{
		{"default", func(*Filter) {}, false},
		{"unknown water type", func(f *Filter) { f.WaterType = "salty" }, true},
		{"unknown fauna", func(f *Filter) { f.Fauna = "maybe" }, true},
		{"unknown resource type", func(f *Filter) { f.ResourceTypes = []domain.ResourceType{"river"} }, true},
		{"category out of range", func(f *Filter) { f.ConditionCategories = []domain.ConditionCategory{0} }, true},
		{"category above range", func(f *Filter) { f.ConditionCategories = []domain.ConditionCategory{6} }, true},
		{"malformed date", func(f *Filter) { f.DateFrom = "14.05.2019" }, true},
		{"inverted range", func(f *Filter) {
			f.DateFrom = "2020-01-01"
			f.DateTo = "2019-01-01"
		}, true},
		{"same day range", func(f *Filter) {
			f.DateFrom = "2020-01-01"
			f.DateTo = "2020-01-01"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilter()
			tt.filter(&f)
			err := f.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			assert.NoError(t, err)
		})
	}
}
