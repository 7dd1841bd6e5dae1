package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gidroatlas/water-objects-etl/internal/domain"
)

var dashboardNow = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

func expertState(t *testing.T) *State {
	t.Helper()
	s := newTestState()
	require.NoError(t, s.Login("expert", "expert123"))
	return s
}

func rowIDs(rows []DashboardRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Object.ID
	}
	return out
}

func TestDashboard_Forbidden(t *testing.T) {
	s := newTestState()
	_, err := s.Dashboard(testObjects(), DashboardQuery{}, dashboardNow)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, s.Login("guest", "guest"))
	_, err = s.Dashboard(testObjects(), DashboardQuery{}, dashboardNow)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDashboard_DefaultOrder(t *testing.T) {
	page, err := expertState(t).Dashboard(testObjects(), DashboardQuery{}, dashboardNow)
	require.NoError(t, err)

	assert.Equal(t, SortPriorityScore, page.Sort)
	assert.Equal(t, OrderDesc, page.Order)
	assert.Equal(t, []string{"hts-c", "hts-b", "lake-a", "hts-d"}, rowIDs(page.Rows))
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)

	assert.Equal(t, domain.PriorityResult{Score: 32, Level: domain.PriorityHigh, PassportAgeYears: 17}, page.Rows[0].Priority)
	assert.Equal(t, domain.PriorityResult{Score: 4, Level: domain.PriorityLow, PassportAgeYears: 1}, page.Rows[3].Priority)
}

func TestDashboard_Sorting(t *testing.T) {
	tests := []struct {
		field SortField
		order SortOrder
		want  []string
	}{
		{SortName, OrderAsc, []string{"lake-a", "hts-b", "hts-c", "hts-d"}},
		{SortName, OrderDesc, []string{"hts-d", "hts-c", "hts-b", "lake-a"}},
		{SortRegion, OrderAsc, []string{"lake-a", "hts-c", "hts-b", "hts-d"}},
		{SortResourceType, OrderAsc, []string{"hts-b", "lake-a", "hts-d", "hts-c"}},
		{SortCondition, OrderAsc, []string{"hts-d", "lake-a", "hts-b", "hts-c"}},
		{SortPassportAge, OrderDesc, []string{"hts-c", "hts-b", "lake-a", "hts-d"}},
		{SortPriorityScore, OrderAsc, []string{"hts-d", "lake-a", "hts-b", "hts-c"}},
		// Ties keep input order.
		{SortPriorityLevel, OrderAsc, []string{"hts-d", "lake-a", "hts-b", "hts-c"}},
		{SortPriorityLevel, OrderDesc, []string{"hts-b", "hts-c", "lake-a", "hts-d"}},
	}

	s := expertState(t)
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.field, tt.order), func(t *testing.T) {
			page, err := s.Dashboard(testObjects(), DashboardQuery{Sort: tt.field, Order: tt.order}, dashboardNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rowIDs(page.Rows))
		})
	}
}

func TestDashboard_Search(t *testing.T) {
	page, err := expertState(t).Dashboard(testObjects(), DashboardQuery{Search: "АЛМАТИН"}, dashboardNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"hts-c", "lake-a"}, rowIDs(page.Rows))
	assert.Equal(t, 2, page.Total)
}

func TestDashboard_Pagination(t *testing.T) {
	objects := make([]domain.WaterObject, 23)
	for i := range objects {
		objects[i] = domain.WaterObject{
			ID:                fmt.Sprintf("lake-%02d", i),
			Name:              fmt.Sprintf("Озеро %02d", i),
			ConditionCategory: 3,
			PassportDate:      "2020-01-01",
		}
	}
	s := expertState(t)

	tests := []struct {
		name     string
		page     int
		wantPage int
		wantRows int
		first    string
	}{
		{"zero means first", 0, 1, 10, "lake-00"},
		{"second", 2, 2, 10, "lake-10"},
		{"last partial", 3, 3, 3, "lake-20"},
		{"clamped high", 99, 3, 3, "lake-20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.Dashboard(objects, DashboardQuery{Page: tt.page}, dashboardNow)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, 3, page.TotalPages)
			assert.Equal(t, 23, page.Total)
			require.Len(t, page.Rows, tt.wantRows)
			assert.Equal(t, tt.first, page.Rows[0].Object.ID)
		})
	}
}

func TestDashboard_Empty(t *testing.T) {
	page, err := expertState(t).Dashboard(nil, DashboardQuery{Page: 4}, dashboardNow)
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, page.Total)
}

func TestDashboard_InvalidQuery(t *testing.T) {
	s := expertState(t)

	_, err := s.Dashboard(testObjects(), DashboardQuery{Sort: "depth"}, dashboardNow)
	assert.Error(t, err)

	_, err = s.Dashboard(testObjects(), DashboardQuery{Order: "sideways"}, dashboardNow)
	assert.Error(t, err)

	_, err = s.Dashboard(testObjects(), DashboardQuery{Page: -1}, dashboardNow)
	assert.Error(t, err)
}

func TestDashboard_UnreadablePassportDate(t *testing.T) {
	objects := []domain.WaterObject{{ID: "lake-x", ConditionCategory: 3, PassportDate: "unknown"}}

	page, err := expertState(t).Dashboard(objects, DashboardQuery{}, dashboardNow)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, domain.PriorityResult{Score: 9, Level: domain.PriorityMedium, PassportAgeYears: 0}, page.Rows[0].Priority)
}
