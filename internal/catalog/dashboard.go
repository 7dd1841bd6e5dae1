package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gidroatlas/water-objects-etl/internal/domain"
)

// PageSize is the number of dashboard rows per page.
const PageSize = 10

// SortField names a dashboard column.
type SortField string

const (
	SortName          SortField = "name"
	SortRegion        SortField = "region"
	SortResourceType  SortField = "resource_type"
	SortCondition     SortField = "condition"
	SortPassportAge   SortField = "passport_age"
	SortPriorityScore SortField = "priority_score"
	SortPriorityLevel SortField = "priority_level"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// DashboardQuery selects one dashboard page. Zero values mean the
// defaults: no search, priority_score descending, first page.
type DashboardQuery struct {
	Search string    `json:"search,omitempty"`
	Sort   SortField `json:"sort,omitempty" validate:"omitempty,oneof=name region resource_type condition passport_age priority_score priority_level"`
	Order  SortOrder `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
	Page   int       `json:"page,omitempty" validate:"gte=0"`
}

// DashboardRow is one object with its priority at the evaluation time.
type DashboardRow struct {
	Object   domain.WaterObject    `json:"object"`
	Priority domain.PriorityResult `json:"priority"`
}

// DashboardPage is a sorted, paginated slice of the catalogue.
type DashboardPage struct {
	Rows       []DashboardRow `json:"rows"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Sort       SortField      `json:"sort"`
	Order      SortOrder      `json:"order"`
}

// Dashboard ranks objects by survey priority for an expert session.
// Objects whose passport date cannot be read are scored with age zero.
func (s *State) Dashboard(objects []domain.WaterObject, q DashboardQuery, now time.Time) (DashboardPage, error) {
	if !s.IsExpert() {
		return DashboardPage{}, ErrForbidden
	}
	if err := validate.Struct(q); err != nil {
		return DashboardPage{}, fmt.Errorf("dashboard query: %w", err)
	}
	if q.Sort == "" {
		q.Sort = SortPriorityScore
	}
	if q.Order == "" {
		q.Order = OrderDesc
	}

	rows := make([]DashboardRow, 0, len(objects))
	for _, obj := range objects {
		if !matchesSearch(obj, q.Search) {
			continue
		}
		passport, err := domain.ParsePassportDate(obj.PassportDate)
		if err != nil {
			passport = now
		}
		rows = append(rows, DashboardRow{
			Object:   obj,
			Priority: domain.ComputePriority(obj.ConditionCategory, passport, now),
		})
	}

	compare := rowComparator(q.Sort)
	slices.SortStableFunc(rows, func(a, b DashboardRow) int {
		if q.Order == OrderDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})

	total := len(rows)
	totalPages := max(1, (total+PageSize-1)/PageSize)
	page := min(max(q.Page, 1), totalPages)

	start := min((page-1)*PageSize, total)
	end := min(start+PageSize, total)

	return DashboardPage{
		Rows:       rows[start:end],
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		Sort:       q.Sort,
		Order:      q.Order,
	}, nil
}

func rowComparator(field SortField) func(a, b DashboardRow) int {
	switch field {
	case SortName:
		return func(a, b DashboardRow) int { return compareFold(a.Object.Name, b.Object.Name) }
	case SortRegion:
		return func(a, b DashboardRow) int { return compareFold(a.Object.Region, b.Object.Region) }
	case SortResourceType:
		return func(a, b DashboardRow) int { return cmp.Compare(a.Object.ResourceType, b.Object.ResourceType) }
	case SortCondition:
		return func(a, b DashboardRow) int { return cmp.Compare(a.Object.ConditionCategory, b.Object.ConditionCategory) }
	case SortPassportAge:
		return func(a, b DashboardRow) int { return cmp.Compare(a.Priority.PassportAgeYears, b.Priority.PassportAgeYears) }
	case SortPriorityLevel:
		return func(a, b DashboardRow) int { return cmp.Compare(a.Priority.Level.Rank(), b.Priority.Level.Rank()) }
	default:
		return func(a, b DashboardRow) int { return cmp.Compare(a.Priority.Score, b.Priority.Score) }
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
