package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gidroatlas/water-objects-etl/internal/domain"
)

func newTestState() *State {
	return NewState(append(DefaultAccounts(), Account{Username: "guest", Password: "guest", Role: RoleGuest}))
}

func TestState_Login(t *testing.T) {
	s := newTestState()

	_, ok := s.User()
	assert.False(t, ok)
	assert.False(t, s.IsExpert())

	require.NoError(t, s.Login("expert", "expert123"))
	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, User{Username: "expert", Role: RoleExpert}, u)
	assert.True(t, s.IsExpert())

	s.Logout()
	_, ok = s.User()
	assert.False(t, ok)
	assert.False(t, s.IsExpert())
}

func TestState_LoginRejected(t *testing.T) {
	s := newTestState()

	assert.ErrorIs(t, s.Login("expert", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, s.Login("nobody", "expert123"), ErrInvalidCredentials)
	_, ok := s.User()
	assert.False(t, ok)

	// A failed attempt does not end an existing session.
	require.NoError(t, s.Login("expert", "expert123"))
	require.Error(t, s.Login("guest", "nope"))
	assert.True(t, s.IsExpert())
}

func TestState_GuestIsNotExpert(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Login("guest", "guest"))
	assert.False(t, s.IsExpert())
}

func TestState_SetFilters(t *testing.T) {
	s := newTestState()
	assert.Equal(t, DefaultFilter(), s.Filters())

	region := regionAlmaty
	cats := []domain.ConditionCategory{4, 5}
	require.NoError(t, s.SetFilters(FilterPatch{Region: &region}))
	require.NoError(t, s.SetFilters(FilterPatch{ConditionCategories: &cats}))

	f := s.Filters()
	assert.Equal(t, regionAlmaty, f.Region)
	assert.Equal(t, cats, f.ConditionCategories)
	assert.Equal(t, FilterAll, f.WaterType, "unpatched fields are kept")

	// Mutating the caller's slice does not leak into the state.
	cats[0] = 1
	assert.Equal(t, []domain.ConditionCategory{4, 5}, s.Filters().ConditionCategories)

	s.ResetFilters()
	assert.Equal(t, DefaultFilter(), s.Filters())
}

func TestState_SetFiltersRejectsInvalid(t *testing.T) {
	s := newTestState()
	region := regionPavlodar
	require.NoError(t, s.SetFilters(FilterPatch{Region: &region}))

	bad := "salty"
	err := s.SetFilters(FilterPatch{WaterType: &bad, Region: new(string)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	f := s.Filters()
	assert.Equal(t, regionPavlodar, f.Region)
	assert.Equal(t, FilterAll, f.WaterType)
}

func TestState_FiltersReturnsCopy(t *testing.T) {
	s := newTestState()
	f := s.Filters()
	f.ConditionCategories[0] = 5
	assert.Equal(t, DefaultFilter(), s.Filters())
}

func TestState_SelectObject(t *testing.T) {
	s := newTestState()
	_, ok := s.Selected()
	assert.False(t, ok)

	s.SelectObject("lake-a")
	id, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, "lake-a", id)

	s.SelectObject("")
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestState_ConcurrentUse(t *testing.T) {
	s := newTestState()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = s.Login("expert", "expert123")
			} else {
				s.Logout()
			}
			q := "озеро"
			_ = s.SetFilters(FilterPatch{SearchQuery: &q})
			_ = s.Filters()
			s.SelectObject("lake-a")
			_, _ = s.Selected()
			_ = s.IsExpert()
		}()
	}
	wg.Wait()

	assert.Equal(t, "озеро", s.Filters().SearchQuery)
}
