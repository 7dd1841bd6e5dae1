package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalTime = time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)

func yearsAgo(n float64) time.Time {
	return evalTime.Add(-time.Duration(n * float64(passportYear)))
}

func TestComputePriority(t *testing.T) {
	tests := []struct {
		name     string
		category ConditionCategory
		passport time.Time
		score    int
		level    PriorityLevel
		age      int
	}{
		{"fresh passport best condition", 1, evalTime, 3, PriorityLow, 0},
		{"ten year old critical", 5, yearsAgo(10), 25, PriorityHigh, 10},
		{"medium lower bound", 3, evalTime, 9, PriorityMedium, 0},
		{"just below medium", 2, yearsAgo(2), 8, PriorityLow, 2},
		{"medium upper range", 2, yearsAgo(8), 14, PriorityMedium, 8},
		{"high lower bound", 4, yearsAgo(3), 15, PriorityHigh, 3},
		{"partial year truncated", 3, yearsAgo(2.9), 11, PriorityMedium, 2},
		{"future passport negative age", 3, yearsAgo(-2), 7, PriorityLow, -2},
		{"future partial year truncated toward zero", 3, yearsAgo(-1.5), 8, PriorityLow, -1},
		{"category out of range scored as given", 7, evalTime, 21, PriorityHigh, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputePriority(tt.category, tt.passport, evalTime)
			assert.Equal(t, PriorityResult{Score: tt.score, Level: tt.level, PassportAgeYears: tt.age}, result)
		})
	}
}

func TestComputePriority_Deterministic(t *testing.T) {
	a := ComputePriority(4, yearsAgo(6), evalTime)
	b := ComputePriority(4, yearsAgo(6), evalTime)
	assert.Equal(t, a, b)
}

func TestComputePriority_MonotonicInCategory(t *testing.T) {
	for age := 0.0; age <= 12; age++ {
		prev := ComputePriority(1, yearsAgo(age), evalTime)
		for c := ConditionCategory(2); c <= 5; c++ {
			cur := ComputePriority(c, yearsAgo(age), evalTime)
			assert.GreaterOrEqual(t, cur.Score, prev.Score)
			assert.GreaterOrEqual(t, cur.Level.Rank(), prev.Level.Rank())
			prev = cur
		}
	}
}

func TestComputePriority_MonotonicInAge(t *testing.T) {
	for c := ConditionCategory(1); c <= 5; c++ {
		prev := ComputePriority(c, evalTime, evalTime)
		for age := 1.0; age <= 15; age++ {
			cur := ComputePriority(c, yearsAgo(age), evalTime)
			assert.GreaterOrEqual(t, cur.Score, prev.Score)
			assert.GreaterOrEqual(t, cur.Level.Rank(), prev.Level.Rank())
			prev = cur
		}
	}
}

func TestPassportAge(t *testing.T) {
	assert.Equal(t, 0, PassportAge(evalTime, evalTime))
	assert.Equal(t, 0, PassportAge(evalTime.Add(-passportYear+time.Hour), evalTime))
	assert.Equal(t, 1, PassportAge(evalTime.Add(-passportYear), evalTime))
	assert.Equal(t, -1, PassportAge(evalTime.Add(passportYear), evalTime))
	assert.Equal(t, 0, PassportAge(evalTime.Add(passportYear-time.Hour), evalTime))
}

func TestPriorityLevel_Rank(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Equal(t, 0, PriorityLevel("bogus").Rank())
}

func TestPriority_UsesPackageClock(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { SetClock(nil) })

	result, err := Priority(WaterObject{ID: "lake-1", ConditionCategory: 4, PassportDate: "2020-02-01"})
	require.NoError(t, err)
	assert.Equal(t, 6, result.PassportAgeYears)
	assert.Equal(t, 18, result.Score)
	assert.Equal(t, PriorityHigh, result.Level)

	_, err = Priority(WaterObject{ID: "lake-2", ConditionCategory: 4, PassportDate: "someday"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPassportDate)
}
