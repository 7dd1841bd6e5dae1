package domain

import (
	"fmt"
	"math"
	"time"
)

// ConditionCategory grades the physical/technical state of an object,
// 1 (excellent) through 5 (critical).
type ConditionCategory int

// PriorityLevel buckets a priority score for the dashboard.
type PriorityLevel string

const (
	PriorityHigh   PriorityLevel = "high"
	PriorityMedium PriorityLevel = "medium"
	PriorityLow    PriorityLevel = "low"
)

// Rank orders levels for sorting: high > medium > low.
func (l PriorityLevel) Rank() int {
	switch l {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

const (
	// passportYear is the length of a year used for passport age.
	passportYear = time.Duration(365.25*24) * time.Hour

	categoryWeight    = 3
	highPriorityScore = 15
	mediumPriorityMin = 9
)

// PriorityResult is the derived survey urgency of one object.
type PriorityResult struct {
	Score            int           `json:"score"`
	Level            PriorityLevel `json:"level"`
	PassportAgeYears int           `json:"passport_age_years"`
}

// PassportAge returns the whole number of 365.25-day years between
// passportDate and now, truncated toward zero. A passport dated after now
// yields a negative age.
func PassportAge(passportDate, now time.Time) int {
	return int(math.Trunc(float64(now.Sub(passportDate)) / float64(passportYear)))
}

// ComputePriority scores an object as category × 3 + passport age:
//   - score ≥ 15: high
//   - 9 ≤ score < 15: medium
//   - score < 9: low
//
// Categories outside 1–5 are scored as given.
func ComputePriority(category ConditionCategory, passportDate, now time.Time) PriorityResult {
	age := PassportAge(passportDate, now)
	score := int(category)*categoryWeight + age
	return PriorityResult{
		Score:            score,
		Level:            levelForScore(score),
		PassportAgeYears: age,
	}
}

func levelForScore(score int) PriorityLevel {
	switch {
	case score >= highPriorityScore:
		return PriorityHigh
	case score >= mediumPriorityMin:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Priority evaluates an object's priority at the package clock's now.
func Priority(obj WaterObject) (PriorityResult, error) {
	passport, err := ParsePassportDate(obj.PassportDate)
	if err != nil {
		return PriorityResult{}, fmt.Errorf("priority for %s: %w", obj.ID, err)
	}
	return ComputePriority(obj.ConditionCategory, passport, clock.Now()), nil
}
