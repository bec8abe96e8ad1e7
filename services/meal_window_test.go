package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vamosmerendar/merendar-app/models"
)

func clockAt(hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 5, 20, hour, minute, 0, 0, time.Local)
	}
}

func TestWindowPolicyClosingBound(t *testing.T) {
	cases := []struct {
		name     string
		mealType string
		hour     int
		minute   int
		allowed  bool
	}{
		{"breakfast mid window", models.MealBreakfast, 6, 0, true},
		{"breakfast at closing", models.MealBreakfast, 7, 30, true},
		{"breakfast after closing", models.MealBreakfast, 7, 31, false},
		{"lunch just before closing", models.MealLunch, 9, 40, true},
		{"lunch after closing", models.MealLunch, 10, 0, false},
		{"snack mid window", models.MealSnack, 13, 0, true},
		{"snack after closing", models.MealSnack, 14, 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := NewWindowPolicy(nil, clockAt(tc.hour, tc.minute))
			allowed, err := policy.Allowed(tc.mealType)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

// The opening bound is intentionally not enforced: answers given before the
// window opens are accepted.
func TestWindowPolicyIgnoresOpeningBound(t *testing.T) {
	policy := NewWindowPolicy(nil, clockAt(4, 0))
	allowed, err := policy.Allowed(models.MealBreakfast)
	assert.NoError(t, err)
	assert.True(t, allowed)

	policy = NewWindowPolicy(nil, clockAt(1, 0))
	allowed, err = policy.Allowed(models.MealSnack)
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestWindowPolicyInvalidMealType(t *testing.T) {
	policy := NewWindowPolicy(nil, clockAt(6, 0))
	allowed, err := policy.Allowed("dinner")
	assert.ErrorIs(t, err, ErrInvalidMealType)
	assert.False(t, allowed)
}
