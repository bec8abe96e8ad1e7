package services

import (
	"time"

	"github.com/vamosmerendar/merendar-app/models"
)

// MealWindow is the [Start, End) answering window for one meal, expressed in
// fractional hours of the local day (7.5 = 07:30).
type MealWindow struct {
	Start float64
	End   float64
}

// DefaultMealWindows mirrors the school schedule: answers about breakfast
// close at 07:30, lunch at 09:40 and the afternoon snack at 14:00.
var DefaultMealWindows = map[string]MealWindow{
	models.MealBreakfast: {Start: 5.0, End: 7.5},
	models.MealLunch:     {Start: 7.5, End: 9.67},
	models.MealSnack:     {Start: 12.33, End: 14.0},
}

// WindowPolicy decides whether an attendance answer for a meal is currently
// permitted. It is a pure gate; it performs no writes.
type WindowPolicy struct {
	windows map[string]MealWindow
	now     func() time.Time
}

// NewWindowPolicy builds a policy. Nil arguments select the default schedule
// and the wall clock.
func NewWindowPolicy(windows map[string]MealWindow, now func() time.Time) *WindowPolicy {
	if windows == nil {
		windows = DefaultMealWindows
	}
	if now == nil {
		now = time.Now
	}
	return &WindowPolicy{windows: windows, now: now}
}

// Allowed reports whether an answer for mealType is permitted right now.
// Only the closing bound is enforced: answers given before the window opens
// are accepted. Unknown meal types fail with ErrInvalidMealType.
func (p *WindowPolicy) Allowed(mealType string) (bool, error) {
	window, ok := p.windows[mealType]
	if !ok {
		return false, ErrInvalidMealType
	}

	t := p.now()
	current := float64(t.Hour()) + float64(t.Minute())/60.0
	return current <= window.End, nil
}
