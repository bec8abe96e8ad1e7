package models

import "time"

// MealAttendance is the per-student-per-date record of the three daily meals.
// Each meal column is tri-state: nil (no answer yet), true (Sim), false (Não).
// Rows are created on the first answer for a date and never deleted.
type MealAttendance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_student_date" json:"student_id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_student_date" json:"date"` // yyyy-mm-dd
	Breakfast *bool     `json:"breakfast"`
	Lunch     *bool     `json:"lunch"`
	Snack     *bool     `json:"snack"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slot returns the tri-state value for a meal column.
func (ma *MealAttendance) Slot(mealType string) *bool {
	switch mealType {
	case MealBreakfast:
		return ma.Breakfast
	case MealLunch:
		return ma.Lunch
	case MealSnack:
		return ma.Snack
	}
	return nil
}

// Meal type identifiers shared across tables.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealSnack     = "snack"
)
