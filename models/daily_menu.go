package models

import "time"

// DailyMenu is the menu published by the nutritionist for one calendar date.
type DailyMenu struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex" json:"date"`
	Breakfast *string   `gorm:"type:text" json:"breakfast"`
	Lunch     *string   `gorm:"type:text" json:"lunch"`
	Snack     *string   `gorm:"type:text" json:"snack"`
	CreatedBy uint      `gorm:"not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
