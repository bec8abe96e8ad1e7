package models

import "time"

// MealConfirmation is the denormalized per-meal row the nutritionist views
// read. Student display fields are snapshotted at write time, so a profile
// change only shows up on the next confirmation.
type MealConfirmation struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Date             string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_date_meal_student;index:idx_date_meal" json:"date"`
	MealType         string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_date_meal_student;index:idx_date_meal" json:"meal_type"`
	StudentID        uint      `gorm:"not null;uniqueIndex:idx_date_meal_student" json:"student_id"`
	Status           bool      `gorm:"not null" json:"status"` // true = confirmed, false = declined
	StudentName      string    `gorm:"type:varchar(255);not null" json:"student_name"`
	StudentMatricula string    `gorm:"type:varchar(50)" json:"student_matricula"`
	StudentImage     *string   `gorm:"type:varchar(500)" json:"student_image,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
