package models

import "time"

type Feedback struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StudentID    uint      `gorm:"not null;index" json:"student_id"`
	MealType     string    `gorm:"type:varchar(20);not null" json:"meal_type"`
	FeedbackType string    `gorm:"type:varchar(20);not null" json:"feedback_type"` // comment, suggestion, complaint
	Content      string    `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}
