package models

import "time"

// Notification targets one user (UserID set), one role (UserType set) or
// everyone (both nil).
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	UserType  *string   `gorm:"type:varchar(30);index" json:"user_type,omitempty"`
	Title     string    `gorm:"type:varchar(100);not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"type:varchar(20);default:'class'" json:"type"` // attendance, class, menu, register, complete
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
