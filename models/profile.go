package models

import "time"

// Profile holds the display data linked 1:1 to a User.
type Profile struct {
	ID                  uint    `gorm:"primaryKey" json:"id"`
	UserID              uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	User                User    `gorm:"foreignKey:UserID" json:"-"`
	Name                string  `gorm:"type:varchar(255);not null" json:"name"`
	Matricula           string  `gorm:"type:varchar(50);index" json:"matricula"`
	Phone               *string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Email               *string `gorm:"type:varchar(255)" json:"email,omitempty"`
	ProfileImage        *string `gorm:"type:varchar(500)" json:"profile_image,omitempty"`
	DietaryRestrictions *string `gorm:"type:text" json:"dietary_restrictions,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
