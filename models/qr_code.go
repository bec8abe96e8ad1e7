package models

import "time"

// QRCode stores the issued token for one confirmed meal slot. The hash is
// deterministic over (student_id, date, meal_type), so re-issuance always
// returns the same row.
type QRCode struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_qr_natural" json:"student_id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_qr_natural" json:"date"`
	MealType  string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_qr_natural" json:"meal_type"`
	Hash      string    `gorm:"type:varchar(16);not null;index" json:"hash"`
	CreatedAt time.Time `json:"created_at"`
}
