package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/models"
)

// QRService issues and verifies the opaque token a student presents for a
// confirmed meal slot. The token is a deterministic hash over
// (student_id, date, meal_type), stored get-or-create so re-issuance always
// returns the same value. No expiry: the token stays valid as long as the
// slot stays confirmed.
type QRService struct {
	DB *gorm.DB
}

func NewQRService(db *gorm.DB) *QRService {
	return &QRService{DB: db}
}

// GetOrCreate returns the QR code for a confirmed meal slot, issuing it on
// first request. Declined or unanswered slots fail with ErrNotConfirmed.
func (s *QRService) GetOrCreate(ctx context.Context, studentID uint, date, mealType string) (models.QRCode, error) {
	if _, ok := DefaultMealWindows[mealType]; !ok {
		return models.QRCode{}, ErrInvalidMealType
	}

	var record models.MealAttendance
	err := s.DB.WithContext(ctx).
		Where("student_id = ? AND date = ?", studentID, date).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.QRCode{}, ErrNotConfirmed
	}
	if err != nil {
		return models.QRCode{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if slot := record.Slot(mealType); slot == nil || !*slot {
		return models.QRCode{}, ErrNotConfirmed
	}

	var code models.QRCode
	err = s.DB.WithContext(ctx).
		Where("student_id = ? AND date = ? AND meal_type = ?", studentID, date, mealType).
		First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		code = models.QRCode{
			ID:        uuid.NewString(),
			StudentID: studentID,
			Date:      date,
			MealType:  mealType,
			Hash:      QRHash(studentID, date, mealType),
		}
		if err := s.DB.WithContext(ctx).Create(&code).Error; err != nil {
			return models.QRCode{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		qrIssuedTotal.Inc()
		return code, nil
	}
	if err != nil {
		return models.QRCode{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return code, nil
}

// Verify matches a scanned hash against the stored code for (date, mealType)
// and cross-checks that the attendance slot is still confirmed. The scanner
// sends date and meal type alongside the hash; the token itself stays opaque.
func (s *QRService) Verify(ctx context.Context, hash, date, mealType string) (models.QRCode, error) {
	var code models.QRCode
	err := s.DB.WithContext(ctx).
		Where("hash = ? AND date = ? AND meal_type = ?", hash, date, mealType).
		First(&code).Error
	if err != nil {
		return models.QRCode{}, err
	}

	var record models.MealAttendance
	err = s.DB.WithContext(ctx).
		Where("student_id = ? AND date = ?", code.StudentID, code.Date).
		First(&record).Error
	if err != nil {
		return models.QRCode{}, err
	}
	if slot := record.Slot(mealType); slot == nil || !*slot {
		return models.QRCode{}, ErrNotConfirmed
	}
	return code, nil
}

// QRHash derives the 8-hex-char display token from the slot identity. A
// 32-bit accumulator keeps the value short enough for on-screen entry when
// scanning fails.
func QRHash(studentID uint, date, mealType string) string {
	unique := fmt.Sprintf("%d-%s-%s", studentID, date, mealType)
	var h int32
	for _, ch := range unique {
		h = (h << 5) - h + int32(ch)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return fmt.Sprintf("%08x", v)
}
