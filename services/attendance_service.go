package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/models"
	"github.com/vamosmerendar/merendar-app/utils"
)

// StudentSnapshot carries the acting student's identity and display fields,
// taken from the profile at the moment of the action.
type StudentSnapshot struct {
	ID        uint
	Name      string
	Matricula string
	Image     *string
}

// AttendanceService applies one attendance answer across the two collaborating
// tables: meal_attendance (per student+date, one column per meal) and
// meal_confirmations (per date+meal+student, denormalized for the
// nutritionist views). The two writes are independent statements; a failure
// between them leaves the tables transiently divergent and the caller
// re-reads to resynchronize.
type AttendanceService struct {
	DB       *gorm.DB
	Policy   *WindowPolicy
	Notifier func(models.Notification) // realtime push hook, may be nil
}

func NewAttendanceService(db *gorm.DB, policy *WindowPolicy) *AttendanceService {
	if policy == nil {
		policy = NewWindowPolicy(nil, nil)
	}
	return &AttendanceService{DB: db, Policy: policy}
}

// SetMealStatus records the student's Sim/Não answer for one meal slot.
// Idempotent: re-applying the same answer leaves the same final state.
func (s *AttendanceService) SetMealStatus(ctx context.Context, student StudentSnapshot, date, mealType string, attend bool) (models.MealAttendance, error) {
	allowed, err := s.Policy.Allowed(mealType)
	if err != nil {
		return models.MealAttendance{}, err
	}
	if !allowed {
		windowRejectedTotal.WithLabelValues(mealType).Inc()
		return models.MealAttendance{}, ErrMealWindowClosed
	}

	record, err := s.upsertAttendance(ctx, student.ID, date, mealType, attend)
	if err != nil {
		return s.refetch(ctx, student.ID, date), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := s.upsertConfirmation(ctx, student, date, mealType, attend); err != nil {
		// meal_attendance already holds the new value; the confirmation row
		// converges on the next answer or subscription push.
		return s.refetch(ctx, student.ID, date), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.notify(ctx, student.ID, mealType, attend)
	confirmationsTotal.WithLabelValues(mealType, boolLabel(attend)).Inc()

	return record, nil
}

// upsertAttendance creates or updates the meal_attendance row for
// (studentID, date), touching only the requested meal column so concurrent
// answers for other meals on the same date are never clobbered.
func (s *AttendanceService) upsertAttendance(ctx context.Context, studentID uint, date, mealType string, attend bool) (models.MealAttendance, error) {
	var record models.MealAttendance
	err := s.DB.WithContext(ctx).
		Where("student_id = ? AND date = ?", studentID, date).
		First(&record).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = models.MealAttendance{StudentID: studentID, Date: date}
		setSlot(&record, mealType, attend)
		if err := s.DB.WithContext(ctx).Create(&record).Error; err != nil {
			return models.MealAttendance{}, err
		}
	case err != nil:
		return models.MealAttendance{}, err
	default:
		// mealType is validated by the window policy, safe as a column name
		if err := s.DB.WithContext(ctx).Model(&record).Update(mealType, attend).Error; err != nil {
			return models.MealAttendance{}, err
		}
		setSlot(&record, mealType, attend)
	}

	return record, nil
}

// upsertConfirmation keeps the denormalized row in lockstep with the
// attendance slot, refreshing the snapshotted display fields on every write.
func (s *AttendanceService) upsertConfirmation(ctx context.Context, student StudentSnapshot, date, mealType string, attend bool) error {
	var entry models.MealConfirmation
	err := s.DB.WithContext(ctx).
		Where("date = ? AND meal_type = ? AND student_id = ?", date, mealType, student.ID).
		First(&entry).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.MealConfirmation{
			ID:               uuid.NewString(),
			Date:             date,
			MealType:         mealType,
			StudentID:        student.ID,
			Status:           attend,
			StudentName:      student.Name,
			StudentMatricula: student.Matricula,
			StudentImage:     student.Image,
		}
		return s.DB.WithContext(ctx).Create(&entry).Error
	case err != nil:
		return err
	default:
		return s.DB.WithContext(ctx).Model(&entry).Updates(map[string]interface{}{
			"status":            attend,
			"student_name":      student.Name,
			"student_matricula": student.Matricula,
			"student_image":     student.Image,
		}).Error
	}
}

// notify records and pushes the confirmation summary to the acting student.
// Best effort: a failure here never fails the attendance update.
func (s *AttendanceService) notify(ctx context.Context, studentID uint, mealType string, attend bool) {
	message := fmt.Sprintf("Sua ausência foi registrada para %s.", MealName(mealType))
	if attend {
		message = fmt.Sprintf("Sua presença foi confirmada para %s.", MealName(mealType))
	}

	notif := models.Notification{
		UserID:  &studentID,
		Title:   "Presença atualizada",
		Message: message,
		Type:    "attendance",
	}
	if err := s.DB.WithContext(ctx).Create(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("attendance notification not saved: %v", err)
		return
	}
	if s.Notifier != nil {
		s.Notifier(notif)
	}
}

// GetAttendance returns the record for (studentID, date); a zero record with
// all slots unset when the student has not answered yet.
func (s *AttendanceService) GetAttendance(ctx context.Context, studentID uint, date string) (models.MealAttendance, error) {
	var record models.MealAttendance
	err := s.DB.WithContext(ctx).
		Where("student_id = ? AND date = ?", studentID, date).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.MealAttendance{StudentID: studentID, Date: date}, nil
	}
	return record, err
}

func (s *AttendanceService) refetch(ctx context.Context, studentID uint, date string) models.MealAttendance {
	record, err := s.GetAttendance(ctx, studentID, date)
	if err != nil {
		return models.MealAttendance{StudentID: studentID, Date: date}
	}
	return record
}

func setSlot(record *models.MealAttendance, mealType string, attend bool) {
	value := attend
	switch mealType {
	case models.MealBreakfast:
		record.Breakfast = &value
	case models.MealLunch:
		record.Lunch = &value
	case models.MealSnack:
		record.Snack = &value
	}
}

// MealName returns the Portuguese name used in user-facing messages.
func MealName(mealType string) string {
	switch mealType {
	case models.MealBreakfast:
		return "o café da manhã"
	case models.MealLunch:
		return "o almoço"
	case models.MealSnack:
		return "o lanche da tarde"
	}
	return mealType
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
