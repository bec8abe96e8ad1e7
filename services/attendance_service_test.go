package services

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/models"
	"github.com/vamosmerendar/merendar-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

var dbSeq int

func setupServiceDB(t *testing.T) *gorm.DB {
	dbSeq++
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.MealAttendance{},
		&models.MealConfirmation{},
		&models.Notification{},
		&models.QRCode{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func testStudent() StudentSnapshot {
	image := "https://cdn.example.com/maria.png"
	return StudentSnapshot{
		ID:        1,
		Name:      "Maria Souza",
		Matricula: "2024001",
		Image:     &image,
	}
}

func TestSetMealStatusCreatesBothRows(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAttendanceService(db, NewWindowPolicy(nil, clockAt(6, 0)))
	ctx := context.Background()

	record, err := svc.SetMealStatus(ctx, testStudent(), "2024-05-20", models.MealBreakfast, true)
	assert.NoError(t, err)
	assert.NotNil(t, record.Breakfast)
	assert.True(t, *record.Breakfast)
	assert.Nil(t, record.Lunch)
	assert.Nil(t, record.Snack)

	var entry models.MealConfirmation
	err = db.Where("date = ? AND meal_type = ? AND student_id = ?", "2024-05-20", models.MealBreakfast, 1).
		First(&entry).Error
	assert.NoError(t, err)
	assert.True(t, entry.Status)
	assert.Equal(t, "Maria Souza", entry.StudentName)
	assert.Equal(t, "2024001", entry.StudentMatricula)

	var notif models.Notification
	err = db.Where("user_id = ?", 1).First(&notif).Error
	assert.NoError(t, err)
	assert.Equal(t, "Presença atualizada", notif.Title)
	assert.Contains(t, notif.Message, "o café da manhã")
}

func TestSetMealStatusIdempotent(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAttendanceService(db, NewWindowPolicy(nil, clockAt(6, 0)))
	ctx := context.Background()

	first, err := svc.SetMealStatus(ctx, testStudent(), "2024-05-20", models.MealBreakfast, true)
	assert.NoError(t, err)
	second, err := svc.SetMealStatus(ctx, testStudent(), "2024-05-20", models.MealBreakfast, true)
	assert.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, *first.Breakfast, *second.Breakfast)

	var attendanceCount, confirmationCount int64
	db.Model(&models.MealAttendance{}).Count(&attendanceCount)
	db.Model(&models.MealConfirmation{}).Count(&confirmationCount)
	assert.Equal(t, int64(1), attendanceCount)
	assert.Equal(t, int64(1), confirmationCount)
}

func TestSetMealStatusFieldIsolation(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAttendanceService(db, NewWindowPolicy(nil, clockAt(6, 0)))
	ctx := context.Background()

	_, err := svc.SetMealStatus(ctx, testStudent(), "2024-05-20", models.MealBreakfast, true)
	assert.NoError(t, err)
	record, err := svc.SetMealStatus(ctx, testStudent(), "2024-05-20", models.MealLunch, false)
	assert.NoError(t, err)

	assert.NotNil(t, record.Breakfast)
	assert.True(t, *record.Breakfast)
	assert.NotNil(t, record.Lunch)
	assert.False(t, *record.Lunch)
	assert.Nil(t, record.Snack)

	var stored models.MealAttendance
	assert.NoError(t, db.Where("student_id = ? AND date = ?", 1, "2024-05-20").First(&stored).Error)
	assert.True(t, *stored.Breakfast)
	assert.False(t, *stored.Lunch)
	assert.Nil(t, stored.Snack)
}

func TestSetMealStatusWindowClosedNoWrites(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAttendanceService(db, NewWindowPolicy(nil, clockAt(10, 0)))
	ctx := context.Background()

	_, err := svc.SetMealStatus(ctx, testStudent(), "2024-05-20", models.MealLunch, false)
	assert.ErrorIs(t, err, ErrMealWindowClosed)

	var attendanceCount, confirmationCount, notifCount int64
	db.Model(&models.MealAttendance{}).Count(&attendanceCount)
	db.Model(&models.MealConfirmation{}).Count(&confirmationCount)
	db.Model(&models.Notification{}).Count(&notifCount)
	assert.Zero(t, attendanceCount)
	assert.Zero(t, confirmationCount)
	assert.Zero(t, notifCount)
}

func TestSetMealStatusInvalidMealType(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAttendanceService(db, NewWindowPolicy(nil, clockAt(6, 0)))

	_, err := svc.SetMealStatus(context.Background(), testStudent(), "2024-05-20", "dinner", true)
	assert.ErrorIs(t, err, ErrInvalidMealType)
}

func TestSetMealStatusTablesConverge(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAttendanceService(db, NewWindowPolicy(nil, clockAt(6, 0)))
	ctx := context.Background()

	// confirm then decline: both tables must agree after each call
	for _, attend := range []bool{true, false} {
		_, err := svc.SetMealStatus(ctx, testStudent(), "2024-05-20", models.MealBreakfast, attend)
		assert.NoError(t, err)

		var record models.MealAttendance
		var entry models.MealConfirmation
		assert.NoError(t, db.Where("student_id = ? AND date = ?", 1, "2024-05-20").First(&record).Error)
		assert.NoError(t, db.Where("date = ? AND meal_type = ? AND student_id = ?",
			"2024-05-20", models.MealBreakfast, 1).First(&entry).Error)
		assert.Equal(t, attend, *record.Breakfast)
		assert.Equal(t, attend, entry.Status)
	}
}

func TestSetMealStatusRefreshesSnapshot(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAttendanceService(db, NewWindowPolicy(nil, clockAt(6, 0)))
	ctx := context.Background()

	student := testStudent()
	_, err := svc.SetMealStatus(ctx, student, "2024-05-20", models.MealBreakfast, true)
	assert.NoError(t, err)

	student.Name = "Maria S. Oliveira"
	_, err = svc.SetMealStatus(ctx, student, "2024-05-20", models.MealBreakfast, true)
	assert.NoError(t, err)

	var entry models.MealConfirmation
	assert.NoError(t, db.Where("date = ? AND meal_type = ? AND student_id = ?",
		"2024-05-20", models.MealBreakfast, 1).First(&entry).Error)
	assert.Equal(t, "Maria S. Oliveira", entry.StudentName)
}

func TestSetMealStatusNotifierHookReceivesEvent(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAttendanceService(db, NewWindowPolicy(nil, clockAt(6, 0)))

	var got *models.Notification
	svc.Notifier = func(n models.Notification) { got = &n }

	_, err := svc.SetMealStatus(context.Background(), testStudent(), "2024-05-20", models.MealSnack, false)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Contains(t, got.Message, "o lanche da tarde")
	assert.Contains(t, got.Message, "ausência")
}

func TestSetMealStatusStoreFailureRereads(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAttendanceService(db, NewWindowPolicy(nil, clockAt(6, 0)))
	ctx := context.Background()

	// confirmation table gone: the attendance write lands, the second upsert fails
	assert.NoError(t, db.Migrator().DropTable(&models.MealConfirmation{}))

	record, err := svc.SetMealStatus(ctx, testStudent(), "2024-05-20", models.MealBreakfast, true)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	// the returned record is re-read server state, not the failed in-memory copy
	assert.NotNil(t, record.Breakfast)
	assert.True(t, *record.Breakfast)

	var stored models.MealAttendance
	assert.NoError(t, db.Where("student_id = ? AND date = ?", 1, "2024-05-20").First(&stored).Error)
	assert.True(t, *stored.Breakfast)

	// no notification is pushed for a failed update
	var notifCount int64
	db.Model(&models.Notification{}).Count(&notifCount)
	assert.Zero(t, notifCount)
}

func TestGetAttendanceUnansweredDate(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAttendanceService(db, NewWindowPolicy(nil, clockAt(6, 0)))

	record, err := svc.GetAttendance(context.Background(), 42, "2024-05-21")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), record.StudentID)
	assert.Nil(t, record.Breakfast)
	assert.Nil(t, record.Lunch)
	assert.Nil(t, record.Snack)
}
