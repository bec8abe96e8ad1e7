package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/controllers"
	"github.com/vamosmerendar/merendar-app/models"
	"github.com/vamosmerendar/merendar-app/services"
	"github.com/vamosmerendar/merendar-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

var dbSeq int

func setupTestDB(t *testing.T) *gorm.DB {
	dbSeq++
	dsn := fmt.Sprintf("file:ctrl_test_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.MealAttendance{},
		&models.MealConfirmation{},
		&models.QRCode{},
		&models.DailyMenu{},
		&models.Feedback{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedStudent(t *testing.T, db *gorm.DB) models.User {
	user := models.User{
		Email:    "maria@example.com",
		Password: "secret",
		Role:     "student",
	}
	assert.NoError(t, db.Create(&user).Error)
	profile := models.Profile{
		UserID:    user.ID,
		Name:      "Maria Souza",
		Matricula: "2024001",
	}
	assert.NoError(t, db.Create(&profile).Error)
	return user
}

// fakeAuth stands in for the JWT middleware in handler-level tests.
func fakeAuth(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func fixedClock(hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 5, 20, hour, minute, 0, 0, time.Local)
	}
}

func setupAttendanceRouter(db *gorm.DB, userID uint, hour, minute int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	router.Use(fakeAuth(userID, "student"))

	policy := services.NewWindowPolicy(nil, fixedClock(hour, minute))
	attCtrl := controllers.NewAttendanceControllerWithPolicy(db, policy)
	qrCtrl := controllers.NewQRController(db)

	router.POST("/attendance", attCtrl.SetMealStatus)
	router.GET("/attendance", attCtrl.GetMyAttendance)
	router.GET("/attendance/qr", qrCtrl.GetMealQR)
	return router
}

func postAttendance(t *testing.T, router *gin.Engine, date, mealType string, attend bool) *httptest.ResponseRecorder {
	payload := map[string]interface{}{
		"date":      date,
		"meal_type": mealType,
		"attend":    attend,
	}
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", "/attendance", bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestConfirmBreakfastWithinWindow(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	router := setupAttendanceRouter(db, user.ID, 6, 0)

	w := postAttendance(t, router, "2024-05-20", "breakfast", true)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, true, data["breakfast"])
	assert.Nil(t, data["lunch"])

	var entry models.MealConfirmation
	err := db.Where("date = ? AND meal_type = ? AND student_id = ?",
		"2024-05-20", "breakfast", user.ID).First(&entry).Error
	assert.NoError(t, err)
	assert.True(t, entry.Status)
	assert.Equal(t, "Maria Souza", entry.StudentName)

	var notif models.Notification
	assert.NoError(t, db.Where("user_id = ?", user.ID).First(&notif).Error)
	assert.Contains(t, notif.Title, "Presença atualizada")
}

func TestDeclineLunchAfterWindow(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	router := setupAttendanceRouter(db, user.ID, 10, 0)

	w := postAttendance(t, router, "2024-05-20", "lunch", false)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var count int64
	db.Model(&models.MealAttendance{}).Count(&count)
	assert.Zero(t, count)
}

func TestConfirmTwoMealsSameDate(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	router := setupAttendanceRouter(db, user.ID, 6, 0)

	assert.Equal(t, http.StatusOK, postAttendance(t, router, "2024-05-20", "breakfast", true).Code)
	assert.Equal(t, http.StatusOK, postAttendance(t, router, "2024-05-20", "lunch", true).Code)

	var record models.MealAttendance
	assert.NoError(t, db.Where("student_id = ? AND date = ?", user.ID, "2024-05-20").First(&record).Error)
	assert.True(t, *record.Breakfast)
	assert.True(t, *record.Lunch)
	assert.Nil(t, record.Snack)
}

func TestInvalidMealTypeRejected(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	router := setupAttendanceRouter(db, user.ID, 6, 0)

	w := postAttendance(t, router, "2024-05-20", "dinner", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMealQRIssuance(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	router := setupAttendanceRouter(db, user.ID, 6, 0)

	// not confirmed yet -> conflict
	req, _ := http.NewRequest("GET", "/attendance/qr?date=2024-05-20&meal_type=breakfast", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusOK, postAttendance(t, router, "2024-05-20", "breakfast", true).Code)

	req, _ = http.NewRequest("GET", "/attendance/qr?date=2024-05-20&meal_type=breakfast", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["hash"])

	// re-issue returns the identical hash
	req, _ = http.NewRequest("GET", "/attendance/qr?date=2024-05-20&meal_type=breakfast", nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	var resp2 map[string]interface{}
	assert.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp2))
	assert.Equal(t, data["hash"], resp2["data"].(map[string]interface{})["hash"])
}
