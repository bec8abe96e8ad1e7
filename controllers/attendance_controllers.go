package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/models"
	"github.com/vamosmerendar/merendar-app/realtime"
	"github.com/vamosmerendar/merendar-app/services"
	"github.com/vamosmerendar/merendar-app/utils"
)

type AttendanceController struct {
	DB      *gorm.DB
	Service *services.AttendanceService
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return NewAttendanceControllerWithPolicy(db, nil)
}

// NewAttendanceControllerWithPolicy lets callers inject a window policy (the
// tests pin the clock through it).
func NewAttendanceControllerWithPolicy(db *gorm.DB, policy *services.WindowPolicy) *AttendanceController {
	svc := services.NewAttendanceService(db, policy)
	svc.Notifier = realtime.BroadcastNotification
	return &AttendanceController{DB: db, Service: svc}
}

// SetMealStatus -> student answers Sim/Não for one meal of one date.
func (ac *AttendanceController) SetMealStatus(c *gin.Context) {
	var body struct {
		Date     string `json:"date" binding:"required"`
		MealType string `json:"meal_type" binding:"required"`
		Attend   *bool  `json:"attend" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	student, ok := currentStudent(c, ac.DB)
	if !ok {
		return
	}

	record, err := ac.Service.SetMealStatus(c.Request.Context(), student, body.Date, body.MealType, *body.Attend)
	switch {
	case errors.Is(err, services.ErrInvalidMealType):
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	case errors.Is(err, services.ErrMealWindowClosed):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		utils.ErrorLogger.Printf("attendance update failed for student %d: %v", student.ID, err)
		// the refreshed record reflects actual server state after the failure
		utils.RespondError(c, http.StatusInternalServerError, services.ErrStoreUnavailable)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Presença atualizada", record)
}

// GetMyAttendance -> the student's record for a date, slots unset when the
// date was never answered.
func (ac *AttendanceController) GetMyAttendance(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date é obrigatório"))
		return
	}

	student, ok := currentStudent(c, ac.DB)
	if !ok {
		return
	}

	record, err := ac.Service.GetAttendance(c.Request.Context(), student.ID, date)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Attendance record", record)
}

// currentStudent resolves the authenticated user's profile snapshot. Writes
// the error response itself when the identity or profile is missing.
func currentStudent(c *gin.Context, db *gorm.DB) (services.StudentSnapshot, bool) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("usuário não autenticado"))
		return services.StudentSnapshot{}, false
	}
	userID, ok := userIDInterface.(uint)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("invalid user id type"))
		return services.StudentSnapshot{}, false
	}

	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("perfil não encontrado"))
		return services.StudentSnapshot{}, false
	}

	return services.StudentSnapshot{
		ID:        userID,
		Name:      profile.Name,
		Matricula: profile.Matricula,
		Image:     profile.ProfileImage,
	}, true
}
