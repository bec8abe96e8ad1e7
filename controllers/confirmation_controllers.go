package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/models"
	"github.com/vamosmerendar/merendar-app/utils"
)

// ConfirmationController serves the nutritionist-facing views over the
// denormalized meal_confirmations rows.
type ConfirmationController struct {
	DB *gorm.DB
}

func NewConfirmationController(db *gorm.DB) *ConfirmationController {
	return &ConfirmationController{DB: db}
}

// ListConfirmations -> confirmed students for (date, meal_type), newest first.
func (cc *ConfirmationController) ListConfirmations(c *gin.Context) {
	date := c.Query("date")
	mealType := c.Query("meal_type")
	if date == "" || mealType == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date e meal_type são obrigatórios"))
		return
	}

	var confirmations []models.MealConfirmation
	if err := cc.DB.
		Where("date = ? AND meal_type = ? AND status = ?", date, mealType, true).
		Order("created_at DESC").
		Find(&confirmations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Confirmações", confirmations)
}

// GetAttendanceLog -> every answer (confirmed and declined) for a date.
func (cc *ConfirmationController) GetAttendanceLog(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date é obrigatório"))
		return
	}

	var entries []models.MealConfirmation
	if err := cc.DB.
		Where("date = ?", date).
		Order("meal_type ASC, created_at DESC").
		Find(&entries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Registro de presenças", entries)
}
