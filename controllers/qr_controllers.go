package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/services"
	"github.com/vamosmerendar/merendar-app/utils"
)

type QRController struct {
	DB      *gorm.DB
	Service *services.QRService
}

func NewQRController(db *gorm.DB) *QRController {
	return &QRController{DB: db, Service: services.NewQRService(db)}
}

// GetMealQR -> issues (or returns) the QR code for a confirmed meal slot.
func (qc *QRController) GetMealQR(c *gin.Context) {
	date := c.Query("date")
	mealType := c.Query("meal_type")
	if date == "" || mealType == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date e meal_type são obrigatórios"))
		return
	}

	student, ok := currentStudent(c, qc.DB)
	if !ok {
		return
	}

	code, err := qc.Service.GetOrCreate(c.Request.Context(), student.ID, date, mealType)
	switch {
	case errors.Is(err, services.ErrInvalidMealType):
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	case errors.Is(err, services.ErrNotConfirmed):
		utils.RespondError(c, http.StatusConflict, err)
		return
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "QR code", gin.H{
		"hash":      code.Hash,
		"date":      code.Date,
		"meal_type": code.MealType,
	})
}

// VerifyMealQR -> the staff scanner posts a hash plus the slot it is serving;
// the server matches the stored code and re-checks the attendance slot.
func (qc *QRController) VerifyMealQR(c *gin.Context) {
	var body struct {
		Hash     string `json:"hash" binding:"required"`
		Date     string `json:"date" binding:"required"`
		MealType string `json:"meal_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	code, err := qc.Service.Verify(c.Request.Context(), body.Hash, body.Date, body.MealType)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("QR code não encontrado"))
		return
	case errors.Is(err, services.ErrNotConfirmed):
		utils.RespondError(c, http.StatusConflict, err)
		return
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "QR code válido", gin.H{
		"student_id": code.StudentID,
		"date":       code.Date,
		"meal_type":  code.MealType,
	})
}
