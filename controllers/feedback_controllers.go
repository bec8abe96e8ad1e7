package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/models"
	"github.com/vamosmerendar/merendar-app/utils"
)

type FeedbackController struct {
	DB *gorm.DB
}

func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{DB: db}
}

// CreateFeedback -> students can only review meals they confirmed.
func (fc *FeedbackController) CreateFeedback(c *gin.Context) {
	var body struct {
		Date         string `json:"date" binding:"required"`
		MealType     string `json:"meal_type" binding:"required"`
		FeedbackType string `json:"feedback_type" binding:"required"`
		Content      string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	student, ok := currentStudent(c, fc.DB)
	if !ok {
		return
	}

	var record models.MealAttendance
	err := fc.DB.Where("student_id = ? AND date = ?", student.ID, body.Date).First(&record).Error
	if err != nil || record.Slot(body.MealType) == nil || !*record.Slot(body.MealType) {
		utils.RespondError(c, http.StatusConflict,
			errors.New("você só pode enviar feedback para refeições que confirmou presença"))
		return
	}

	feedback := models.Feedback{
		StudentID:    student.ID,
		MealType:     body.MealType,
		FeedbackType: body.FeedbackType,
		Content:      body.Content,
	}
	if err := fc.DB.Create(&feedback).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Feedback enviado", feedback)
}

// ListFeedback -> nutritionist view, optionally filtered by meal type.
func (fc *FeedbackController) ListFeedback(c *gin.Context) {
	query := fc.DB.Order("created_at DESC")
	if mealType := c.Query("meal_type"); mealType != "" {
		query = query.Where("meal_type = ?", mealType)
	}
	if feedbackType := c.Query("feedback_type"); feedbackType != "" {
		query = query.Where("feedback_type = ?", feedbackType)
	}

	var feedbacks []models.Feedback
	if err := query.Find(&feedbacks).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Feedbacks", feedbacks)
}
