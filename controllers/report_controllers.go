package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/models"
	"github.com/vamosmerendar/merendar-app/services"
	"github.com/vamosmerendar/merendar-app/utils"
)

// ReportController serves the nutritionist dashboard numbers and the printable
// attendance report.
type ReportController struct {
	DB    *gorm.DB
	Cache *utils.Cache
}

func NewReportController(db *gorm.DB, cache *utils.Cache) *ReportController {
	return &ReportController{DB: db, Cache: cache}
}

type mealStats struct {
	Confirmed int64 `json:"confirmed"`
	Declined  int64 `json:"declined"`
}

// GetDashboardStats -> per-meal confirmed/declined counts for a date, cached
// for a short TTL since several nutritionist views poll it together.
func (rc *ReportController) GetDashboardStats(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date é obrigatório"))
		return
	}

	cacheKey := "merendar:stats:" + date
	if cached := rc.Cache.Get(c.Request.Context(), cacheKey); cached != "" {
		var stats map[string]mealStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			utils.RespondJSON(c, http.StatusOK, "Resumo do dia", stats)
			return
		}
	}

	stats := make(map[string]mealStats)
	for _, mealType := range []string{models.MealBreakfast, models.MealLunch, models.MealSnack} {
		var confirmed, declined int64
		if err := rc.DB.Model(&models.MealConfirmation{}).
			Where("date = ? AND meal_type = ? AND status = ?", date, mealType, true).
			Count(&confirmed).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if err := rc.DB.Model(&models.MealConfirmation{}).
			Where("date = ? AND meal_type = ? AND status = ?", date, mealType, false).
			Count(&declined).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		stats[mealType] = mealStats{Confirmed: confirmed, Declined: declined}
	}

	if payload, err := json.Marshal(stats); err == nil {
		rc.Cache.Set(c.Request.Context(), cacheKey, string(payload), 30*time.Second)
	}

	utils.RespondJSON(c, http.StatusOK, "Resumo do dia", stats)
}

// ExportAttendancePDF -> printable list of confirmed students for one
// (date, meal_type).
func (rc *ReportController) ExportAttendancePDF(c *gin.Context) {
	date := c.Query("date")
	mealType := c.Query("meal_type")
	if date == "" || mealType == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date e meal_type são obrigatórios"))
		return
	}

	var confirmations []models.MealConfirmation
	if err := rc.DB.
		Where("date = ? AND meal_type = ? AND status = ?", date, mealType, true).
		Order("student_name ASC").
		Find(&confirmations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Vamos Merendar - Relatorio de Presencas")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Data: %s  Refeicao: %s", date, services.MealName(mealType)))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 8, "Nome", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Matricula", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Horario", "1", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, entry := range confirmations {
		pdf.CellFormat(90, 8, entry.StudentName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, entry.StudentMatricula, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, entry.CreatedAt.Format("15:04"), "1", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Total de confirmacoes: %d", len(confirmations)))

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=presencas-%s-%s.pdf", date, mealType))
	if err := pdf.Output(c.Writer); err != nil {
		utils.ErrorLogger.Printf("PDF export failed: %v", err)
	}
}
