package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/models"
	"github.com/vamosmerendar/merendar-app/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetMenuByDate -> the published menu for one date.
func (mc *MenuController) GetMenuByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date é obrigatório"))
		return
	}

	var menu models.DailyMenu
	if err := mc.DB.Where("date = ?", date).First(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("cardápio não encontrado"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cardápio do dia", menu)
}

// GetWeeklyMenu -> seven days of menus starting at ?start (yyyy-mm-dd).
func (mc *MenuController) GetWeeklyMenu(c *gin.Context) {
	start := c.Query("start")
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("start inválido, use yyyy-mm-dd"))
		return
	}
	endDate := startDate.AddDate(0, 0, 6)

	var menus []models.DailyMenu
	if err := mc.DB.
		Where("date >= ? AND date <= ?", startDate.Format("2006-01-02"), endDate.Format("2006-01-02")).
		Order("date ASC").
		Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cardápio da semana", menus)
}

// UpsertMenu -> nutritionist publishes or edits the menu for a date.
func (mc *MenuController) UpsertMenu(c *gin.Context) {
	var body struct {
		Date      string  `json:"date" binding:"required"`
		Breakfast *string `json:"breakfast"`
		Lunch     *string `json:"lunch"`
		Snack     *string `json:"snack"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userIDInterface, _ := c.Get("user_id")
	userID, _ := userIDInterface.(uint)

	var menu models.DailyMenu
	err := mc.DB.Where("date = ?", body.Date).First(&menu).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		menu = models.DailyMenu{
			Date:      body.Date,
			Breakfast: body.Breakfast,
			Lunch:     body.Lunch,
			Snack:     body.Snack,
			CreatedBy: userID,
		}
		if err := mc.DB.Create(&menu).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusCreated, "Cardápio publicado", menu)
		return
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if body.Breakfast != nil {
		menu.Breakfast = body.Breakfast
	}
	if body.Lunch != nil {
		menu.Lunch = body.Lunch
	}
	if body.Snack != nil {
		menu.Snack = body.Snack
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cardápio atualizado", menu)
}

// DeleteMenu
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("menu_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("menu_id inválido"))
		return
	}

	if err := mc.DB.Delete(&models.DailyMenu{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cardápio removido", gin.H{"menu_id": id})
}
