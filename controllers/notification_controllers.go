package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/models"
	"github.com/vamosmerendar/merendar-app/realtime"
	"github.com/vamosmerendar/merendar-app/utils"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetMyNotifications -> direct, role-targeted and global notifications for
// the authenticated user, newest first.
func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	userIDInterface, _ := c.Get("user_id")
	userID, _ := userIDInterface.(uint)
	roleInterface, _ := c.Get("role")
	role, _ := roleInterface.(string)

	var notifs []models.Notification
	if err := nc.DB.
		Where("user_id = ? OR user_type = ? OR (user_id IS NULL AND user_type IS NULL)", userID, role).
		Order("created_at DESC").
		Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notificações", notifs)
}

// CreateNotification -> nutritionist broadcast: to one user, one role, or all.
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	type reqBody struct {
		UserID   *uint   `json:"user_id"`
		UserType *string `json:"user_type"`
		Title    string  `json:"title" binding:"required"`
		Message  string  `json:"message" binding:"required"`
		Type     string  `json:"type"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	notif := models.Notification{
		UserID:   body.UserID,
		UserType: body.UserType,
		Title:    body.Title,
		Message:  body.Message,
		Type:     body.Type,
	}
	if notif.Type == "" {
		notif.Type = "class"
	}

	if err := nc.DB.Create(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastNotification(notif)
	utils.InfoLogger.Printf("Notification created: %v", notif.Title)

	utils.RespondJSON(c, http.StatusCreated, "Notificação criada", notif)
}

// MarkAsRead -> only notifications visible to the caller can be marked.
func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("notif_id inválido"))
		return
	}

	userIDInterface, _ := c.Get("user_id")
	userID, _ := userIDInterface.(uint)
	roleInterface, _ := c.Get("role")
	role, _ := roleInterface.(string)

	var notif models.Notification
	if err := nc.DB.
		Where("id = ? AND (user_id = ? OR user_type = ? OR (user_id IS NULL AND user_type IS NULL))", id, userID, role).
		First(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("notificação não encontrada"))
		return
	}

	if err := nc.DB.Model(&notif).Update("read", true).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notificação lida", gin.H{"notif_id": id})
}

// MarkAllAsRead -> every notification visible to the current user.
func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	userIDInterface, _ := c.Get("user_id")
	userID, _ := userIDInterface.(uint)
	roleInterface, _ := c.Get("role")
	role, _ := roleInterface.(string)

	if err := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? OR user_type = ? OR (user_id IS NULL AND user_type IS NULL)", userID, role).
		Update("read", true).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Todas as notificações lidas", nil)
}

// DeleteNotification
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("notif_id inválido"))
		return
	}

	var notif models.Notification
	if err := nc.DB.First(&notif, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("notificação não encontrada"))
		return
	}

	if err := nc.DB.Delete(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notificação removida", gin.H{"notif_id": id})
}
