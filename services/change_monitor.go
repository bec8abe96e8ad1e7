package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/models"
	"github.com/vamosmerendar/merendar-app/realtime"
	"github.com/vamosmerendar/merendar-app/utils"
)

// ChangeMonitor polls the db_changes outbox that the database triggers append
// to and turns each row into a realtime push. This is what lets the
// nutritionist list views refresh without polling the API.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Error fetching changes: %v", err)
		return
	}

	// broadcasts go out before the processed flags commit; if the commit
	// fails the batch replays next tick and subscribers may see duplicates
	for _, change := range changes {
		switch change.TableName {
		case "meal_confirmations":
			cm.processConfirmationChange(change)
		case "daily_menus":
			cm.processMenuChange(change)
		case "notifications":
			cm.processNotificationChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("Error committing change batch: %v", err)
		tx.Rollback()
		return
	}

	if len(changes) > 0 {
		utils.InfoLogger.Printf("Processed %d realtime changes", len(changes))
	}
}

func (cm *ChangeMonitor) processConfirmationChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		return
	}
	var entry models.MealConfirmation
	if err := cm.DB.Where("id = ?", change.RecordID).First(&entry).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching confirmation: %v", err)
		return
	}
	realtime.BroadcastConfirmationUpdate(entry)
}

func (cm *ChangeMonitor) processMenuChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		return
	}
	var menu models.DailyMenu
	if err := cm.DB.Where("id = ?", change.RecordID).First(&menu).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching daily menu: %v", err)
		return
	}
	realtime.BroadcastMenuUpdate(menu)
}

func (cm *ChangeMonitor) processNotificationChange(change models.DBChange) {
	if change.ActionType != "INSERT" {
		return
	}
	var notif models.Notification
	if err := cm.DB.Where("id = ?", change.RecordID).First(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching notification: %v", err)
		return
	}
	realtime.BroadcastNotification(notif)
}
