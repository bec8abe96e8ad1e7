package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vamosmerendar/merendar-app/models"
	"github.com/vamosmerendar/merendar-app/utils"
)

// Event types
const (
	EventConfirmationUpdate = "confirmation_update"
	EventAttendanceUpdate   = "attendance_update"
	EventMenuUpdate         = "menu_update"
	EventNotification       = "notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Filter narrows what a subscriber receives. Empty fields match everything,
// so the nutritionist list view subscribes with its (date, meal_type) pair
// and only sees the rows it is displaying.
type Filter struct {
	Role     string
	UserID   uint
	Date     string
	MealType string
}

// Hub holds every websocket subscriber with its filter.
type Hub struct {
	clients map[*websocket.Conn]Filter
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]Filter),
}

// RegisterClient adds a connection with its subscription filter.
func RegisterClient(conn *websocket.Conn, filter Filter) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = filter
}

// UnregisterClient removes and closes a connection. Called on teardown, never
// left to garbage collection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastConfirmationUpdate pushes a changed confirmation row to the
// subscribers watching its (date, meal_type).
func BroadcastConfirmationUpdate(entry models.MealConfirmation) {
	broadcast(Message{Event: EventConfirmationUpdate, Data: entry}, confirmationAudience(entry))
}

// BroadcastMenuUpdate pushes a published or edited daily menu to everyone.
func BroadcastMenuUpdate(menu models.DailyMenu) {
	broadcast(Message{Event: EventMenuUpdate, Data: menu}, menuAudience(menu))
}

// BroadcastNotification pushes a notification to its audience: the targeted
// user, the targeted role, or everyone when untargeted.
func BroadcastNotification(notif models.Notification) {
	broadcast(Message{Event: EventNotification, Data: notif}, notificationAudience(notif))
}

func confirmationAudience(entry models.MealConfirmation) func(Filter) bool {
	return func(f Filter) bool {
		if f.Date != "" && f.Date != entry.Date {
			return false
		}
		if f.MealType != "" && f.MealType != entry.MealType {
			return false
		}
		return true
	}
}

func menuAudience(menu models.DailyMenu) func(Filter) bool {
	return func(f Filter) bool {
		return f.Date == "" || f.Date == menu.Date
	}
}

func notificationAudience(notif models.Notification) func(Filter) bool {
	return func(f Filter) bool {
		if notif.UserID != nil {
			return f.UserID == *notif.UserID
		}
		if notif.UserType != nil {
			return f.Role == *notif.UserType
		}
		return true
	}
}

func broadcast(msg Message, match func(Filter) bool) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("realtime marshal failed: %v", err)
		return
	}

	for conn, filter := range hub.clients {
		if !match(filter) {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("realtime send failed: %v", err)
			continue
		}
	}
}
