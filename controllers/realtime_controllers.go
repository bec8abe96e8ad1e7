package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vamosmerendar/merendar-app/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// RealtimeHandler -> websocket endpoint. The client narrows what it receives
// with ?date= and ?meal_type= query parameters; identity comes from the
// authenticated context.
func RealtimeHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	userIDInterface, _ := c.Get("user_id")
	userID, _ := userIDInterface.(uint)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	realtime.RegisterClient(ws, realtime.Filter{
		Role:     role,
		UserID:   userID,
		Date:     c.Query("date"),
		MealType: c.Query("meal_type"),
	})

	// block until the peer goes away
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	realtime.UnregisterClient(ws)
}
