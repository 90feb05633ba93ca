package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playpool/cuetouch/internal/ws"
)

// HandleTableWebSocket handles real-time table communication
func HandleTableWebSocket(hub *ws.Hub) gin.HandlerFunc {
	return hub.HandleWebSocket
}
