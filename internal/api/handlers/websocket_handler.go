package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
	"github.com/ranyal-tech/dispatch-frontend/pkg/websocket"
)

// HandleWebSocket handles GET /ws
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	upgrader := gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // console runs on a separate origin in development
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("Failed to upgrade to WebSocket", logger.Err(err))
		return
	}

	client := websocket.NewClient(h.Hub, conn, h.Logger)
	h.Hub.Register(client)

	// Optional initial topic filter, e.g. ?driver=d1
	if driverID := c.Query("driver"); driverID != "" {
		client.Subscribe("driver:" + driverID)
	}

	go client.WritePump()
	go client.ReadPump()
}
