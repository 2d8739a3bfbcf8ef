package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleEvents upgrades GET /events?userId=… to a duplex channel, pushing
// deal_alert frames from the watch evaluator. Client-to-server frames are
// accepted but ignored; receipt is only used as a liveness signal.
func (s *Server) handleEvents(c *gin.Context) {
	userID := c.Query("userId")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	s.registry.Connect(conn, userID)
	defer func() {
		s.registry.Disconnect(conn, userID)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
