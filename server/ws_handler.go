package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/techagentng/opsconsole/realtime"
	"github.com/techagentng/opsconsole/server/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set custom headers on websocket dials, so the usual
	// CORS layer does not apply here; the Authorize middleware has already
	// established who the caller is.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleNotificationStream upgrades the request to a websocket and registers
// the channel for the authenticated user. An upgrade failure is reported to
// this caller only and leaves the registry untouched.
func (s *Server) handleNotificationStream() gin.HandlerFunc {
	return func(c *gin.Context) {
		userKey := c.MustGet("userKey").(string)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade failed for user %s: %v", userKey, err)
			response.JSON(c, "could not open notification stream", http.StatusBadRequest, nil, err)
			return
		}

		client := realtime.NewClient(userKey, conn)
		s.Registry.Register(client)
		log.Printf("notification stream opened for user %s (%d active)", userKey, s.Registry.CountForUser(userKey))

		go client.WritePump()
		go client.ReadPump(s.Registry)
	}
}
