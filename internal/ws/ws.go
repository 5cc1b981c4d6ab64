// Package ws pushes core events to connected views over a websocket. It is
// the transport behind the "data changed" broadcast that keeps other open
// views of the same data in sync.
package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/flowdeskhq/flowdesk/internal/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades the connection and streams bus events as JSON until the
// client goes away.
func Handler(bus *events.Bus, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		ch, cancel := bus.Subscribe()

		go func() {
			defer conn.Close()
			for ev := range ch {
				if err := conn.WriteJSON(ev); err != nil {
					cancel()
					return
				}
			}
		}()

		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()
	}
}
