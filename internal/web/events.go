package web

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/israice/ToDo-Game/internal/engine"
)

const keepaliveInterval = 30 * time.Second

// handleEvents is the live event stream: one SSE connection per open tab,
// each with its own mailbox. The connection lives until the client goes
// away; its mailbox is deregistered on the way out.
func (s *Server) handleEvents(c *gin.Context) {
	userID := currentUserID(c)

	sub := s.hub.Subscribe(userID)
	defer sub.Close()

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-store")
	header.Set("Connection", "keep-alive")
	c.Writer.Flush()

	writeEvent := func(event string, data []byte) bool {
		if _, err := fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return false
		}
		c.Writer.Flush()
		return true
	}

	connected, _ := json.Marshal(gin.H{"user": userID})
	if !writeEvent(engine.EventConnected, connected) {
		return
	}

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.C():
			if !ok {
				return
			}
			if !writeEvent(msg.Event, msg.Data) {
				return
			}
		case <-keepalive.C:
			// SSE comment line; keeps proxies from reaping idle streams.
			if _, err := fmt.Fprint(c.Writer, ": keepalive\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}
