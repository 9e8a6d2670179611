package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait   = 10 * time.Second
	maxDuration = 10 * time.Minute
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsEmitter writes each position as a JSON text message.
type wsEmitter struct {
	conn *websocket.Conn
}

func (e wsEmitter) Emit(_ context.Context, event domain.PositionEvent) error {
	_ = e.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return e.conn.WriteJSON(event)
}

// stream flies the path over a WebSocket: one PositionEvent per step, then a
// normal close.
func (h *PathHandler) stream(c *gin.Context) {
	seconds, ok := floatQuery(c, "duration", h.duration.Seconds())
	if !ok {
		return
	}
	duration := time.Duration(seconds * float64(time.Second))
	if duration <= 0 || duration > maxDuration {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration out of range"})
		return
	}

	path, err := h.paths.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed path_id=%s err=%v", path.ID, err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// The client sends nothing; a failed read means it went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	flightID := "ws-" + path.ID
	err = h.simulator.Run(ctx, flightID, path, duration, wsEmitter{conn: conn})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("ws stream stopped path_id=%s err=%v", path.ID, err)
		return
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "arrived"),
		time.Now().Add(writeWait))
}
