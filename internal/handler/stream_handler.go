package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/orazbekov/ratehub/internal/broker"
	"github.com/orazbekov/ratehub/pkg/logger"
)

const (
	writeWait  = 10 * time.Second // Time allowed to write a message to the peer
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // add origin check in production
	},
}

// StreamHandler pushes newly created reviews to websocket subscribers.
// One broker subscription fans out to all connected clients.
type StreamHandler struct {
	clients map[*websocket.Conn]chan broker.ReviewEvent
	mu      sync.RWMutex
}

func NewStreamHandler(events broker.ReviewEvents) (*StreamHandler, error) {
	h := &StreamHandler{
		clients: make(map[*websocket.Conn]chan broker.ReviewEvent),
	}

	feed, err := events.Subscribe()
	if err != nil {
		return nil, err
	}

	go h.fanOut(feed)

	return h, nil
}

func (h *StreamHandler) fanOut(feed <-chan broker.ReviewEvent) {
	for event := range feed {
		h.mu.RLock()
		for _, ch := range h.clients {
			select {
			case ch <- event:
			default:
				// Slow consumer; drop the event rather than block the feed
			}
		}
		h.mu.RUnlock()
	}
}

// Stream upgrades the connection and forwards review events until the
// client disconnects.
// GET /api/v1/reviews/stream
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn("Websocket upgrade failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		return
	}

	ch := make(chan broker.ReviewEvent, 16)

	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	logger.Log.Debug("Review feed subscriber connected",
		zap.String("ip", c.ClientIP()),
	)

	go h.writer(conn, ch)
	h.reader(conn)
}

// reader drains control frames and detects disconnects.
func (h *StreamHandler) reader(conn *websocket.Conn) {
	defer h.drop(conn)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) writer(conn *websocket.Conn, ch chan broker.ReviewEvent) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.drop(conn)
	}()

	for {
		select {
		case event, ok := <-ch:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *StreamHandler) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
	h.mu.Unlock()
	conn.Close()
}
