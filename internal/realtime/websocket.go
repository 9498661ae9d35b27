package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/mcoot/dicegame-go/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// Inbound message budget per connection
	messagesPerSecond = 5
	messageBurst      = 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// ServeWS upgrades the request to a websocket and pumps frames until either
// side goes away
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	label := strings.TrimSpace(r.URL.Query().Get("username"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient("websocket", label)
	h.Register(client)

	go h.writePump(conn, client)
	h.readPump(conn, client)
}

// readPump handles client messages. It owns unregistering the client.
func (h *Hub) readPump(conn *websocket.Conn, client *Client) {
	defer func() {
		h.Unregister(client)
		_ = conn.Close()
	}()

	limiter := rate.NewLimiter(messagesPerSecond, messageBurst)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error",
					slog.Uint64("client_id", client.id),
					slog.String("error", err.Error()))
			}
			return
		}

		if !limiter.Allow() {
			h.SendTo(client, errorFrame("rate limit exceeded"))
			continue
		}

		h.handleMessage(client, data)
	}
}

func (h *Hub) handleMessage(client *Client, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.SendTo(client, errorFrame("invalid message"))
		return
	}

	room := model.RoomID(strings.TrimSpace(env.GameID))
	switch env.Event {
	case EventJoinRoom:
		if room == "" {
			h.SendTo(client, errorFrame(model.ErrRoomIDRequired.Error()))
			return
		}
		h.Subscribe(client, room)
	case EventLeaveRoom:
		if room == "" {
			h.SendTo(client, errorFrame(model.ErrRoomIDRequired.Error()))
			return
		}
		h.Unsubscribe(client, room)
	default:
		h.SendTo(client, errorFrame("unknown event"))
	}
}

// writePump writes queued frames and keeps the connection alive with pings
func (h *Hub) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame.Payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
