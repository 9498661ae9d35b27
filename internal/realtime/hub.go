package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/dicegame-go/internal/model"
	"github.com/mcoot/dicegame-go/internal/services/game"
)

// Hub fans committed room snapshots out to connected clients.
//
// All membership changes and deliveries run on the Run goroutine, so a
// room's subscribers receive frames in the order they were published.
// Delivery is best-effort: a client whose buffer is full misses the frame.
type Hub struct {
	clients map[*Client]struct{}
	rooms   map[model.RoomID]map[*Client]struct{}
	mu      sync.RWMutex
	logger  *slog.Logger

	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	broadcast   chan delivery
	done        chan struct{}
	closeOnce   sync.Once
}

type subscription struct {
	client *Client
	room   model.RoomID
}

// delivery targets one client, one room's subscribers, or everyone
type delivery struct {
	client *Client
	room   model.RoomID
	all    bool
	frame  Frame
}

// Ensure Hub can be handed to the game controller
var _ game.Notifier = (*Hub)(nil)

// NewHub creates a new Hub. Call Run to start it.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]struct{}),
		rooms:       make(map[model.RoomID]map[*Client]struct{}),
		logger:      logger.With(slog.String("component", "realtime")),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		broadcast:   make(chan delivery, 256),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's event loop and returns once Close is called
func (h *Hub) Run() {
	h.logger.Info("realtime hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client registered",
				slog.Uint64("client_id", client.id),
				slog.String("client", client.label),
				slog.String("transport", client.transport),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.removeLocked(client)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("client unregistered",
					slog.Uint64("client_id", client.id),
					slog.String("client", client.label),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case sub := <-h.subscribe:
			h.mu.Lock()
			if _, ok := h.clients[sub.client]; ok {
				members, ok := h.rooms[sub.room]
				if !ok {
					members = make(map[*Client]struct{})
					h.rooms[sub.room] = members
				}
				members[sub.client] = struct{}{}
				sub.client.rooms[sub.room] = struct{}{}
				h.mu.Unlock()
				h.deliver(sub.client, subscribedFrame(sub.room))
				h.logger.Debug("client subscribed",
					slog.Uint64("client_id", sub.client.id),
					slog.String("room_id", string(sub.room)))
			} else {
				h.mu.Unlock()
			}

		case sub := <-h.unsubscribe:
			h.mu.Lock()
			h.leaveLocked(sub.client, sub.room)
			h.mu.Unlock()

		case d := <-h.broadcast:
			h.mu.RLock()
			switch {
			case d.client != nil:
				if _, ok := h.clients[d.client]; ok {
					h.deliver(d.client, d.frame)
				}
			case d.all:
				h.deliverAll(h.clients, d)
			default:
				h.deliverAll(h.rooms[d.room], d)
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				h.removeLocked(client)
			}
			h.mu.Unlock()
			h.logger.Info("realtime hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// removeLocked drops a client from every index and closes its channel
func (h *Hub) removeLocked(client *Client) {
	for room := range client.rooms {
		h.leaveLocked(client, room)
	}
	delete(h.clients, client)
	close(client.send)
}

func (h *Hub) leaveLocked(client *Client, room model.RoomID) {
	delete(client.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) deliverAll(targets map[*Client]struct{}, d delivery) {
	sentCount := 0
	droppedCount := 0
	for client := range targets {
		if h.deliver(client, d.frame) {
			sentCount++
		} else {
			droppedCount++
		}
	}
	if droppedCount > 0 {
		h.logger.Warn("broadcast partial failure",
			slog.String("room_id", string(d.room)),
			slog.String("event", d.frame.Event),
			slog.Int("sent", sentCount),
			slog.Int("dropped", droppedCount))
	}
}

func (h *Hub) deliver(client *Client, frame Frame) bool {
	select {
	case client.send <- frame:
		return true
	default:
		h.logger.Warn("message dropped - client buffer full",
			slog.Uint64("client_id", client.id),
			slog.String("event", frame.Event))
		return false
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Subscribe adds a client to a room's fan-out group. The client receives a
// subscribed frame once the subscription is active.
func (h *Hub) Subscribe(client *Client, room model.RoomID) {
	select {
	case h.subscribe <- subscription{client: client, room: room}:
	case <-h.done:
	}
}

// Unsubscribe removes a client from a room's fan-out group
func (h *Hub) Unsubscribe(client *Client, room model.RoomID) {
	select {
	case h.unsubscribe <- subscription{client: client, room: room}:
	case <-h.done:
	}
}

// SendTo queues a frame for a single client
func (h *Hub) SendTo(client *Client, frame Frame) {
	h.enqueue(delivery{client: client, frame: frame})
}

// RoomCreated announces a new room to every client
func (h *Hub) RoomCreated(room *model.Room) {
	h.publish(room, true)
}

// RoomUpdated pushes a room's new state to its subscribers
func (h *Hub) RoomUpdated(room *model.Room) {
	h.publish(room, false)
}

// LobbyChanged pushes a room's new state to every client
func (h *Hub) LobbyChanged(room *model.Room) {
	h.publish(room, true)
}

func (h *Hub) publish(room *model.Room, all bool) {
	frame, err := gameUpdateFrame(room)
	if err != nil {
		h.logger.Error("failed to encode game update",
			slog.String("room_id", string(room.ID)),
			slog.String("error", err.Error()))
		return
	}
	h.enqueue(delivery{room: room.ID, all: all, frame: frame})
}

func (h *Hub) enqueue(d delivery) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- d:
	default:
		h.logger.Warn("broadcast dropped - hub buffer full",
			slog.String("room_id", string(d.room)),
			slog.String("event", d.frame.Event))
	}
}

// Close shuts down the hub, closing every client's channel
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SubscriberCount returns the number of clients subscribed to a room
func (h *Hub) SubscriberCount(room model.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
