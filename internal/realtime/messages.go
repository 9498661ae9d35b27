package realtime

import (
	"encoding/json"

	"github.com/mcoot/dicegame-go/internal/api/response"
	"github.com/mcoot/dicegame-go/internal/model"
)

// Event names carried in the envelope
const (
	EventConnected  = "connected"
	EventGameUpdate = "gameUpdate"
	EventSubscribed = "subscribed"
	EventError      = "error"

	// Client to server
	EventJoinRoom  = "joinRoom"
	EventLeaveRoom = "leaveRoom"
)

// UpdateTypeUpdate is the only gameUpdate type currently sent
const UpdateTypeUpdate = "update"

// Envelope is the JSON frame exchanged in both directions
type Envelope struct {
	Event   string `json:"event"`
	GameID  string `json:"gameId,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// GameUpdate is the data of a gameUpdate event
type GameUpdate struct {
	Type string        `json:"type"`
	Game response.Game `json:"game"`
}

// Frame is an encoded envelope ready for any transport
type Frame struct {
	Event   string
	Payload []byte
}

func encode(env Envelope) (Frame, error) {
	payload, err := json.Marshal(env)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Event: env.Event, Payload: payload}, nil
}

func gameUpdateFrame(room *model.Room) (Frame, error) {
	return encode(Envelope{
		Event: EventGameUpdate,
		Data: GameUpdate{
			Type: UpdateTypeUpdate,
			Game: response.GameFromModel(room),
		},
	})
}

func subscribedFrame(id model.RoomID) Frame {
	f, _ := encode(Envelope{Event: EventSubscribed, GameID: string(id)})
	return f
}

func errorFrame(message string) Frame {
	f, _ := encode(Envelope{Event: EventError, Message: message})
	return f
}
