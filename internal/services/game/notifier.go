package game

import "github.com/mcoot/dicegame-go/internal/model"

// Notifier receives committed room snapshots for fan-out to clients.
// Implementations must not block and must not modify the rooms they are given.
type Notifier interface {
	// RoomCreated announces a new room to every connection
	RoomCreated(room *model.Room)
	// RoomUpdated pushes a room's new state to its subscribers
	RoomUpdated(room *model.Room)
	// LobbyChanged pushes a room's new state to every connection, so lobby
	// listings refresh as well as the room's own subscribers
	LobbyChanged(room *model.Room)
}

// NopNotifier discards all notifications
type NopNotifier struct{}

func (NopNotifier) RoomCreated(*model.Room)  {}
func (NopNotifier) RoomUpdated(*model.Room)  {}
func (NopNotifier) LobbyChanged(*model.Room) {}
