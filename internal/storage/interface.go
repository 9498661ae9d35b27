package storage

import (
	"context"

	"github.com/mcoot/dicegame-go/internal/model"
)

// Storage defines the interface for room persistence.
// Implementations must be safe for concurrent use and must not share
// memory with the rooms they are given or return.
type Storage interface {
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
}
