package redis

import (
	"fmt"

	"github.com/mcoot/dicegame-go/internal/model"
)

// Key prefix for all dice game data
const keyPrefix = "dicegame"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomIndexKey returns the Redis key for the SET of all room IDs
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}
