package model

import "time"

// RoomID uniquely identifies a room. Generated at creation and never reused.
type RoomID string

const (
	// MinPlayers is the number of players required before the host can start
	MinPlayers = 2
)

// Room represents one multiplayer game session
type Room struct {
	ID   RoomID
	Name string // Display label, derived from the host at creation
	Host string // Username of the creator, fixed for the room lifetime

	// Players in join order. Unique, always contains Host.
	Players []string

	// Started flips false -> true once and never reverts
	Started bool

	// Turn is nil until the room is started, then never nil again
	Turn *TurnState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomName returns the display name for a room hosted by the given user
func RoomName(host string) string {
	return host + "'s Game"
}

// Ready returns true if enough players have joined to start
func (r *Room) Ready() bool {
	return len(r.Players) >= MinPlayers
}

// HasPlayer returns true if the username has joined this room
func (r *Room) HasPlayer(username string) bool {
	return r.PlayerIndex(username) >= 0
}

// PlayerIndex returns the join-order index of a player, or -1
func (r *Room) PlayerIndex(username string) int {
	for i, p := range r.Players {
		if p == username {
			return i
		}
	}
	return -1
}

// CurrentPlayer returns the username whose turn it is, or "" when the
// room has not started or the game is over
func (r *Room) CurrentPlayer() string {
	if r.Turn == nil || r.Turn.GameOver || len(r.Players) == 0 {
		return ""
	}
	return r.Players[r.Turn.CurrentPlayerIdx]
}

// Clone returns a deep copy of the room
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	c.Players = make([]string, len(r.Players))
	copy(c.Players, r.Players)
	if r.Turn != nil {
		c.Turn = r.Turn.Clone()
	}
	return &c
}
