package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mcoot/dicegame-go/internal/model"
	"github.com/mcoot/dicegame-go/internal/services/scoring"
)

// Game is the room snapshot sent to clients over every transport
type Game struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Host      string     `json:"host"`
	Players   []string   `json:"players"`
	Ready     bool       `json:"ready"`
	Started   bool       `json:"started"`
	TurnState *TurnState `json:"turnState"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// TurnState is the in-progress game data of a started room
type TurnState struct {
	// Scores maps username to category to score. Unscored categories are
	// null; the "total" entry is always present.
	Scores             map[string]map[string]*int `json:"scores"`
	Dice               []int                      `json:"dice"`
	Held               []bool                     `json:"held"`
	RollsLeft          int                        `json:"rollsLeft"`
	CurrentPlayer      string                     `json:"currentPlayer"` // empty once the game is over
	CurrentPlayerIndex int                        `json:"currentPlayerIndex"`
	TurnStarted        bool                       `json:"turnStarted"`
	GameOver           bool                       `json:"gameOver"`
	Round              int                        `json:"round"`
	Winners            []string                   `json:"winners,omitempty"`
}

// TotalKey is the scorecard entry holding a player's total
const TotalKey = "total"

// GameFromModel converts a model.Room to a response Game
func GameFromModel(room *model.Room) Game {
	players := room.Players
	if players == nil {
		players = []string{}
	}
	return Game{
		ID:        string(room.ID),
		Name:      room.Name,
		Host:      room.Host,
		Players:   players,
		Ready:     room.Ready(),
		Started:   room.Started,
		TurnState: turnStateFromModel(room),
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}

// GamesFromModel converts a slice of rooms
func GamesFromModel(rooms []*model.Room) []Game {
	games := make([]Game, len(rooms))
	for i, room := range rooms {
		games[i] = GameFromModel(room)
	}
	return games
}

func turnStateFromModel(room *model.Room) *TurnState {
	ts := room.Turn
	if ts == nil {
		return nil
	}

	scores := make(map[string]map[string]*int, len(room.Players))
	for _, p := range room.Players {
		card := ts.Scores[p]
		entry := make(map[string]*int, len(model.Categories())+1)
		for _, c := range model.Categories() {
			if v, ok := card.Scores[c]; ok {
				entry[string(c)] = &v
			} else {
				entry[string(c)] = nil
			}
		}
		total := card.Total()
		entry[TotalKey] = &total
		scores[p] = entry
	}

	return &TurnState{
		Scores:             scores,
		Dice:               append([]int(nil), ts.Dice[:]...),
		Held:               append([]bool(nil), ts.Held[:]...),
		RollsLeft:          ts.RollsLeft,
		CurrentPlayer:      room.CurrentPlayer(),
		CurrentPlayerIndex: ts.CurrentPlayerIdx,
		TurnStarted:        ts.TurnStarted,
		GameOver:           ts.GameOver,
		Round:              ts.Round,
		Winners:            scoring.Winners(room),
	}
}

// AuthResponse is the response for the username check
type AuthResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

// RollResponse is the response for a single die roll
type RollResponse struct {
	Result int `json:"result"`
}

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status string `json:"status"`
	Rooms  int    `json:"rooms"`
}

// JSON writes data as a JSON response with the given status
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
