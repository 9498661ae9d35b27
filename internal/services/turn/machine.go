package turn

import (
	"github.com/mcoot/dicegame-go/internal/dependencies/random"
	"github.com/mcoot/dicegame-go/internal/model"
	"github.com/mcoot/dicegame-go/internal/services/scoring"
)

// Machine enforces the room phase and turn order rules.
//
// Every transition checks all of its guards before writing any field, so a
// rejected action leaves the room exactly as it was. Callers are responsible
// for serializing access to a room.
type Machine struct {
	random random.Random
}

// New creates a new Machine drawing dice from the given source
func New(random random.Random) *Machine {
	return &Machine{random: random}
}

// Apply routes an action to the matching transition
func (m *Machine) Apply(room *model.Room, username string, action model.Action) error {
	switch action.Kind {
	case model.ActionJoin:
		return m.Join(room, username)
	case model.ActionStart:
		return m.Start(room, username)
	case model.ActionRollDice:
		return m.RollDice(room, username)
	case model.ActionHoldDice:
		return m.HoldDice(room, username, action.DiceIndexes)
	case model.ActionScoreCategory:
		return m.ScoreCategory(room, username, action.Category)
	default:
		return model.ErrInvalidAction
	}
}

// Join adds a player to a room that has not started
func (m *Machine) Join(room *model.Room, username string) error {
	if room.HasPlayer(username) {
		return model.ErrAlreadyInRoom
	}
	if room.Started {
		return model.ErrAlreadyStarted
	}

	room.Players = append(room.Players, username)
	return nil
}

// Start begins the game. Only the host may start, and only once enough
// players have joined.
func (m *Machine) Start(room *model.Room, username string) error {
	if room.Started {
		return model.ErrAlreadyStarted
	}
	if username != room.Host {
		return model.ErrNotHost
	}
	if !room.Ready() {
		return model.ErrInsufficientPlayers
	}

	room.Started = true
	room.Turn = model.NewTurnState(room.Players)
	return nil
}

// checkActing verifies the game is in progress and it is username's turn
func checkActing(room *model.Room, username string) error {
	if !room.Started || room.Turn == nil {
		return model.ErrNotStarted
	}
	if room.Turn.GameOver {
		return model.ErrGameOver
	}
	if room.CurrentPlayer() != username {
		return model.ErrNotYourTurn
	}
	return nil
}

// RollDice rerolls every die that is not held
func (m *Machine) RollDice(room *model.Room, username string) error {
	if err := checkActing(room, username); err != nil {
		return err
	}
	ts := room.Turn
	if ts.RollsLeft <= 0 {
		return model.ErrNoRollsLeft
	}

	for i := range ts.Dice {
		if !ts.Held[i] {
			ts.Dice[i] = m.random.Intn(model.DieFaces) + 1
		}
	}
	ts.RollsLeft--
	ts.TurnStarted = true
	return nil
}

// HoldDice toggles the held flag of each listed die. An index listed twice
// is toggled twice. Dice that have not been rolled are skipped. A nil list
// means the client sent no indexes at all and is rejected.
func (m *Machine) HoldDice(room *model.Room, username string, indexes []int) error {
	if err := checkActing(room, username); err != nil {
		return err
	}
	ts := room.Turn
	if !ts.TurnStarted {
		return model.ErrMustRollFirst
	}
	if indexes == nil {
		return model.ErrInvalidDiceIndex
	}
	for _, idx := range indexes {
		if idx < 0 || idx >= model.DiceCount {
			return model.ErrInvalidDiceIndex
		}
	}

	for _, idx := range indexes {
		if ts.Dice[idx] == 0 {
			continue
		}
		ts.Held[idx] = !ts.Held[idx]
	}
	return nil
}

// ScoreCategory writes the current dice into one of the player's open
// categories, then passes the turn to the next player
func (m *Machine) ScoreCategory(room *model.Room, username string, categoryName string) error {
	if err := checkActing(room, username); err != nil {
		return err
	}
	category, err := model.ParseCategory(categoryName)
	if err != nil {
		return err
	}
	ts := room.Turn
	card := ts.Scores[username]
	if card.Scores == nil {
		card = model.NewScorecard()
		ts.Scores[username] = card
	}
	if card.IsScored(category) {
		return model.ErrAlreadyScored
	}

	card.Scores[category] = scoring.Score(category, ts.Dice)

	ts.ResetTurn()
	ts.CurrentPlayerIdx = (ts.CurrentPlayerIdx + 1) % len(room.Players)
	ts.GameOver = ts.AllScored(room.Players)
	if ts.CurrentPlayerIdx == 0 && !ts.GameOver {
		ts.Round++
	}
	return nil
}
