package bot

import (
	"github.com/mcoot/dicegame-go/internal/dependencies/random"
	"github.com/mcoot/dicegame-go/internal/model"
)

// RandomStrategy rolls a random number of times, then scores a random open
// category. It never holds dice.
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// Next returns the next action for the turn
func (s *RandomStrategy) Next(turn Turn) model.Action {
	if !turn.TurnStarted || len(turn.Open) == 0 {
		return roll()
	}
	if turn.RollsLeft > 0 && s.random.Intn(2) == 0 {
		return roll()
	}
	return score(turn.Open[s.random.Intn(len(turn.Open))])
}
