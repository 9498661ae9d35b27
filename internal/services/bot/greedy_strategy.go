package bot

import (
	"github.com/mcoot/dicegame-go/internal/model"
	"github.com/mcoot/dicegame-go/internal/services/scoring"
)

// GreedyStrategy chases whichever open category the current dice score best
// in, holding the matching dice and rerolling the rest
type GreedyStrategy struct{}

// NewGreedyStrategy creates a new GreedyStrategy
func NewGreedyStrategy() *GreedyStrategy {
	return &GreedyStrategy{}
}

// Next returns the next action for the turn
func (s *GreedyStrategy) Next(turn Turn) model.Action {
	if !turn.TurnStarted {
		return roll()
	}
	if len(turn.Open) == 0 {
		return roll()
	}

	target := bestCategory(turn)
	face := faceOf(target)

	if turn.RollsLeft == 0 || scoring.Score(target, turn.Dice) == face*model.DiceCount {
		return score(target)
	}

	// Hold exactly the dice showing the target face
	var toggle []int
	for i, d := range turn.Dice {
		if (d == face) != turn.Held[i] {
			toggle = append(toggle, i)
		}
	}
	if len(toggle) > 0 {
		return model.Action{Kind: model.ActionHoldDice, DiceIndexes: toggle}
	}
	return roll()
}

// bestCategory picks the open category worth the most right now; ties go to
// the higher face
func bestCategory(turn Turn) model.Category {
	best := turn.Open[0]
	bestScore := -1
	for _, c := range turn.Open {
		if v := scoring.Score(c, turn.Dice); v >= bestScore {
			best, bestScore = c, v
		}
	}
	return best
}

func faceOf(c model.Category) int {
	for i, cat := range model.Categories() {
		if cat == c {
			return i + 1
		}
	}
	return 0
}
