// Package bot decides turn actions for automated players.
package bot

import (
	"fmt"
	"sort"

	"github.com/mcoot/dicegame-go/internal/dependencies/random"
	"github.com/mcoot/dicegame-go/internal/model"
)

// Turn is what a strategy can see of the acting player's turn
type Turn struct {
	Dice        [model.DiceCount]int
	Held        [model.DiceCount]bool
	RollsLeft   int
	TurnStarted bool

	// Open lists the player's unscored categories in display order
	Open []model.Category
}

// Strategy defines how a bot chooses its next action.
// Next is only called while it is the bot's turn and the game is not over.
type Strategy interface {
	Next(turn Turn) model.Action
}

// Strategy names accepted by Lookup
const (
	StrategyGreedy = "greedy"
	StrategyRandom = "random"
)

// Names returns the available strategy names, sorted
func Names() []string {
	names := []string{StrategyGreedy, StrategyRandom}
	sort.Strings(names)
	return names
}

// Lookup returns the named strategy
func Lookup(name string, rnd random.Random) (Strategy, error) {
	switch name {
	case StrategyGreedy:
		return NewGreedyStrategy(), nil
	case StrategyRandom:
		return NewRandomStrategy(rnd), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (available: %v)", name, Names())
	}
}

// OpenCategories returns the categories not yet scored on a card
func OpenCategories(card model.Scorecard) []model.Category {
	var open []model.Category
	for _, c := range model.Categories() {
		if !card.IsScored(c) {
			open = append(open, c)
		}
	}
	return open
}

func roll() model.Action {
	return model.Action{Kind: model.ActionRollDice}
}

func score(c model.Category) model.Action {
	return model.Action{Kind: model.ActionScoreCategory, Category: string(c)}
}
