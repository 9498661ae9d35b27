package model

import "strings"

const (
	// DiceCount is the number of dice in play
	DiceCount = 5
	// DieFaces is the number of faces on each die
	DieFaces = 6
	// MaxRolls is the number of rolls a player gets per turn
	MaxRolls = 3
)

// Category identifies a scoring category
type Category string

const (
	CategoryOnes   Category = "ones"
	CategoryTwos   Category = "twos"
	CategoryThrees Category = "threes"
	CategoryFours  Category = "fours"
	CategoryFives  Category = "fives"
	CategorySixes  Category = "sixes"
)

// Categories returns the fixed set of scoring categories in display order
func Categories() []Category {
	return []Category{
		CategoryOnes,
		CategoryTwos,
		CategoryThrees,
		CategoryFours,
		CategoryFives,
		CategorySixes,
	}
}

// ParseCategory validates a category name supplied by a client
func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrCategoryRequired
	}
	for _, c := range Categories() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// Scorecard is one player's per-category record.
// A category missing from Scores is unscored.
type Scorecard struct {
	Scores map[Category]int
}

// NewScorecard returns a scorecard with every category unscored
func NewScorecard() Scorecard {
	return Scorecard{Scores: make(map[Category]int)}
}

// IsScored returns true if the category has been written
func (s Scorecard) IsScored(c Category) bool {
	_, ok := s.Scores[c]
	return ok
}

// Total is the sum of all scored categories
func (s Scorecard) Total() int {
	total := 0
	for _, v := range s.Scores {
		total += v
	}
	return total
}

// Complete returns true once every category is scored
func (s Scorecard) Complete() bool {
	for _, c := range Categories() {
		if !s.IsScored(c) {
			return false
		}
	}
	return true
}

// TurnState is the game-in-progress data for a started room
type TurnState struct {
	Scores map[string]Scorecard

	// Dice values in [0, DieFaces]; 0 means not rolled this turn
	Dice [DiceCount]int
	// Held is positionally aligned with Dice
	Held [DiceCount]bool

	RollsLeft        int
	CurrentPlayerIdx int
	TurnStarted      bool // Current player has rolled at least once this turn
	GameOver         bool

	// Round starts at 1 and advances when play wraps back to the first player
	Round int
}

// NewTurnState returns the initial turn state for the given players
func NewTurnState(players []string) *TurnState {
	scores := make(map[string]Scorecard, len(players))
	for _, p := range players {
		scores[p] = NewScorecard()
	}
	return &TurnState{
		Scores:           scores,
		RollsLeft:        MaxRolls,
		CurrentPlayerIdx: 0,
		Round:            1,
	}
}

// ResetTurn clears the dice for the next player's turn
func (t *TurnState) ResetTurn() {
	t.Dice = [DiceCount]int{}
	t.Held = [DiceCount]bool{}
	t.RollsLeft = MaxRolls
	t.TurnStarted = false
}

// AllScored returns true if every player has scored every category
func (t *TurnState) AllScored(players []string) bool {
	for _, p := range players {
		if !t.Scores[p].Complete() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the turn state
func (t *TurnState) Clone() *TurnState {
	c := *t
	c.Scores = make(map[string]Scorecard, len(t.Scores))
	for player, card := range t.Scores {
		scores := make(map[Category]int, len(card.Scores))
		for cat, v := range card.Scores {
			scores[cat] = v
		}
		c.Scores[player] = Scorecard{Scores: scores}
	}
	return &c
}
