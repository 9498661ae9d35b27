package bot_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dicegame-go/internal/dependencies/mocks"
	"github.com/mcoot/dicegame-go/internal/model"
	"github.com/mcoot/dicegame-go/internal/services/bot"
)

type StrategySuite struct {
	suite.Suite
	mockRandom *mocks.MockRandom
	random     *bot.RandomStrategy
	greedy     *bot.GreedyStrategy
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategySuite))
}

func (s *StrategySuite) SetupTest() {
	s.mockRandom = mocks.NewMockRandom()
	s.random = bot.NewRandomStrategy(s.mockRandom)
	s.greedy = bot.NewGreedyStrategy()
}

func rolled(dice [model.DiceCount]int, rollsLeft int) bot.Turn {
	return bot.Turn{
		Dice:        dice,
		RollsLeft:   rollsLeft,
		TurnStarted: true,
		Open:        model.Categories(),
	}
}

func (s *StrategySuite) TestLookup() {
	strategy, err := bot.Lookup("greedy", s.mockRandom)
	s.Require().NoError(err)
	s.IsType(&bot.GreedyStrategy{}, strategy)

	strategy, err = bot.Lookup("random", s.mockRandom)
	s.Require().NoError(err)
	s.IsType(&bot.RandomStrategy{}, strategy)

	_, err = bot.Lookup("smart", s.mockRandom)
	s.ErrorContains(err, "unknown strategy")
}

func (s *StrategySuite) TestOpenCategories() {
	card := model.NewScorecard()
	card.Scores[model.CategoryOnes] = 0
	card.Scores[model.CategoryFives] = 15

	s.Equal([]model.Category{
		model.CategoryTwos, model.CategoryThrees, model.CategoryFours, model.CategorySixes,
	}, bot.OpenCategories(card))
}

func (s *StrategySuite) TestGreedy_RollsFirst() {
	action := s.greedy.Next(bot.Turn{RollsLeft: model.MaxRolls, Open: model.Categories()})
	s.Equal(model.ActionRollDice, action.Kind)
}

func (s *StrategySuite) TestGreedy_HoldsBestFace() {
	// Three fours beat one six
	action := s.greedy.Next(rolled([model.DiceCount]int{4, 6, 4, 1, 4}, 2))
	s.Equal(model.ActionHoldDice, action.Kind)
	s.Equal([]int{0, 2, 4}, action.DiceIndexes)
}

func (s *StrategySuite) TestGreedy_RerollsOnceHeld() {
	turn := rolled([model.DiceCount]int{4, 6, 4, 1, 4}, 2)
	turn.Held = [model.DiceCount]bool{true, false, true, false, true}

	action := s.greedy.Next(turn)
	s.Equal(model.ActionRollDice, action.Kind)
}

func (s *StrategySuite) TestGreedy_ReleasesStaleHolds() {
	turn := rolled([model.DiceCount]int{5, 5, 5, 2, 1}, 1)
	turn.Held = [model.DiceCount]bool{false, false, false, true, false}

	action := s.greedy.Next(turn)
	s.Equal(model.ActionHoldDice, action.Kind)
	s.Equal([]int{0, 1, 2, 3}, action.DiceIndexes)
}

func (s *StrategySuite) TestGreedy_TiesGoToHigherFace() {
	action := s.greedy.Next(rolled([model.DiceCount]int{2, 2, 2, 3, 3}, 0))
	s.Equal(model.ActionScoreCategory, action.Kind)
	s.Equal("threes", action.Category)
}

func (s *StrategySuite) TestGreedy_ScoresWhenOutOfRolls() {
	action := s.greedy.Next(rolled([model.DiceCount]int{2, 2, 3, 1, 1}, 0))
	s.Equal(model.ActionScoreCategory, action.Kind)
	s.Equal("twos", action.Category)
}

func (s *StrategySuite) TestGreedy_ScoresFullHouseOfOneFace() {
	action := s.greedy.Next(rolled([model.DiceCount]int{3, 3, 3, 3, 3}, 2))
	s.Equal(model.ActionScoreCategory, action.Kind)
	s.Equal("threes", action.Category)
}

func (s *StrategySuite) TestGreedy_OnlyConsidersOpenCategories() {
	turn := rolled([model.DiceCount]int{6, 6, 6, 1, 2}, 0)
	turn.Open = []model.Category{model.CategoryOnes, model.CategoryTwos}

	action := s.greedy.Next(turn)
	s.Equal(model.ActionScoreCategory, action.Kind)
	s.Equal("twos", action.Category)
}

func (s *StrategySuite) TestRandom_RollsFirst() {
	action := s.random.Next(bot.Turn{RollsLeft: model.MaxRolls, Open: model.Categories()})
	s.Equal(model.ActionRollDice, action.Kind)
}

func (s *StrategySuite) TestRandom_RollsOrScores() {
	s.mockRandom.QueueIntn(0)
	action := s.random.Next(rolled([model.DiceCount]int{1, 2, 3, 4, 5}, 2))
	s.Equal(model.ActionRollDice, action.Kind)

	s.mockRandom.QueueIntn(1, 4)
	action = s.random.Next(rolled([model.DiceCount]int{1, 2, 3, 4, 5}, 2))
	s.Equal(model.ActionScoreCategory, action.Kind)
	s.Equal("fives", action.Category)
}

func (s *StrategySuite) TestRandom_ScoresWhenOutOfRolls() {
	s.mockRandom.QueueIntn(0)
	action := s.random.Next(rolled([model.DiceCount]int{1, 2, 3, 4, 5}, 0))
	s.Equal(model.ActionScoreCategory, action.Kind)
	s.Equal("ones", action.Category)
}
