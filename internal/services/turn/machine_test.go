package turn

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dicegame-go/internal/dependencies/mocks"
	"github.com/mcoot/dicegame-go/internal/model"
)

type MachineSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	machine *Machine
}

func TestMachineSuite(t *testing.T) {
	suite.Run(t, new(MachineSuite))
}

func (s *MachineSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.machine = New(s.random)
}

// Helper to create an unstarted room with the given players, first is host
func (s *MachineSuite) createRoom(players ...string) *model.Room {
	return &model.Room{
		ID:      "room-1",
		Name:    model.RoomName(players[0]),
		Host:    players[0],
		Players: append([]string{}, players...),
	}
}

// Helper to create a started room
func (s *MachineSuite) startedRoom(players ...string) *model.Room {
	room := s.createRoom(players...)
	s.Require().NoError(s.machine.Start(room, players[0]))
	return room
}

// Helper to roll specific faces for the current player
func (s *MachineSuite) roll(room *model.Room, faces ...int) {
	s.random.QueueDice(faces...)
	s.Require().NoError(s.machine.RollDice(room, room.CurrentPlayer()))
}

// assertInvariants checks the properties every room must satisfy
func (s *MachineSuite) assertInvariants(room *model.Room) {
	seen := make(map[string]bool)
	for _, p := range room.Players {
		s.False(seen[p], "duplicate player %s", p)
		seen[p] = true
	}
	s.True(seen[room.Host], "host must be a player")

	if room.Turn == nil {
		return
	}
	s.GreaterOrEqual(room.Turn.RollsLeft, 0)
	s.LessOrEqual(room.Turn.RollsLeft, model.MaxRolls)
	for i := range room.Turn.Held {
		if room.Turn.Held[i] {
			s.NotZero(room.Turn.Dice[i], "held die %d has not been rolled", i)
		}
		s.GreaterOrEqual(room.Turn.Dice[i], 0)
		s.LessOrEqual(room.Turn.Dice[i], model.DieFaces)
	}
}

// Join tests

func (s *MachineSuite) TestJoin() {
	room := s.createRoom("alice")
	s.False(room.Ready())

	err := s.machine.Join(room, "bob")
	s.Require().NoError(err)

	s.Equal([]string{"alice", "bob"}, room.Players)
	s.True(room.Ready())
	s.assertInvariants(room)
}

func (s *MachineSuite) TestJoinAlreadyInRoom() {
	room := s.createRoom("alice", "bob")

	err := s.machine.Join(room, "bob")
	s.ErrorIs(err, model.ErrAlreadyInRoom)
	s.ErrorIs(err, model.ErrStateConflict)
	s.Equal([]string{"alice", "bob"}, room.Players)
}

func (s *MachineSuite) TestJoinHostAgain() {
	room := s.createRoom("alice")

	err := s.machine.Join(room, "alice")
	s.ErrorIs(err, model.ErrAlreadyInRoom)
}

func (s *MachineSuite) TestJoinAfterStart() {
	room := s.startedRoom("alice", "bob")

	err := s.machine.Join(room, "carol")
	s.ErrorIs(err, model.ErrAlreadyStarted)
	s.Equal([]string{"alice", "bob"}, room.Players)
}

func (s *MachineSuite) TestJoinAfterStartAlreadyInRoomCheckedFirst() {
	room := s.startedRoom("alice", "bob")

	err := s.machine.Join(room, "bob")
	s.ErrorIs(err, model.ErrAlreadyInRoom)
}

// Start tests

func (s *MachineSuite) TestStart() {
	room := s.createRoom("alice", "bob")

	err := s.machine.Start(room, "alice")
	s.Require().NoError(err)

	s.True(room.Started)
	s.Require().NotNil(room.Turn)
	s.Equal("alice", room.CurrentPlayer())
	s.Equal(model.MaxRolls, room.Turn.RollsLeft)
	s.Equal([model.DiceCount]int{0, 0, 0, 0, 0}, room.Turn.Dice)
	s.Equal([model.DiceCount]bool{}, room.Turn.Held)
	s.False(room.Turn.TurnStarted)
	s.False(room.Turn.GameOver)
	s.Equal(1, room.Turn.Round)
	for _, p := range room.Players {
		s.Empty(room.Turn.Scores[p].Scores, "scorecard for %s should be blank", p)
	}
	s.assertInvariants(room)
}

func (s *MachineSuite) TestStartNotHost() {
	room := s.createRoom("alice", "bob")

	err := s.machine.Start(room, "bob")
	s.ErrorIs(err, model.ErrNotHost)
	s.ErrorIs(err, model.ErrAuthorization)
	s.False(room.Started)
	s.Nil(room.Turn)
}

func (s *MachineSuite) TestStartInsufficientPlayers() {
	room := s.createRoom("alice")

	err := s.machine.Start(room, "alice")
	s.ErrorIs(err, model.ErrInsufficientPlayers)
	s.False(room.Started)
}

func (s *MachineSuite) TestStartTwice() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 2, 3, 4, 5)
	before := room.Clone()

	err := s.machine.Start(room, "alice")
	s.ErrorIs(err, model.ErrAlreadyStarted)
	s.Equal(before, room, "second start must not reinitialize turn state")
}

func (s *MachineSuite) TestStartGuardOrder() {
	room := s.startedRoom("alice", "bob")

	// Already started is reported before the host check
	err := s.machine.Start(room, "bob")
	s.ErrorIs(err, model.ErrAlreadyStarted)

	// Host check is reported before the player count check
	solo := s.createRoom("alice")
	err = s.machine.Start(solo, "mallory")
	s.ErrorIs(err, model.ErrNotHost)
}

// RollDice tests

func (s *MachineSuite) TestRollDice() {
	room := s.startedRoom("alice", "bob")
	s.random.QueueDice(3, 1, 4, 1, 5)

	err := s.machine.RollDice(room, "alice")
	s.Require().NoError(err)

	s.Equal([model.DiceCount]int{3, 1, 4, 1, 5}, room.Turn.Dice)
	s.Equal(2, room.Turn.RollsLeft)
	s.True(room.Turn.TurnStarted)
	s.assertInvariants(room)
}

func (s *MachineSuite) TestRollDrawsDieFaces() {
	room := s.startedRoom("alice", "bob")
	machine := New(faceCheckingRandom{s: s})

	for i := 0; i < model.MaxRolls; i++ {
		s.Require().NoError(machine.RollDice(room, "alice"))
		for _, d := range room.Turn.Dice {
			s.GreaterOrEqual(d, 1)
			s.LessOrEqual(d, model.DieFaces)
		}
	}
}

func (s *MachineSuite) TestRollDiceNotYourTurn() {
	room := s.startedRoom("alice", "bob")

	err := s.machine.RollDice(room, "bob")
	s.ErrorIs(err, model.ErrNotYourTurn)
	s.ErrorIs(err, model.ErrAuthorization)
	s.Equal(model.MaxRolls, room.Turn.RollsLeft)
}

func (s *MachineSuite) TestRollDiceNotStarted() {
	room := s.createRoom("alice", "bob")

	err := s.machine.RollDice(room, "alice")
	s.ErrorIs(err, model.ErrNotStarted)
}

func (s *MachineSuite) TestRollDiceNoRollsLeft() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 1, 1, 1, 1)
	s.roll(room, 2, 2, 2, 2, 2)
	s.roll(room, 3, 3, 3, 3, 3)
	s.Equal(0, room.Turn.RollsLeft)

	s.random.QueueDice(6, 6, 6, 6, 6)
	err := s.machine.RollDice(room, "alice")
	s.ErrorIs(err, model.ErrNoRollsLeft)
	s.Equal(0, room.Turn.RollsLeft)
	s.Equal([model.DiceCount]int{3, 3, 3, 3, 3}, room.Turn.Dice)
	s.assertInvariants(room)
}

func (s *MachineSuite) TestRollKeepsHeldDice() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 2, 4, 5, 6)

	s.Require().NoError(s.machine.HoldDice(room, "alice", []int{2}))
	s.Equal([model.DiceCount]bool{false, false, true, false, false}, room.Turn.Held)

	s.random.QueueDice(6, 6, 6, 6)
	s.Require().NoError(s.machine.RollDice(room, "alice"))

	s.Equal([model.DiceCount]int{6, 6, 4, 6, 6}, room.Turn.Dice)
	s.Equal(1, room.Turn.RollsLeft)
	s.True(room.Turn.Held[2], "holds persist across rolls")
	s.assertInvariants(room)
}

// HoldDice tests

func (s *MachineSuite) TestHoldBeforeRoll() {
	room := s.startedRoom("alice", "bob")

	err := s.machine.HoldDice(room, "alice", []int{0})
	s.ErrorIs(err, model.ErrMustRollFirst)
	s.Equal([model.DiceCount]bool{}, room.Turn.Held)
}

func (s *MachineSuite) TestHoldNotYourTurn() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 2, 3, 4, 5)

	err := s.machine.HoldDice(room, "bob", []int{0})
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *MachineSuite) TestHoldInvalidIndexAppliesNothing() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 2, 3, 4, 5)

	for _, indexes := range [][]int{{5}, {-1}, {0, 1, 7}} {
		err := s.machine.HoldDice(room, "alice", indexes)
		s.ErrorIs(err, model.ErrInvalidDiceIndex)
		s.ErrorIs(err, model.ErrValidation)
	}
	s.Equal([model.DiceCount]bool{}, room.Turn.Held)
}

func (s *MachineSuite) TestHoldIsToggle() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 2, 3, 4, 5)

	s.Require().NoError(s.machine.HoldDice(room, "alice", []int{1, 3}))
	s.Equal([model.DiceCount]bool{false, true, false, true, false}, room.Turn.Held)

	s.Require().NoError(s.machine.HoldDice(room, "alice", []int{1}))
	s.Equal([model.DiceCount]bool{false, false, false, true, false}, room.Turn.Held)
}

func (s *MachineSuite) TestHoldTwiceRestoresOriginal() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 2, 3, 4, 5)
	s.Require().NoError(s.machine.HoldDice(room, "alice", []int{4}))
	original := room.Turn.Held

	for i := 0; i < model.DiceCount; i++ {
		s.Require().NoError(s.machine.HoldDice(room, "alice", []int{i}))
		s.Require().NoError(s.machine.HoldDice(room, "alice", []int{i}))
		s.Equal(original, room.Turn.Held, "index %d", i)
	}
}

func (s *MachineSuite) TestHoldEmptyListIsNoop() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 2, 3, 4, 5)

	s.Require().NoError(s.machine.HoldDice(room, "alice", []int{}))
	s.Equal([model.DiceCount]bool{}, room.Turn.Held)
}

func (s *MachineSuite) TestHoldMissingIndexes() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 2, 3, 4, 5)

	err := s.machine.HoldDice(room, "alice", nil)
	s.ErrorIs(err, model.ErrInvalidDiceIndex)
}

func (s *MachineSuite) TestHoldSkipsUnrolledDie() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 2, 3, 4, 5)
	room.Turn.Dice[3] = 0

	s.Require().NoError(s.machine.HoldDice(room, "alice", []int{2, 3}))
	s.Equal([model.DiceCount]bool{false, false, true, false, false}, room.Turn.Held)
	s.assertInvariants(room)
}

func (s *MachineSuite) TestHoldAfterNoRollsLeft() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 1, 1, 1, 1)
	s.roll(room, 1, 1, 1, 1, 1)
	s.roll(room, 1, 1, 1, 1, 1)

	s.Require().NoError(s.machine.HoldDice(room, "alice", []int{0}))
	s.True(room.Turn.Held[0])
}

// ScoreCategory tests

func (s *MachineSuite) TestScoreCategory() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 4, 4, 1, 4, 2)

	err := s.machine.ScoreCategory(room, "alice", "fours")
	s.Require().NoError(err)

	card := room.Turn.Scores["alice"]
	s.Equal(12, card.Scores[model.CategoryFours])
	s.Equal(12, card.Total())
	s.Equal(model.MaxRolls, room.Turn.RollsLeft)
	s.Equal([model.DiceCount]int{}, room.Turn.Dice)
	s.Equal([model.DiceCount]bool{}, room.Turn.Held)
	s.False(room.Turn.TurnStarted)
	s.Equal("bob", room.CurrentPlayer())
	s.False(room.Turn.GameOver)
	s.assertInvariants(room)
}

func (s *MachineSuite) TestScoreZeroIsRecorded() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 1, 1, 1, 1)

	s.Require().NoError(s.machine.ScoreCategory(room, "alice", "sixes"))

	s.True(room.Turn.Scores["alice"].IsScored(model.CategorySixes))
	s.Equal(0, room.Turn.Scores["alice"].Scores[model.CategorySixes])
}

func (s *MachineSuite) TestScoreWithoutRolling() {
	room := s.startedRoom("alice", "bob")

	s.Require().NoError(s.machine.ScoreCategory(room, "alice", "ones"))

	s.Equal(0, room.Turn.Scores["alice"].Scores[model.CategoryOnes])
	s.Equal("bob", room.CurrentPlayer())
}

func (s *MachineSuite) TestScoreAlreadyScored() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 2, 2, 2, 2, 2)
	s.Require().NoError(s.machine.ScoreCategory(room, "alice", "twos"))
	s.roll(room, 1, 1, 1, 1, 1)
	s.Require().NoError(s.machine.ScoreCategory(room, "bob", "ones"))

	s.roll(room, 2, 2, 3, 3, 3)
	before := room.Clone()
	err := s.machine.ScoreCategory(room, "alice", "twos")
	s.ErrorIs(err, model.ErrAlreadyScored)
	s.ErrorIs(err, model.ErrStateConflict)
	s.Equal(before, room)
	s.Equal(10, room.Turn.Scores["alice"].Scores[model.CategoryTwos])
}

func (s *MachineSuite) TestScoreInvalidCategory() {
	room := s.startedRoom("alice", "bob")
	s.roll(room, 1, 2, 3, 4, 5)

	err := s.machine.ScoreCategory(room, "alice", "yahtzee")
	s.ErrorIs(err, model.ErrInvalidCategory)

	err = s.machine.ScoreCategory(room, "alice", " ")
	s.ErrorIs(err, model.ErrCategoryRequired)

	s.Equal("alice", room.CurrentPlayer())
	s.Equal(2, room.Turn.RollsLeft)
}

func (s *MachineSuite) TestScoreNotYourTurnBeforeCategoryCheck() {
	room := s.startedRoom("alice", "bob")

	err := s.machine.ScoreCategory(room, "bob", "yahtzee")
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *MachineSuite) TestTurnOrderWraps() {
	room := s.startedRoom("alice", "bob", "carol")
	s.Equal(1, room.Turn.Round)

	for i, expected := range []string{"bob", "carol", "alice", "bob"} {
		old := room.Turn.CurrentPlayerIdx
		s.roll(room, 1, 2, 3, 4, 5)
		s.Require().NoError(s.machine.ScoreCategory(room, room.CurrentPlayer(), string(model.Categories()[i/3])))
		s.Equal((old+1)%len(room.Players), room.Turn.CurrentPlayerIdx)
		s.Equal(expected, room.CurrentPlayer())
	}
	s.Equal(2, room.Turn.Round)
}

// Full game

func (s *MachineSuite) playToEnd(room *model.Room) {
	for _, c := range model.Categories() {
		for range room.Players {
			s.roll(room, 6, 6, 5, 5, 1)
			s.Require().NoError(s.machine.ScoreCategory(room, room.CurrentPlayer(), string(c)))
			s.assertInvariants(room)
		}
	}
}

func (s *MachineSuite) TestGameOver() {
	room := s.startedRoom("alice", "bob")

	s.playToEnd(room)

	s.True(room.Turn.GameOver)
	s.True(room.Started)
	s.Equal("", room.CurrentPlayer())
	s.Equal(6, room.Turn.Round)
	for _, p := range room.Players {
		s.True(room.Turn.Scores[p].Complete())
		s.Equal(1+10+12, room.Turn.Scores[p].Total())
	}
}

func (s *MachineSuite) TestActionsRejectedAfterGameOver() {
	room := s.startedRoom("alice", "bob")
	s.playToEnd(room)
	before := room.Clone()

	s.ErrorIs(s.machine.RollDice(room, "alice"), model.ErrGameOver)
	s.ErrorIs(s.machine.RollDice(room, "bob"), model.ErrGameOver)
	s.ErrorIs(s.machine.ScoreCategory(room, "alice", "ones"), model.ErrGameOver)
	s.ErrorIs(s.machine.HoldDice(room, "alice", []int{0}), model.ErrGameOver)
	s.ErrorIs(s.machine.Start(room, "alice"), model.ErrAlreadyStarted)
	s.ErrorIs(s.machine.Join(room, "carol"), model.ErrAlreadyStarted)

	err := s.machine.RollDice(room, "alice")
	s.ErrorIs(err, model.ErrStateConflict)
	s.Equal(before, room)
}

func (s *MachineSuite) TestGameNotOverUntilLastCategory() {
	room := s.startedRoom("alice", "bob")
	categories := model.Categories()

	for i, c := range categories {
		for j := range room.Players {
			s.False(room.Turn.GameOver, "category %d player %d", i, j)
			s.roll(room, 1, 1, 1, 1, 1)
			s.Require().NoError(s.machine.ScoreCategory(room, room.CurrentPlayer(), string(c)))
		}
	}
	s.True(room.Turn.GameOver)
}

// Apply tests

func (s *MachineSuite) TestApplyRoutesActions() {
	room := s.createRoom("alice")

	s.Require().NoError(s.machine.Apply(room, "bob", model.Action{Kind: model.ActionJoin}))
	s.Require().NoError(s.machine.Apply(room, "alice", model.Action{Kind: model.ActionStart}))

	s.random.QueueDice(4, 4, 1, 4, 2)
	s.Require().NoError(s.machine.Apply(room, "alice", model.Action{Kind: model.ActionRollDice}))
	s.Require().NoError(s.machine.Apply(room, "alice", model.Action{Kind: model.ActionHoldDice, DiceIndexes: []int{0}}))
	s.True(room.Turn.Held[0])
	s.Require().NoError(s.machine.Apply(room, "alice", model.Action{Kind: model.ActionScoreCategory, Category: "fours"}))

	s.Equal(12, room.Turn.Scores["alice"].Total())
	s.Equal("bob", room.CurrentPlayer())
}

func (s *MachineSuite) TestApplyUnknownAction() {
	room := s.createRoom("alice")

	err := s.machine.Apply(room, "alice", model.Action{Kind: "cheat"})
	s.ErrorIs(err, model.ErrInvalidAction)
}

// faceCheckingRandom asserts callers only ever ask for a die face
// and always returns the highest one
type faceCheckingRandom struct {
	s *MachineSuite
}

func (r faceCheckingRandom) Intn(n int) int {
	r.s.Equal(model.DieFaces, n)
	return n - 1
}

func (r faceCheckingRandom) ID() string {
	return "unused"
}
