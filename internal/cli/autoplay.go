package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/dicegame-go/internal/api/request"
	"github.com/mcoot/dicegame-go/internal/api/response"
	"github.com/mcoot/dicegame-go/internal/dependencies/random"
	"github.com/mcoot/dicegame-go/internal/model"
	"github.com/mcoot/dicegame-go/internal/services/bot"
)

func newGamesAutoplayCmd(s *session) *cobra.Command {
	var strategyName string

	cmd := &cobra.Command{
		Use:   "autoplay <id>",
		Short: "Play your turns automatically until the game ends",
		Long: `Join the game's room over a websocket and take every turn for the
configured user with a bot strategy. Returns once the game is over.

Strategies: ` + strings.Join(bot.Names(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := s.requireUser()
			if err != nil {
				return err
			}
			strategy, err := bot.Lookup(strategyName, random.New())
			if err != nil {
				return err
			}
			return s.autoplay(cmd, args[0], username, strategy)
		},
	}

	cmd.Flags().StringVar(&strategyName, "strategy", bot.StrategyGreedy, "Bot strategy")

	return cmd
}

func (s *session) autoplay(cmd *cobra.Command, gameID, username string, strategy bot.Strategy) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := "/api/v1/ws?username=" + url.QueryEscape(username)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.client.streamURL(path, true), nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	join, _ := json.Marshal(map[string]string{"event": "joinRoom", "gameId": gameID})
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		return fmt.Errorf("failed to join %s: %w", gameID, err)
	}

	out := s.output(cmd)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read failed: %w", err)
		}

		var ev StreamEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			continue
		}
		if ev.Event == "error" {
			return fmt.Errorf("server error: %s", ev.Message)
		}

		// Every frame is only a hint that the game may have changed; act on a
		// fresh snapshot so repeated hints cannot double up actions
		game, done, err := s.takeTurn(ctx, gameID, username, strategy, out)
		if err != nil {
			return err
		}
		if done {
			out.Print(game)
			return nil
		}
	}
}

// takeTurn performs at most one action for username. done is set once the
// game is over.
func (s *session) takeTurn(
	ctx context.Context,
	gameID, username string,
	strategy bot.Strategy,
	out *Output,
) (response.Game, bool, error) {
	var game response.Game
	if err := s.client.Get(ctx, "/api/v1/games/"+url.PathEscape(gameID), &game); err != nil {
		return game, false, err
	}

	turn, ok := turnFor(game, username)
	if game.TurnState != nil && game.TurnState.GameOver {
		return game, true, nil
	}
	if !ok {
		return game, false, nil
	}

	action := strategy.Next(turn)
	req := request.GameActionRequest{
		GameID:      gameID,
		Username:    username,
		Action:      string(action.Kind),
		Category:    action.Category,
		DiceIndexes: action.DiceIndexes,
	}
	if err := s.client.Put(ctx, "/api/v1/games", req, &game); err != nil {
		return game, false, fmt.Errorf("%s failed: %w", action.Kind, err)
	}

	if !out.JSON() {
		out.PrintMessage(describeAction(username, action, game))
	}
	return game, game.TurnState != nil && game.TurnState.GameOver, nil
}

// turnFor extracts the acting player's view when it is username's turn
func turnFor(game response.Game, username string) (bot.Turn, bool) {
	ts := game.TurnState
	if ts == nil || ts.GameOver || ts.CurrentPlayer != username {
		return bot.Turn{}, false
	}

	turn := bot.Turn{
		RollsLeft:   ts.RollsLeft,
		TurnStarted: ts.TurnStarted,
	}
	copy(turn.Dice[:], ts.Dice)
	copy(turn.Held[:], ts.Held)
	for _, c := range model.Categories() {
		if ts.Scores[username][string(c)] == nil {
			turn.Open = append(turn.Open, c)
		}
	}
	return turn, true
}

func describeAction(username string, action model.Action, game response.Game) string {
	switch action.Kind {
	case model.ActionRollDice:
		return fmt.Sprintf("%s rolled %v", username, game.TurnState.Dice)
	case model.ActionHoldDice:
		return fmt.Sprintf("%s toggled hold on %v", username, action.DiceIndexes)
	case model.ActionScoreCategory:
		points := 0
		if v := game.TurnState.Scores[username][action.Category]; v != nil {
			points = *v
		}
		return fmt.Sprintf("%s scored %d in %s", username, points, action.Category)
	default:
		return fmt.Sprintf("%s: %s", username, action.Kind)
	}
}
