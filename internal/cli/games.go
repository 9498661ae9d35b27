package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/dicegame-go/internal/api/request"
	"github.com/mcoot/dicegame-go/internal/api/response"
	"github.com/mcoot/dicegame-go/internal/model"
)

func newGamesCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "games",
		Aliases: []string{"game"},
		Short:   "Game commands",
	}

	cmd.AddCommand(newGamesListCmd(s))
	cmd.AddCommand(newGamesGetCmd(s))
	cmd.AddCommand(newGamesCreateCmd(s))
	cmd.AddCommand(newGameActionCmd(s, "join <id>", "Join a game that has not started", model.ActionJoin, cobra.ExactArgs(1)))
	cmd.AddCommand(newGameActionCmd(s, "start <id>", "Start a game (host only)", model.ActionStart, cobra.ExactArgs(1)))
	cmd.AddCommand(newGameActionCmd(s, "roll <id>", "Roll every die that is not held", model.ActionRollDice, cobra.ExactArgs(1)))
	cmd.AddCommand(newGameActionCmd(s, "hold <id> <index>...", "Toggle hold on dice by position (0-4)", model.ActionHoldDice, cobra.MinimumNArgs(2)))
	cmd.AddCommand(newGameActionCmd(s, "score <id> <category>", "Score the current dice in a category", model.ActionScoreCategory, cobra.ExactArgs(2)))
	cmd.AddCommand(newGamesAutoplayCmd(s))

	return cmd
}

func newGamesListCmd(s *session) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open games",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games"
			if all {
				path += "?all=true"
			}

			var result []response.Game
			if err := s.client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			s.output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include games that have started")

	return cmd
}

func newGamesGetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a game's current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := s.client.Get(cmd.Context(), "/api/v1/games/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			s.output(cmd).Print(result)
			return nil
		},
	}
}

func newGamesCreateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a game hosted by you",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := s.requireUser()
			if err != nil {
				return err
			}

			req := request.CreateGameRequest{Username: username}
			var result response.Game

			if err := s.client.Post(cmd.Context(), "/api/v1/games", req, &result); err != nil {
				return err
			}

			s.output(cmd).Print(result)
			return nil
		},
	}
}

func newGameActionCmd(s *session, use, short string, kind model.ActionKind, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := s.requireUser()
			if err != nil {
				return err
			}

			req := request.GameActionRequest{
				GameID:   args[0],
				Username: username,
				Action:   string(kind),
			}

			switch kind {
			case model.ActionHoldDice:
				for _, arg := range args[1:] {
					idx, err := strconv.Atoi(arg)
					if err != nil {
						return fmt.Errorf("invalid dice index %q: %w", arg, err)
					}
					req.DiceIndexes = append(req.DiceIndexes, idx)
				}
			case model.ActionScoreCategory:
				req.Category = args[1]
			}

			var result response.Game
			if err := s.client.Put(cmd.Context(), "/api/v1/games", req, &result); err != nil {
				return err
			}

			s.output(cmd).Print(result)
			return nil
		},
	}
}
