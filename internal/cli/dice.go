package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/dicegame-go/internal/api/response"
)

func newDiceCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dice",
		Short: "Standalone dice commands",
	}

	var sides int
	roll := &cobra.Command{
		Use:   "roll",
		Short: "Roll a single die outside of any game",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{"sides": sides}
			var result response.RollResponse

			if err := s.client.Post(cmd.Context(), "/api/v1/dice/roll", req, &result); err != nil {
				return err
			}

			s.output(cmd).Print(result)
			return nil
		},
	}
	roll.Flags().IntVar(&sides, "sides", 6, "Number of sides")

	cmd.AddCommand(roll)
	return cmd
}
