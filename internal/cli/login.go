package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/dicegame-go/internal/api/response"
)

func newLoginCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Check a username with the server and remember it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"username": args[0]}
			var result response.AuthResponse

			if err := s.client.Post(cmd.Context(), "/api/v1/auth", req, &result); err != nil {
				return err
			}

			if err := s.cfg.SaveUsername(result.Username); err != nil {
				return fmt.Errorf("failed to save username: %w", err)
			}

			s.output(cmd).Print(result)
			return nil
		},
	}
}
