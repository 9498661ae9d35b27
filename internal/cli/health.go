package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/dicegame-go/internal/api/response"
)

func newHealthCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.HealthResponse

			if err := s.client.Get(cmd.Context(), "/api/v1/health", &result); err != nil {
				return err
			}

			s.output(cmd).Print(result)
			return nil
		},
	}
}
