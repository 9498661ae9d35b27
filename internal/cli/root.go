package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// session is the state shared by one command tree
type session struct {
	cfg    *Config
	client *Client
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	s := &session{cfg: DefaultConfig()}

	rootCmd := &cobra.Command{
		Use:   "dicegame",
		Short: "CLI tool for the dice game API",
		Long: `dicegame is a CLI tool for interacting with the dice game JSON API.

It supports creating and joining games, taking turns, and following games
in real time over server-sent events or a websocket.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if s.cfg.Output != "text" && s.cfg.Output != "json" {
				return fmt.Errorf("invalid output format %q: must be text or json", s.cfg.Output)
			}

			// Load username from file if not provided via flag/env
			if err := s.cfg.LoadUsername(); err != nil {
				return err
			}

			// Create HTTP client
			s.client = NewClient(s.cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.cfg.ServerURL, "server", s.cfg.ServerURL, "Server URL (env: DICEGAME_SERVER)")
	flags.StringVarP(&s.cfg.Username, "user", "u", s.cfg.Username, "Username to act as (env: DICEGAME_USER)")
	flags.StringVar(&s.cfg.UserFile, "user-file", s.cfg.UserFile, "Saved username file (env: DICEGAME_USER_FILE)")
	flags.StringVarP(&s.cfg.Output, "output", "o", s.cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newLoginCmd(s))
	rootCmd.AddCommand(newGamesCmd(s))
	rootCmd.AddCommand(newDiceCmd(s))
	rootCmd.AddCommand(newEventsCmd(s))
	rootCmd.AddCommand(newWatchCmd(s))
	rootCmd.AddCommand(newHealthCmd(s))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (s *session) output(cmd *cobra.Command) *Output {
	return NewOutput(s.cfg.Output, cmd.OutOrStdout())
}

func (s *session) requireUser() (string, error) {
	if s.cfg.Username == "" {
		return "", errors.New("no username: pass --user or run 'dicegame login' first")
	}
	return s.cfg.Username, nil
}
