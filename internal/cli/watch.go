package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd(s *session) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "watch <id>...",
		Short: "Follow games over a websocket connection",
		Long: `Open a websocket, join each game's room and print every event received.

Press Ctrl+C to disconnect.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.watchGames(cmd, args, count)
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Exit after this many events (0 watches until interrupted)")

	return cmd
}

func (s *session) watchGames(cmd *cobra.Command, gameIDs []string, count int) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := "/api/v1/ws"
	if s.cfg.Username != "" {
		path += "?username=" + url.QueryEscape(s.cfg.Username)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, s.client.streamURL(path, true), nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection failed: HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Unblock the read loop on interrupt
	go func() {
		<-ctx.Done()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	for _, id := range gameIDs {
		msg, _ := json.Marshal(map[string]string{"event": "joinRoom", "gameId": id})
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return fmt.Errorf("failed to join %s: %w", id, err)
		}
	}

	out := s.output(cmd)
	seen := 0
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return fmt.Errorf("connection closed: %s", closeErr.Text)
			}
			return fmt.Errorf("read failed: %w", err)
		}

		printEvent(out, payload)
		seen++
		if count > 0 && seen >= count {
			return nil
		}
	}
}
