package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/dicegame-go/internal/api/response"
)

func newEventsCmd(s *session) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "events [id]",
		Short: "Stream server-sent events for the lobby or one game",
		Long: `Connect to the SSE endpoint and print events as they arrive.

Without a game id the lobby stream is followed, which reports new games and
players joining. With an id, every update to that game is reported.

Events:
  - connected: Stream is open
  - subscribed: Now receiving updates for the game
  - gameUpdate: Full snapshot of a game after a change

Press Ctrl+C to disconnect.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/events"
			if len(args) == 1 {
				path = "/api/v1/games/" + url.PathEscape(args[0]) + "/events"
			}
			if s.cfg.Username != "" {
				path += "?username=" + url.QueryEscape(s.cfg.Username)
			}
			return s.streamEvents(cmd, s.client.streamURL(path, false), count)
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Exit after this many events (0 streams until interrupted)")

	return cmd
}

// StreamEvent is one event as printed in JSON output
type StreamEvent struct {
	Time    time.Time       `json:"time"`
	Event   string          `json:"event"`
	GameID  string          `json:"gameId,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (s *session) streamEvents(cmd *cobra.Command, streamURL string, count int) error {
	// Set up cancellation
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No timeout for SSE
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var apiErr APIError
		body, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Code != "" {
			apiErr.Status = resp.StatusCode
			return &apiErr
		}
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	out := s.output(cmd)
	seen := 0

	// Parse SSE stream
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			// End of event
			if currentEvent != "" {
				printEvent(out, []byte(strings.Join(dataLines, "\n")))
				seen++
				if count > 0 && seen >= count {
					return nil
				}
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}
	if !out.JSON() && ctx.Err() == nil {
		out.PrintMessage("Disconnected")
	}
	return nil
}

// printEvent prints one envelope from either stream transport
func printEvent(out *Output, payload []byte) {
	var ev StreamEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		ev = StreamEvent{Event: "unparsed", Message: string(payload)}
	}
	ev.Time = time.Now()

	if out.JSON() {
		data, _ := json.Marshal(ev)
		fmt.Fprintln(out.w, string(data))
		return
	}

	timestamp := ev.Time.Format("2006-01-02 15:04:05")
	switch {
	case ev.Data != nil:
		var update struct {
			Game response.Game `json:"game"`
		}
		if err := json.Unmarshal(ev.Data, &update); err == nil && update.Game.ID != "" {
			fmt.Fprintf(out.w, "[%s] %s: %s\n", timestamp, ev.Event, summarize(update.Game))
			return
		}
		fmt.Fprintf(out.w, "[%s] %s: %s\n", timestamp, ev.Event, string(ev.Data))
	case ev.Message != "":
		fmt.Fprintf(out.w, "[%s] %s: %s\n", timestamp, ev.Event, ev.Message)
	case ev.GameID != "":
		fmt.Fprintf(out.w, "[%s] %s: %s\n", timestamp, ev.Event, ev.GameID)
	default:
		fmt.Fprintf(out.w, "[%s] %s\n", timestamp, ev.Event)
	}
}

// summarize renders a game update on one line
func summarize(g response.Game) string {
	ts := g.TurnState
	switch {
	case ts == nil:
		return fmt.Sprintf("%s players=%s", g.ID, strings.Join(g.Players, ","))
	case ts.GameOver:
		return fmt.Sprintf("%s finished, winners=%s", g.ID, strings.Join(ts.Winners, ","))
	default:
		return fmt.Sprintf("%s round=%d turn=%s dice=%v rolls_left=%d",
			g.ID, ts.Round, ts.CurrentPlayer, ts.Dice, ts.RollsLeft)
	}
}
