package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/dicegame-go/internal/api/response"
	"github.com/mcoot/dicegame-go/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// JSON reports whether output is machine readable
func (o *Output) JSON() bool {
	return o.format == "json"
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.JSON() {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.JSON() {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Game:
		o.printGame(v)
	case []response.Game:
		o.printGameList(v)
	case response.AuthResponse:
		fmt.Fprintf(o.w, "Logged in as %s\n", v.Username)
	case response.RollResponse:
		fmt.Fprintf(o.w, "Rolled: %d\n", v.Result)
	case response.HealthResponse:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
		fmt.Fprintf(o.w, "Games: %d\n", v.Rooms)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printGameList(games []response.Game) {
	if len(games) == 0 {
		fmt.Fprintln(o.w, "No games")
		return
	}
	for _, g := range games {
		fmt.Fprintf(o.w, "%s  %-24s %d players  %s\n", g.ID, g.Name, len(g.Players), gameStatus(g))
	}
}

func gameStatus(g response.Game) string {
	switch {
	case g.TurnState != nil && g.TurnState.GameOver:
		return "finished"
	case g.Started:
		return "in progress"
	case g.Ready:
		return "ready"
	default:
		return "waiting for players"
	}
}

func (o *Output) printGame(g response.Game) {
	fmt.Fprintf(o.w, "Game: %s (%s)\n", g.Name, g.ID)
	fmt.Fprintf(o.w, "Host: %s\n", g.Host)
	fmt.Fprintf(o.w, "Players: %s\n", strings.Join(g.Players, ", "))
	fmt.Fprintf(o.w, "Status: %s\n", gameStatus(g))

	ts := g.TurnState
	if ts == nil {
		return
	}

	if ts.GameOver {
		fmt.Fprintf(o.w, "Winners: %s\n", strings.Join(ts.Winners, ", "))
	} else {
		fmt.Fprintf(o.w, "Round: %d\n", ts.Round)
		fmt.Fprintf(o.w, "Turn: %s (%d rolls left)\n", ts.CurrentPlayer, ts.RollsLeft)
		o.printDice(ts)
	}

	fmt.Fprintln(o.w, "\nScores:")
	fmt.Fprintf(o.w, "  %-12s", "")
	for _, p := range g.Players {
		fmt.Fprintf(o.w, " %8s", p)
	}
	fmt.Fprintln(o.w)

	rows := make([]string, 0, len(model.Categories())+1)
	for _, c := range model.Categories() {
		rows = append(rows, string(c))
	}
	rows = append(rows, response.TotalKey)

	for _, row := range rows {
		fmt.Fprintf(o.w, "  %-12s", row)
		for _, p := range g.Players {
			cell := "-"
			if v := ts.Scores[p][row]; v != nil {
				cell = fmt.Sprintf("%d", *v)
			}
			fmt.Fprintf(o.w, " %8s", cell)
		}
		fmt.Fprintln(o.w)
	}
}

func (o *Output) printDice(ts *response.TurnState) {
	if !ts.TurnStarted {
		fmt.Fprintln(o.w, "Dice: not rolled")
		return
	}
	parts := make([]string, len(ts.Dice))
	for i, d := range ts.Dice {
		if i < len(ts.Held) && ts.Held[i] {
			parts[i] = fmt.Sprintf("[%d]", d)
		} else {
			parts[i] = fmt.Sprintf(" %d ", d)
		}
	}
	fmt.Fprintf(o.w, "Dice: %s\n", strings.Join(parts, ""))
}
