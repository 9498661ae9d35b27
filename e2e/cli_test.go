package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/dicegame-go/internal/api/response"
	"github.com/mcoot/dicegame-go/internal/cli"
	"github.com/mcoot/dicegame-go/internal/factory"
	"github.com/mcoot/dicegame-go/internal/model"
)

// cliRunner executes CLI commands in-process against a test server
type cliRunner struct {
	serverURL string
	userFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()
	return &cliRunner{
		serverURL: serverURL,
		userFile:  filepath.Join(t.TempDir(), "user"),
	}
}

func (r *cliRunner) runContext(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--user-file", r.userFile,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func (r *cliRunner) run(args ...string) (string, error) {
	return r.runContext(context.Background(), args...)
}

func (r *cliRunner) runAs(user string, args ...string) (string, error) {
	return r.run(append([]string{"--user", user}, args...)...)
}

func startTestServer(t *testing.T) (*factory.TestApp, string) {
	t.Helper()

	app := factory.NewTestApp()
	server := app.Serve()
	t.Cleanup(func() {
		_ = app.Shutdown()
		server.Close()
	})
	return app, server.URL
}

func parseGame(t *testing.T, output string) response.Game {
	t.Helper()
	var game response.Game
	require.NoError(t, json.Unmarshal([]byte(output), &game), "output: %s", output)
	return game
}

// parseEvents reads JSON lines printed by events and watch
func parseEvents(t *testing.T, output string) []cli.StreamEvent {
	t.Helper()
	var events []cli.StreamEvent
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		var ev cli.StreamEvent
		require.NoError(t, json.Unmarshal([]byte(line), &ev), "line: %s", line)
		events = append(events, ev)
	}
	return events
}

func TestCLI_HealthCheck(t *testing.T) {
	_, url := startTestServer(t)
	runner := newCLIRunner(t, url)

	output, err := runner.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp response.HealthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Rooms)
}

func TestCLI_LoginRemembersUser(t *testing.T) {
	app, url := startTestServer(t)
	runner := newCLIRunner(t, url)

	// Nothing to act as yet
	_, err := runner.run("games", "create")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no username")

	output, err := runner.run("login", "  alice  ")
	require.NoError(t, err, "output: %s", output)

	var auth response.AuthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth))
	assert.True(t, auth.Success)
	assert.Equal(t, "alice", auth.Username)

	app.MockRandom.QueueID("game-1")
	output, err = runner.run("games", "create")
	require.NoError(t, err, "output: %s", output)

	game := parseGame(t, output)
	assert.Equal(t, "game-1", game.ID)
	assert.Equal(t, "alice", game.Host)
}

func TestCLI_LoginRejectsShortName(t *testing.T) {
	_, url := startTestServer(t)
	runner := newCLIRunner(t, url)

	_, err := runner.run("login", "al")
	require.Error(t, err)

	var apiErr *cli.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "INVALID_USERNAME", apiErr.Code)
}

func TestCLI_FullGameFlow(t *testing.T) {
	app, url := startTestServer(t)
	runner := newCLIRunner(t, url)

	app.MockRandom.QueueID("g1")
	output, err := runner.runAs("alice", "games", "create")
	require.NoError(t, err, "output: %s", output)

	// Open games are listed
	output, err = runner.run("games", "list")
	require.NoError(t, err, "output: %s", output)
	var open []response.Game
	require.NoError(t, json.Unmarshal([]byte(output), &open))
	require.Len(t, open, 1)
	assert.Equal(t, "g1", open[0].ID)

	output, err = runner.runAs("bob", "games", "join", "g1")
	require.NoError(t, err, "output: %s", output)
	assert.True(t, parseGame(t, output).Ready)

	// Only the host may start
	_, err = runner.runAs("bob", "games", "start", "g1")
	var apiErr *cli.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_HOST", apiErr.Code)

	output, err = runner.runAs("alice", "games", "start", "g1")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "alice", parseGame(t, output).TurnState.CurrentPlayer)

	// Started games drop off the default listing
	output, err = runner.run("games", "list")
	require.NoError(t, err, "output: %s", output)
	assert.JSONEq(t, "[]", output)

	// First turn exercises hold and reroll
	app.MockRandom.QueueDice(6, 6, 2, 6, 1)
	_, err = runner.runAs("alice", "games", "roll", "g1")
	require.NoError(t, err)

	output, err = runner.runAs("alice", "games", "hold", "g1", "0", "1", "3")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, []bool{true, true, false, true, false}, parseGame(t, output).TurnState.Held)

	_, err = runner.runAs("alice", "games", "hold", "g1", "x")
	require.Error(t, err)

	app.MockRandom.QueueDice(6, 6)
	output, err = runner.runAs("alice", "games", "roll", "g1")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, []int{6, 6, 6, 6, 6}, parseGame(t, output).TurnState.Dice)

	output, err = runner.runAs("alice", "games", "score", "g1", "sixes")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, 30, *parseGame(t, output).TurnState.Scores["alice"]["sixes"])

	// Play out the rest: bob scores his categories in order, alice the rest
	aliceRemaining := []model.Category{
		model.CategoryOnes, model.CategoryTwos, model.CategoryThrees, model.CategoryFours, model.CategoryFives,
	}
	var last response.Game
	for i, category := range model.Categories() {
		app.MockRandom.QueueDice(1, 1, 1, 1, 1)
		_, err = runner.runAs("bob", "games", "roll", "g1")
		require.NoError(t, err)
		output, err = runner.runAs("bob", "games", "score", "g1", string(category))
		require.NoError(t, err, "output: %s", output)
		last = parseGame(t, output)

		if i < len(aliceRemaining) {
			app.MockRandom.QueueDice(1, 1, 1, 1, 1)
			_, err = runner.runAs("alice", "games", "roll", "g1")
			require.NoError(t, err)
			_, err = runner.runAs("alice", "games", "score", "g1", string(aliceRemaining[i]))
			require.NoError(t, err)
		}
	}

	require.NotNil(t, last.TurnState)
	assert.True(t, last.TurnState.GameOver)
	assert.Equal(t, []string{"alice"}, last.TurnState.Winners)
	assert.Equal(t, 35, *last.TurnState.Scores["alice"][response.TotalKey])
	assert.Equal(t, 5, *last.TurnState.Scores["bob"][response.TotalKey])

	_, err = runner.runAs("alice", "games", "roll", "g1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "GAME_OVER", apiErr.Code)

	// Finished games are still retrievable
	output, err = runner.run("games", "get", "g1")
	require.NoError(t, err, "output: %s", output)
	assert.True(t, parseGame(t, output).TurnState.GameOver)
}

func TestCLI_TextOutput(t *testing.T) {
	app, url := startTestServer(t)
	runner := newCLIRunner(t, url)

	app.MockRandom.QueueID("g1")
	_, err := runner.runAs("alice", "games", "create")
	require.NoError(t, err)
	_, err = runner.runAs("bob", "games", "join", "g1")
	require.NoError(t, err)

	output, err := runner.run("--output", "text", "--user", "alice", "games", "start", "g1")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "Players: alice, bob")
	assert.Contains(t, output, "Turn: alice (3 rolls left)")
	assert.Contains(t, output, "Dice: not rolled")

	_, err = runner.run("--output", "yaml", "health")
	require.Error(t, err)
}

func TestCLI_DiceRoll(t *testing.T) {
	app, url := startTestServer(t)
	runner := newCLIRunner(t, url)

	app.MockRandom.QueueIntn(3)
	output, err := runner.run("dice", "roll", "--sides", "4")
	require.NoError(t, err, "output: %s", output)

	var roll response.RollResponse
	require.NoError(t, json.Unmarshal([]byte(output), &roll))
	assert.Equal(t, 4, roll.Result)

	_, err = runner.run("dice", "roll", "--sides", "0")
	require.Error(t, err)
}

func TestCLI_EventsStream(t *testing.T) {
	app, url := startTestServer(t)
	runner := newCLIRunner(t, url)

	app.MockRandom.QueueID("g1")
	_, err := runner.runAs("alice", "games", "create")
	require.NoError(t, err)

	type result struct {
		output string
		err    error
	}
	done := make(chan result, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() {
		// connected, subscribed, then the join update
		out, err := runner.runContext(ctx, "events", "g1", "--count", "3")
		done <- result{out, err}
	}()

	require.Eventually(t, func() bool {
		return app.Hub.SubscriberCount("g1") == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err = runner.runAs("bob", "games", "join", "g1")
	require.NoError(t, err)

	res := <-done
	require.NoError(t, res.err, "output: %s", res.output)

	events := parseEvents(t, res.output)
	require.Len(t, events, 3)
	assert.Equal(t, "connected", events[0].Event)
	assert.Equal(t, "subscribed", events[1].Event)
	assert.Equal(t, "gameUpdate", events[2].Event)

	var update struct {
		Type string        `json:"type"`
		Game response.Game `json:"game"`
	}
	require.NoError(t, json.Unmarshal(events[2].Data, &update))
	assert.Equal(t, "update", update.Type)
	assert.Equal(t, []string{"alice", "bob"}, update.Game.Players)
}

func TestCLI_EventsUnknownGame(t *testing.T) {
	_, url := startTestServer(t)
	runner := newCLIRunner(t, url)

	_, err := runner.run("events", "missing", "--count", "1")
	var apiErr *cli.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "GAME_NOT_FOUND", apiErr.Code)
}

func TestCLI_Watch(t *testing.T) {
	app, url := startTestServer(t)
	runner := newCLIRunner(t, url)

	app.MockRandom.QueueID("g1")
	_, err := runner.runAs("alice", "games", "create")
	require.NoError(t, err)
	_, err = runner.runAs("bob", "games", "join", "g1")
	require.NoError(t, err)
	_, err = runner.runAs("alice", "games", "start", "g1")
	require.NoError(t, err)

	type result struct {
		output string
		err    error
	}
	done := make(chan result, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() {
		out, err := runner.runContext(ctx, "--user", "carol", "watch", "g1", "--count", "2")
		done <- result{out, err}
	}()

	require.Eventually(t, func() bool {
		return app.Hub.SubscriberCount("g1") == 1
	}, 2*time.Second, 10*time.Millisecond)

	app.MockRandom.QueueDice(5, 4, 3, 2, 1)
	_, err = runner.runAs("alice", "games", "roll", "g1")
	require.NoError(t, err)

	res := <-done
	require.NoError(t, res.err, "output: %s", res.output)

	events := parseEvents(t, res.output)
	require.Len(t, events, 2)
	assert.Equal(t, "subscribed", events[0].Event)
	assert.Equal(t, "g1", events[0].GameID)
	assert.Equal(t, "gameUpdate", events[1].Event)
}

func TestCLI_Autoplay(t *testing.T) {
	app, url := startTestServer(t)
	runner := newCLIRunner(t, url)

	app.MockRandom.QueueID("g1")
	_, err := runner.runAs("alice", "games", "create")
	require.NoError(t, err)
	_, err = runner.runAs("bob", "games", "join", "g1")
	require.NoError(t, err)
	_, err = runner.runAs("alice", "games", "start", "g1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// With nothing queued every die lands on one, so both bots play identically
	type result struct {
		output string
		err    error
	}
	results := make(chan result, 2)
	for _, user := range []string{"alice", "bob"} {
		go func() {
			out, err := runner.runContext(ctx, "--user", user, "games", "autoplay", "g1")
			results <- result{out, err}
		}()
	}

	for i := 0; i < 2; i++ {
		res := <-results
		require.NoError(t, res.err, "output: %s", res.output)
		final := parseGame(t, res.output)
		require.NotNil(t, final.TurnState)
		assert.True(t, final.TurnState.GameOver)
	}

	output, err := runner.run("games", "get", "g1")
	require.NoError(t, err)
	final := parseGame(t, output)
	assert.ElementsMatch(t, []string{"alice", "bob"}, final.TurnState.Winners)
	assert.Equal(t, 5, *final.TurnState.Scores["alice"][response.TotalKey])
	assert.Equal(t, 5, *final.TurnState.Scores["bob"][response.TotalKey])
}
