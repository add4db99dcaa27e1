package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/agent-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	execute func(ctx context.Context, name string, args []string) (string, string, error)
	name    string
	args    []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args []string) (string, string, error) {
	f.name, f.args = name, args
	return f.execute(ctx, name, args)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCompetitors() map[string]models.Competitor {
	return map[string]models.Competitor{
		"alpha": {ID: "alpha", Command: "python alpha.py"},
		"beta":  {ID: "beta", Command: "python beta.py"},
	}
}

func newTestRunner(t *testing.T, cfg RefereeRunnerConfig, exec *fakeExecutor) MatchRunner {
	t.Helper()
	runner, err := NewRefereeRunner(cfg, testCompetitors(), exec, discardLogger())
	require.NoError(t, err)
	return runner
}

func TestRefereeRunner_RunMatch(t *testing.T) {
	exec := &fakeExecutor{execute: func(ctx context.Context, name string, args []string) (string, string, error) {
		return "Game over! Winner: Player O\n", "", nil
	}}
	runner := newTestRunner(t, RefereeRunnerConfig{}, exec)

	out, err := runner.RunMatch(context.Background(), MatchRequest{Game: models.GameTicTacToe, CompetitorA: "alpha", CompetitorB: "beta"})
	require.NoError(t, err)

	assert.Equal(t, "beta", out.Winner)
	assert.Equal(t, "uv", exec.name)
	assert.Equal(t, []string{
		"run", "cs4341-referee", "tictactoe",
		"--player1", "python alpha.py",
		"--player2", "python beta.py",
		"--no-visual",
	}, exec.args)
}

func TestRefereeRunner_CustomCommand(t *testing.T) {
	exec := &fakeExecutor{execute: func(ctx context.Context, name string, args []string) (string, string, error) {
		return "Winner: blue", "", nil
	}}
	runner := newTestRunner(t, RefereeRunnerConfig{Command: "referee --strict"}, exec)

	out, err := runner.RunMatch(context.Background(), MatchRequest{Game: models.GameLaskerMorris, CompetitorA: "alpha", CompetitorB: "beta"})
	require.NoError(t, err)
	assert.Equal(t, "alpha", out.Winner)
	assert.Equal(t, "referee", exec.name)
	assert.Equal(t, []string{"--strict", "laskermorris"}, exec.args[:2])
}

func TestRefereeRunner_ExecutionFailure(t *testing.T) {
	exec := &fakeExecutor{execute: func(ctx context.Context, name string, args []string) (string, string, error) {
		return "", "Traceback: agent error\n", errors.New("exit status 1")
	}}
	runner := newTestRunner(t, RefereeRunnerConfig{}, exec)

	out, err := runner.RunMatch(context.Background(), MatchRequest{Game: models.GameTicTacToe, CompetitorA: "alpha", CompetitorB: "beta"})
	require.NoError(t, err, "execution failures are recorded, not returned")

	assert.False(t, out.Scored())
	assert.True(t, strings.HasPrefix(out.Error, "match execution failed: exit status 1"), out.Error)
	assert.Contains(t, out.Error, "Traceback: agent error")
	assert.Equal(t, "alpha", out.CompetitorA)
	assert.Empty(t, out.Winner)
}

func TestRefereeRunner_Deadline(t *testing.T) {
	exec := &fakeExecutor{execute: func(ctx context.Context, name string, args []string) (string, string, error) {
		<-ctx.Done()
		return "", "", ctx.Err()
	}}
	runner := newTestRunner(t, RefereeRunnerConfig{Deadline: 10 * time.Millisecond}, exec)

	out, err := runner.RunMatch(context.Background(), MatchRequest{Game: models.GameTicTacToe, CompetitorA: "alpha", CompetitorB: "beta"})
	require.NoError(t, err)
	assert.Contains(t, out.Error, "referee exceeded 10ms")
}

func TestRefereeRunner_FatalErrors(t *testing.T) {
	exec := &fakeExecutor{execute: func(ctx context.Context, name string, args []string) (string, string, error) {
		t.Fatal("referee must not be launched")
		return "", "", nil
	}}
	runner := newTestRunner(t, RefereeRunnerConfig{}, exec)

	_, err := runner.RunMatch(context.Background(), MatchRequest{Game: models.GameTicTacToe, CompetitorA: "alpha", CompetitorB: "ghost"})
	assert.ErrorIs(t, err, ErrUnknownCompetitor)

	_, err = runner.RunMatch(context.Background(), MatchRequest{Game: models.GameKind("chess"), CompetitorA: "alpha", CompetitorB: "beta"})
	assert.ErrorIs(t, err, ErrUnsupportedGame)
}

func TestBuildRefereeArgs(t *testing.T) {
	timeout, port := 30, 5050
	on, off := true, false

	tests := []struct {
		name     string
		settings models.GameSettings
		want     []string
	}{
		{
			name:     "no settings",
			settings: models.GameSettings{},
			want:     []string{"tictactoe", "--player1", "a", "--player2", "b", "--no-visual"},
		},
		{
			name:     "all settings",
			settings: models.GameSettings{Timeout: &timeout, Visual: &on, RandomAssignment: &off, Debug: &on, Port: &port},
			want: []string{
				"tictactoe", "--player1", "a", "--player2", "b",
				"--timeout", "30", "--visual", "--no-random-assignment", "--debug", "--port", "5050",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildRefereeArgs(models.GameTicTacToe, "a", "b", tt.settings))
		})
	}
}
