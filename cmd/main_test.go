package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dosada05/agent-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flagSet map[string]bool

func (f flagSet) Bool(name string) bool { return f[name] }

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		flags flagSet
		want  slog.Level
	}{
		{"default", flagSet{}, slog.LevelInfo},
		{"quiet", flagSet{"quiet": true}, slog.LevelError},
		{"debug", flagSet{"debug": true}, slog.LevelDebug},
		{"quiet wins over debug", flagSet{"quiet": true, "debug": true}, slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logLevel(tt.flags))
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger(&buf, "json", slog.LevelInfo).Info("hello", slog.String("round", "First Round"))
		assert.Contains(t, buf.String(), `"round":"First Round"`)
	})

	t.Run("quiet drops info", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger(&buf, "text", slog.LevelError).Info("hello")
		assert.Empty(t, buf.String())
	})

	t.Run("no-log drops errors", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger(&buf, "text", logLevel(flagSet{"no-log": true})).Error("boom")
		assert.Empty(t, buf.String())
	})
}

func TestResolveSeed(t *testing.T) {
	seed := int64(42)
	got, err := resolveSeed(models.TournamentDefinition{Seed: &seed})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	random, err := resolveSeed(models.TournamentDefinition{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, random, int64(0))
}

func TestValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tournament.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game: tictactoe\nagents:\n  a: ./a\n  b: ./b\n"), 0o644))

	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run([]string{"tournament", "validate", path})
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "Game: tictactoe")
	assert.Contains(t, out, "Competitors: 2")
	assert.Contains(t, out, "First Round: 4 group(s), top 2 advance")
	assert.Contains(t, out, "Final Round")
}

func TestValidateCommand_DefinitionFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game: laskermorris\nagents:\n  a: ./a\n  b: ./b\n  c: ./c\n"), 0o644))
	t.Setenv("TOURNAMENT_CONFIG", path)

	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run([]string{"tournament", "validate"})
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "Game: laskermorris")
	assert.Contains(t, out, "Competitors: 3")
}
