package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Dosada05/agent-tournament/models"
)

const noResultMessage = "no result found in referee output"

var (
	ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

	drawSignals = []string{"Game over! Draw!", "Game over! It's a draw!"}
)

// ResultInterpreter turns captured referee output into an outcome for the
// pairing (a, b). Implementations are pure; round, group and sequence are
// filled in by the caller.
type ResultInterpreter func(stdout, stderr, a, b string) models.MatchOutcome

// WinSignals is the vocabulary a game uses to announce which side won.
type WinSignals struct {
	FirstSide  string
	SecondSide string
}

var gameSignals = map[models.GameKind]WinSignals{
	models.GameTicTacToe:    {FirstSide: "Winner: Player X", SecondSide: "Winner: Player O"},
	models.GameLaskerMorris: {FirstSide: "Winner: blue", SecondSide: "Winner: orange"},
}

// InterpreterFor returns the result interpreter registered for a game.
func InterpreterFor(kind models.GameKind) (ResultInterpreter, error) {
	signals, ok := gameSignals[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGame, kind)
	}
	return NewSignalInterpreter(signals), nil
}

// NewSignalInterpreter builds an interpreter from a win vocabulary. Error
// lines on either stream win over any other signal, then draws, then wins.
// Output with none of these is an execution error.
func NewSignalInterpreter(signals WinSignals) ResultInterpreter {
	return func(stdout, stderr, a, b string) models.MatchOutcome {
		outcome := models.MatchOutcome{CompetitorA: a, CompetitorB: b}

		stdout = ansiEscape.ReplaceAllString(stdout, "")
		stderr = ansiEscape.ReplaceAllString(stderr, "")

		if lines := errorLines(stderr, stdout); len(lines) > 0 {
			outcome.Error = strings.Join(lines, "; ")
			return outcome
		}

		for _, s := range drawSignals {
			if strings.Contains(stdout, s) {
				outcome.IsDraw = true
				return outcome
			}
		}

		switch {
		case strings.Contains(stdout, signals.FirstSide):
			outcome.Winner = a
		case strings.Contains(stdout, signals.SecondSide):
			outcome.Winner = b
		default:
			outcome.Error = noResultMessage
		}
		return outcome
	}
}

func errorLines(streams ...string) []string {
	var lines []string
	for _, stream := range streams {
		for _, line := range strings.Split(stream, "\n") {
			line = strings.TrimSpace(line)
			if line != "" && strings.Contains(strings.ToLower(line), "error") {
				lines = append(lines, line)
			}
		}
	}
	return lines
}
