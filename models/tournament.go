package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedGame = errors.New("unsupported game type")

// GameKind is a game the referee knows how to run.
type GameKind string

const (
	GameTicTacToe    GameKind = "tictactoe"
	GameLaskerMorris GameKind = "laskermorris"
)

// ParseGameKind normalises a configured game name.
func ParseGameKind(name string) (GameKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tictactoe":
		return GameTicTacToe, nil
	case "laskermorris", "lasker_morris", "lasker-morris":
		return GameLaskerMorris, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedGame, name)
	}
}

// GameSettings are referee options. Nil fields are left to the referee,
// except Visual which defaults to disabled.
type GameSettings struct {
	Timeout          *int  `json:"timeout,omitempty" yaml:"timeout"`
	Visual           *bool `json:"visual,omitempty" yaml:"visual"`
	RandomAssignment *bool `json:"random_assignment,omitempty" yaml:"random_assignment"`
	Debug            *bool `json:"debug,omitempty" yaml:"debug"`
	Port             *int  `json:"port,omitempty" yaml:"port"`
}

// TournamentDefinition is everything one run needs: the game, the entrants,
// optional predefined first-round groups and the bracket format.
type TournamentDefinition struct {
	Game             GameKind
	Settings         GameSettings
	Groups           map[string][]string
	Competitors      map[string]Competitor
	Format           Format
	Seed             *int64
	PermissiveGroups bool
}

// CompetitorIDs returns the ids of all competitors in unspecified order.
func (d TournamentDefinition) CompetitorIDs() []string {
	ids := make([]string, 0, len(d.Competitors))
	for id := range d.Competitors {
		ids = append(ids, id)
	}
	return ids
}
