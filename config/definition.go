package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Dosada05/agent-tournament/brackets"
	"github.com/Dosada05/agent-tournament/models"
	"gopkg.in/yaml.v3"
)

var ErrInvalidDefinition = errors.New("invalid tournament definition")

type definitionFile struct {
	Game             string              `yaml:"game"`
	Seed             *int64              `yaml:"seed"`
	PermissiveGroups bool                `yaml:"permissive_groups"`
	Settings         models.GameSettings `yaml:"settings"`
	Groups           map[string][]string `yaml:"groups"`
	Agents           map[string]string   `yaml:"agents"`
	Format           formatFile          `yaml:"format"`
}

// formatFile starts from a preset; every set field overrides it.
type formatFile struct {
	Preset     string             `yaml:"preset"`
	Rounds     []models.RoundSpec `yaml:"rounds"`
	FinalRound string             `yaml:"final_round"`
	WinPoints  *float64           `yaml:"win_points"`
	DrawPoints *float64           `yaml:"draw_points"`
	Partition  string             `yaml:"partition"`
}

// LoadDefinition reads and validates a YAML tournament definition.
func LoadDefinition(path string) (models.TournamentDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.TournamentDefinition{}, fmt.Errorf("failed to read tournament definition %s: %w", path, err)
	}
	return ParseDefinition(raw)
}

// ParseDefinition decodes and validates a YAML tournament definition.
func ParseDefinition(raw []byte) (models.TournamentDefinition, error) {
	var file definitionFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return models.TournamentDefinition{}, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	game, err := models.ParseGameKind(file.Game)
	if err != nil {
		return models.TournamentDefinition{}, err
	}

	if len(file.Agents) == 0 {
		return models.TournamentDefinition{}, fmt.Errorf("%w: no agents configured", ErrInvalidDefinition)
	}
	competitors := make(map[string]models.Competitor, len(file.Agents))
	for id, command := range file.Agents {
		if strings.TrimSpace(id) == "" {
			return models.TournamentDefinition{}, fmt.Errorf("%w: agent with empty name", ErrInvalidDefinition)
		}
		if strings.TrimSpace(command) == "" {
			return models.TournamentDefinition{}, fmt.Errorf("%w: agent %q has no command", ErrInvalidDefinition, id)
		}
		competitors[id] = models.Competitor{ID: id, Command: command}
	}

	format, err := file.Format.resolve()
	if err != nil {
		return models.TournamentDefinition{}, err
	}

	def := models.TournamentDefinition{
		Game:             game,
		Settings:         file.Settings,
		Groups:           file.Groups,
		Competitors:      competitors,
		Format:           format,
		Seed:             file.Seed,
		PermissiveGroups: file.PermissiveGroups,
	}

	if len(def.Groups) > 0 {
		ids := def.CompetitorIDs()
		sort.Strings(ids)
		if err := brackets.ValidatePredefinedGroups(def.Groups, ids, def.PermissiveGroups); err != nil {
			return models.TournamentDefinition{}, err
		}
	}
	return def, nil
}

func (f formatFile) resolve() (models.Format, error) {
	format, err := models.FormatPreset(f.Preset)
	if err != nil {
		return models.Format{}, err
	}
	if len(f.Rounds) > 0 {
		format.Rounds = f.Rounds
	}
	if f.FinalRound != "" {
		format.FinalRound = f.FinalRound
	}
	if f.WinPoints != nil {
		format.Scoring.WinPoints = *f.WinPoints
	}
	if f.DrawPoints != nil {
		format.Scoring.DrawPoints = *f.DrawPoints
	}
	if f.Partition != "" {
		format.Partition = models.PartitionPolicy(strings.ToLower(f.Partition))
	}
	if err := format.Validate(); err != nil {
		return models.Format{}, err
	}
	return format, nil
}
