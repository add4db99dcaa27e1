package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidFormat = errors.New("invalid tournament format")

// PartitionPolicy selects how a pool of competitors is cut into groups.
type PartitionPolicy string

const (
	// PartitionChunked cuts consecutive chunks of ceil(n/groups) members.
	PartitionChunked PartitionPolicy = "chunked"
	// PartitionBalanced builds exactly min(n, groups) groups whose sizes
	// differ by at most one, giving the remainder to the first groups.
	PartitionBalanced PartitionPolicy = "balanced"
)

const (
	FormatPresetClassic  = "classic"
	FormatPresetExtended = "extended"

	DefaultAdvancePerGroup = 2
	DefaultFinalRoundName  = "Final Round"

	ChampionshipGroup = "Championship"
	ThirdPlaceGroup   = "ThirdPlace"
)

// ScoringRules are the point values awarded per outcome. A loss is worth zero.
type ScoringRules struct {
	WinPoints  float64 `json:"win_points" yaml:"win_points"`
	DrawPoints float64 `json:"draw_points" yaml:"draw_points"`
}

// RoundSpec describes one non-final round of the bracket.
type RoundSpec struct {
	Name    string `json:"name" yaml:"name"`
	Groups  int    `json:"groups" yaml:"groups"`
	Advance int    `json:"advance,omitempty" yaml:"advance,omitempty"`
}

// AdvancePerGroup returns how many competitors leave each group of the round.
func (r RoundSpec) AdvancePerGroup() int {
	if r.Advance <= 0 {
		return DefaultAdvancePerGroup
	}
	return r.Advance
}

// Format is the bracket shape: the ordered non-final rounds, the final round
// name, point values and the partition policy used for every regrouping.
type Format struct {
	Rounds     []RoundSpec     `json:"rounds"`
	FinalRound string          `json:"final_round"`
	Scoring    ScoringRules    `json:"scoring"`
	Partition  PartitionPolicy `json:"partition"`
}

// ClassicFormat is the four-round bracket: 4, 2 and 1 groups, then the final.
func ClassicFormat() Format {
	return Format{
		Rounds: []RoundSpec{
			{Name: "First Round", Groups: 4, Advance: DefaultAdvancePerGroup},
			{Name: "Second Round", Groups: 2, Advance: DefaultAdvancePerGroup},
			{Name: "Semi-Final Round", Groups: 1},
		},
		FinalRound: DefaultFinalRoundName,
		Scoring:    ScoringRules{WinPoints: 1.0, DrawPoints: 0.5},
		Partition:  PartitionChunked,
	}
}

// ExtendedFormat is the five-round bracket: 8, 4, 2 and 1 groups, then the final.
func ExtendedFormat() Format {
	return Format{
		Rounds: []RoundSpec{
			{Name: "First Round", Groups: 8, Advance: DefaultAdvancePerGroup},
			{Name: "Second Round", Groups: 4, Advance: DefaultAdvancePerGroup},
			{Name: "Third Round", Groups: 2, Advance: DefaultAdvancePerGroup},
			{Name: "Fourth Round", Groups: 1},
		},
		FinalRound: DefaultFinalRoundName,
		Scoring:    ScoringRules{WinPoints: 2.0, DrawPoints: 1.0},
		Partition:  PartitionBalanced,
	}
}

// FormatPreset returns the named preset.
func FormatPreset(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatPresetClassic:
		return ClassicFormat(), nil
	case FormatPresetExtended:
		return ExtendedFormat(), nil
	default:
		return Format{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidFormat, name)
	}
}

// RoundNames lists every round in execution order, final round last.
func (f Format) RoundNames() []string {
	names := make([]string, 0, len(f.Rounds)+1)
	for _, r := range f.Rounds {
		names = append(names, r.Name)
	}
	return append(names, f.FinalRound)
}

// Validate checks the format is runnable.
func (f Format) Validate() error {
	if len(f.Rounds) == 0 {
		return fmt.Errorf("%w: at least one round before the final is required", ErrInvalidFormat)
	}
	if strings.TrimSpace(f.FinalRound) == "" {
		return fmt.Errorf("%w: final round name is required", ErrInvalidFormat)
	}
	switch f.Partition {
	case PartitionChunked, PartitionBalanced:
	default:
		return fmt.Errorf("%w: unknown partition policy %q", ErrInvalidFormat, f.Partition)
	}
	if f.Scoring.WinPoints < 0 || f.Scoring.DrawPoints < 0 {
		return fmt.Errorf("%w: point values must not be negative", ErrInvalidFormat)
	}

	seen := make(map[string]bool, len(f.Rounds)+1)
	for i, r := range f.Rounds {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("%w: round %d has no name", ErrInvalidFormat, i+1)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: duplicate round name %q", ErrInvalidFormat, r.Name)
		}
		seen[r.Name] = true
		if r.Groups < 1 {
			return fmt.Errorf("%w: round %q needs at least one group", ErrInvalidFormat, r.Name)
		}
		if r.Advance < 0 {
			return fmt.Errorf("%w: round %q has a negative advance count", ErrInvalidFormat, r.Name)
		}
	}
	if seen[f.FinalRound] {
		return fmt.Errorf("%w: final round name %q is already used", ErrInvalidFormat, f.FinalRound)
	}
	return nil
}
