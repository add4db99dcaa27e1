package models

import "sort"

// CompetitorRoundStats accumulates one competitor's record inside one group of
// one round. Stats are reset every round and never carried backward.
type CompetitorRoundStats struct {
	Competitor string  `json:"competitor"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	Points     float64 `json:"points"`
}

// Played returns the number of scored matches behind this record.
func (s CompetitorRoundStats) Played() int {
	return s.Wins + s.Losses + s.Draws
}

// Add merges another record into s, used for cross-round aggregates.
func (s *CompetitorRoundStats) Add(other CompetitorRoundStats) {
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Draws += other.Draws
	s.Points += other.Points
}

// GroupStandings is the ranked table of a single group.
type GroupStandings struct {
	Group  string                 `json:"group"`
	Ranked []CompetitorRoundStats `json:"ranked"`
}

// Competitors returns the ranked competitor ids.
func (g GroupStandings) Competitors() []string {
	out := make([]string, len(g.Ranked))
	for i, s := range g.Ranked {
		out[i] = s.Competitor
	}
	return out
}

// RankStats orders records by points descending, then wins descending, then
// competitor id ascending. It returns a new slice and never mutates stats.
func RankStats(stats []CompetitorRoundStats) []CompetitorRoundStats {
	ranked := make([]CompetitorRoundStats, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Competitor < b.Competitor
	})
	return ranked
}

// Placements holds the final podium. Empty fields mean the placement could
// not be decided because too few competitors reached the final round.
type Placements struct {
	Champion string `json:"champion,omitempty"`
	RunnerUp string `json:"runner_up,omitempty"`
	Third    string `json:"third,omitempty"`
	Fourth   string `json:"fourth,omitempty"`
}
