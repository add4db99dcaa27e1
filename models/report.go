package models

// RoundReport is emitted once a round's matches are all played.
type RoundReport struct {
	Round     string
	Final     bool
	Standings []GroupStandings
	// Advancing lists who moves on, in the order they were selected.
	Advancing []string
}

// RoundSummary is one round of a finished tournament.
type RoundSummary struct {
	Name      string
	Groups    []Group
	Standings []GroupStandings
	Outcomes  []MatchOutcome
}

// TournamentSummary is everything the reporting sinks need at completion.
type TournamentSummary struct {
	RunID      string
	Game       GameKind
	Rounds     []RoundSummary
	Overall    []CompetitorRoundStats
	Placements Placements
	// Degraded carries the reason the finals were short-handed, if they were.
	Degraded string
}

// MatchCount returns the number of outcomes across all rounds.
func (s TournamentSummary) MatchCount() int {
	n := 0
	for _, r := range s.Rounds {
		n += len(r.Outcomes)
	}
	return n
}
