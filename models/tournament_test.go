package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGameKind(t *testing.T) {
	tests := []struct {
		in      string
		want    GameKind
		wantErr bool
	}{
		{"tictactoe", GameTicTacToe, false},
		{" TicTacToe ", GameTicTacToe, false},
		{"laskermorris", GameLaskerMorris, false},
		{"lasker_morris", GameLaskerMorris, false},
		{"lasker-morris", GameLaskerMorris, false},
		{"chess", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGameKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedGame)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRankStats(t *testing.T) {
	stats := []CompetitorRoundStats{
		{Competitor: "dan", Points: 1, Wins: 1},
		{Competitor: "amy", Points: 2, Wins: 1, Draws: 2},
		{Competitor: "cal", Points: 2, Wins: 2},
		{Competitor: "bea", Points: 1, Wins: 1},
	}

	ranked := RankStats(stats)
	got := GroupStandings{Ranked: ranked}.Competitors()
	assert.Equal(t, []string{"cal", "amy", "bea", "dan"}, got)
	assert.Equal(t, "dan", stats[0].Competitor, "input is not reordered")
}

func TestCompetitorRoundStats_Add(t *testing.T) {
	total := CompetitorRoundStats{Competitor: "a", Wins: 1, Points: 1}
	total.Add(CompetitorRoundStats{Competitor: "a", Wins: 2, Losses: 1, Draws: 1, Points: 2.5})
	assert.Equal(t, CompetitorRoundStats{Competitor: "a", Wins: 3, Losses: 1, Draws: 1, Points: 3.5}, total)
	assert.Equal(t, 5, total.Played())
}

func TestGroup(t *testing.T) {
	g := Group{Name: "Group A", Members: []string{"a", "b"}}
	assert.Equal(t, 2, g.Size())
	assert.True(t, g.Has("b"))
	assert.False(t, g.Has("c"))
	assert.Equal(t, []string{"a", "b", "c"}, Members([]Group{g, {Name: "Group B", Members: []string{"c"}}}))
}

func TestTournamentSummary_MatchCount(t *testing.T) {
	s := TournamentSummary{Rounds: []RoundSummary{
		{Outcomes: make([]MatchOutcome, 12)},
		{Outcomes: make([]MatchOutcome, 4)},
	}}
	assert.Equal(t, 16, s.MatchCount())
}
