package services

import (
	"testing"

	"github.com/Dosada05/agent-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcome(seq int, a, b, winner string) models.MatchOutcome {
	return models.MatchOutcome{Round: "First Round", Group: "Group A", Sequence: seq, CompetitorA: a, CompetitorB: b, Winner: winner}
}

func TestStandingsTracker_RanksGroup(t *testing.T) {
	tracker := NewStandingsTracker(NewScoringPolicy(models.ClassicFormat().Scoring))
	groups := []models.Group{{Name: "Group A", Members: []string{"a", "b", "c", "d"}}}
	require.NoError(t, tracker.BeginRound("First Round", groups))

	draw := outcome(3, "a", "c", "")
	draw.IsDraw = true
	failed := outcome(6, "c", "b", "")
	failed.Error = "no result found in referee output"

	scored, err := tracker.Update("First Round", []models.MatchOutcome{
		outcome(1, "a", "b", "a"),
		outcome(2, "b", "a", "a"),
		draw,
		outcome(4, "c", "a", "c"),
		outcome(5, "b", "c", "b"),
		failed,
		outcome(7, "d", "a", "a"),
		{Round: "First Round", Group: "Group Z", Sequence: 1, CompetitorA: "a", CompetitorB: "b", Winner: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, scored)

	standings, err := tracker.Standings("First Round")
	require.NoError(t, err)
	require.Len(t, standings, 1)
	assert.Equal(t, []models.CompetitorRoundStats{
		{Competitor: "a", Wins: 3, Losses: 1, Draws: 1, Points: 3.5},
		{Competitor: "c", Wins: 1, Losses: 1, Draws: 1, Points: 1.5},
		{Competitor: "b", Wins: 1, Losses: 2, Points: 1},
		{Competitor: "d", Losses: 1},
	}, standings[0].Ranked)

	again, err := tracker.Standings("First Round")
	require.NoError(t, err)
	assert.Equal(t, standings, again, "ranking is stable across calls")
}

func TestStandingsTracker_TieBreaks(t *testing.T) {
	tracker := NewStandingsTracker(NewScoringPolicy(models.ScoringRules{WinPoints: 1, DrawPoints: 0.5}))
	require.NoError(t, tracker.BeginRound("R", []models.Group{{Name: "G", Members: []string{"zed", "amy", "bob"}}}))

	draw := models.MatchOutcome{Group: "G", CompetitorA: "amy", CompetitorB: "bob", IsDraw: true}
	_, err := tracker.Update("R", []models.MatchOutcome{
		draw, draw,
		{Group: "G", CompetitorA: "zed", CompetitorB: "amy", Winner: "zed"},
		{Group: "G", CompetitorA: "amy", CompetitorB: "zed", Winner: "amy"},
	})
	require.NoError(t, err)

	standings, err := tracker.Standings("R")
	require.NoError(t, err)
	// amy: 1 win 2 draws = 2pts; bob: 2 draws = 1pt; zed: 1 win = 1pt but more wins.
	assert.Equal(t, []string{"amy", "zed", "bob"}, standings[0].Competitors())
}

func TestStandingsTracker_Errors(t *testing.T) {
	tracker := NewStandingsTracker(NewScoringPolicy(models.ClassicFormat().Scoring))

	_, err := tracker.Update("missing", nil)
	assert.Error(t, err)
	_, err = tracker.Standings("missing")
	assert.Error(t, err)

	require.NoError(t, tracker.BeginRound("R", nil))
	assert.Error(t, tracker.BeginRound("R", nil))
}

func TestStandingsTracker_Overall(t *testing.T) {
	tracker := NewStandingsTracker(NewScoringPolicy(models.ClassicFormat().Scoring))
	require.NoError(t, tracker.BeginRound("R1", []models.Group{{Name: "G", Members: []string{"a", "b"}}}))
	_, err := tracker.Update("R1", []models.MatchOutcome{{Group: "G", CompetitorA: "a", CompetitorB: "b", Winner: "b"}})
	require.NoError(t, err)
	require.NoError(t, tracker.BeginRound("R2", []models.Group{{Name: "G", Members: []string{"a", "b"}}}))
	_, err = tracker.Update("R2", []models.MatchOutcome{
		{Group: "G", CompetitorA: "a", CompetitorB: "b", Winner: "a"},
		{Group: "G", CompetitorA: "b", CompetitorB: "a", Winner: "a"},
	})
	require.NoError(t, err)

	// Round stats stay separate.
	r1, err := tracker.Standings("R1")
	require.NoError(t, err)
	assert.Equal(t, "b", r1[0].Ranked[0].Competitor)

	assert.Equal(t, []models.CompetitorRoundStats{
		{Competitor: "a", Wins: 2, Losses: 1, Points: 2},
		{Competitor: "b", Wins: 1, Losses: 2, Points: 1},
	}, tracker.Overall())
}
