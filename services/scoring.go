package services

import "github.com/Dosada05/agent-tournament/models"

// ScoringPolicy turns outcomes into record and point deltas.
type ScoringPolicy struct {
	WinPoints  float64
	DrawPoints float64
}

func NewScoringPolicy(rules models.ScoringRules) ScoringPolicy {
	return ScoringPolicy{WinPoints: rules.WinPoints, DrawPoints: rules.DrawPoints}
}

// Apply credits one outcome to the participants' records. Either record may
// be nil when the competitor is not tracked in this group. Errored outcomes
// and outcomes without a recognised winner leave both records untouched.
func (p ScoringPolicy) Apply(a, b *models.CompetitorRoundStats, outcome models.MatchOutcome) bool {
	if !outcome.Scored() {
		return false
	}

	if outcome.IsDraw {
		for _, s := range []*models.CompetitorRoundStats{a, b} {
			if s != nil {
				s.Draws++
				s.Points += p.DrawPoints
			}
		}
		return true
	}

	var winner, loser *models.CompetitorRoundStats
	switch outcome.Winner {
	case outcome.CompetitorA:
		winner, loser = a, b
	case outcome.CompetitorB:
		winner, loser = b, a
	default:
		return false
	}
	if winner != nil {
		winner.Wins++
		winner.Points += p.WinPoints
	}
	if loser != nil {
		loser.Losses++
	}
	return true
}

