package models

// MatchOutcome is the result of a single pairing. When Error is non-empty the
// Winner and IsDraw fields carry no meaning and the match is not scored.
type MatchOutcome struct {
	Round       string `json:"round"`
	Group       string `json:"group"`
	Sequence    int    `json:"game_number"`
	CompetitorA string `json:"player1"`
	CompetitorB string `json:"player2"`
	Winner      string `json:"winner,omitempty"`
	IsDraw      bool   `json:"is_draw"`
	Error       string `json:"error,omitempty"`
}

// Scored reports whether the outcome contributes to standings.
func (o MatchOutcome) Scored() bool {
	return o.Error == ""
}
