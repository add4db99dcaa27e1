package models

import (
	"fmt"
	"sort"
)

// RoundLedger maps a round name to every outcome produced in it, failed
// matches included.
type RoundLedger map[string][]MatchOutcome

// RoundState is one entry of the bracket spine.
type RoundState struct {
	Name     string
	Groups   []Group
	Outcomes []MatchOutcome
	Complete bool
}

// Bracket is the append-only tournament state. Rounds are entered in order
// and a completed round is never reopened.
type Bracket struct {
	rounds []*RoundState
}

func NewBracket() *Bracket {
	return &Bracket{}
}

// BeginRound appends a new round. It fails if the name was already used or
// the previous round is still open.
func (b *Bracket) BeginRound(name string, groups []Group) (*RoundState, error) {
	for _, r := range b.rounds {
		if r.Name == name {
			return nil, fmt.Errorf("round %q already entered", name)
		}
	}
	if cur := b.Current(); cur != nil && !cur.Complete {
		return nil, fmt.Errorf("round %q is still in progress", cur.Name)
	}
	state := &RoundState{Name: name, Groups: groups}
	b.rounds = append(b.rounds, state)
	return state, nil
}

// Current returns the most recently entered round, or nil.
func (b *Bracket) Current() *RoundState {
	if len(b.rounds) == 0 {
		return nil
	}
	return b.rounds[len(b.rounds)-1]
}

// Round looks a round up by name.
func (b *Bracket) Round(name string) (*RoundState, bool) {
	for _, r := range b.rounds {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Rounds returns the round states in execution order.
func (b *Bracket) Rounds() []*RoundState {
	out := make([]*RoundState, len(b.rounds))
	copy(out, b.rounds)
	return out
}

// AppendOutcome records an outcome in the current open round. Both
// competitors must belong to the outcome's group.
func (b *Bracket) AppendOutcome(outcome MatchOutcome) error {
	cur := b.Current()
	if cur == nil || cur.Name != outcome.Round {
		return fmt.Errorf("round %q is not the current round", outcome.Round)
	}
	if cur.Complete {
		return fmt.Errorf("round %q is already complete", outcome.Round)
	}
	g, ok := cur.group(outcome.Group)
	if !ok {
		return fmt.Errorf("round %q has no group %q", outcome.Round, outcome.Group)
	}
	if !g.Has(outcome.CompetitorA) || !g.Has(outcome.CompetitorB) {
		return fmt.Errorf("%s vs %s is not a pairing of %s", outcome.CompetitorA, outcome.CompetitorB, outcome.Group)
	}
	cur.Outcomes = append(cur.Outcomes, outcome)
	return nil
}

// CompleteRound closes the current round.
func (b *Bracket) CompleteRound(name string) error {
	cur := b.Current()
	if cur == nil || cur.Name != name {
		return fmt.Errorf("round %q is not the current round", name)
	}
	cur.Complete = true
	return nil
}

// Ledger returns a copy of every round's outcomes keyed by round name.
func (b *Bracket) Ledger() RoundLedger {
	ledger := make(RoundLedger, len(b.rounds))
	for _, r := range b.rounds {
		ledger[r.Name] = append([]MatchOutcome(nil), r.Outcomes...)
	}
	return ledger
}

func (r *RoundState) group(name string) (Group, bool) {
	for _, g := range r.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// SortedOutcomes returns the round's outcomes ordered by group order, then
// sequence number, independent of completion order.
func (r *RoundState) SortedOutcomes() []MatchOutcome {
	order := make(map[string]int, len(r.Groups))
	for i, g := range r.Groups {
		order[g.Name] = i
	}
	out := append([]MatchOutcome(nil), r.Outcomes...)
	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := order[out[i].Group], order[out[j].Group]
		if gi != gj {
			return gi < gj
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out
}
