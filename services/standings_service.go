package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Dosada05/agent-tournament/models"
)

type groupStats struct {
	name  string
	order []string
	stats map[string]*models.CompetitorRoundStats
}

type roundStats struct {
	groups []*groupStats
}

// StandingsTracker keeps per-round, per-group records. It is safe for
// concurrent use.
type StandingsTracker struct {
	mu     sync.Mutex
	policy ScoringPolicy
	rounds map[string]*roundStats
}

func NewStandingsTracker(policy ScoringPolicy) *StandingsTracker {
	return &StandingsTracker{
		policy: policy,
		rounds: make(map[string]*roundStats),
	}
}

// BeginRound creates a zeroed record for every member of every group.
func (t *StandingsTracker) BeginRound(round string, groups []models.Group) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.rounds[round]; exists {
		return fmt.Errorf("standings for %q already initialised", round)
	}

	rs := &roundStats{}
	for _, g := range groups {
		gs := &groupStats{
			name:  g.Name,
			order: append([]string(nil), g.Members...),
			stats: make(map[string]*models.CompetitorRoundStats, len(g.Members)),
		}
		for _, m := range g.Members {
			gs.stats[m] = &models.CompetitorRoundStats{Competitor: m}
		}
		rs.groups = append(rs.groups, gs)
	}
	t.rounds[round] = rs
	return nil
}

// Update scores a batch of outcomes for the round. Outcomes with an error,
// for an unknown group, or naming competitors outside the group are skipped.
// It returns how many outcomes were scored.
func (t *StandingsTracker) Update(round string, outcomes []models.MatchOutcome) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rs, ok := t.rounds[round]
	if !ok {
		return 0, fmt.Errorf("standings for %q not initialised", round)
	}

	scored := 0
	for _, o := range outcomes {
		gs := rs.group(o.Group)
		if gs == nil {
			continue
		}
		a, b := gs.stats[o.CompetitorA], gs.stats[o.CompetitorB]
		if a == nil || b == nil {
			continue
		}
		if t.policy.Apply(a, b, o) {
			scored++
		}
	}
	return scored, nil
}

// Standings returns the ranked tables of a round in group order.
func (t *StandingsTracker) Standings(round string) ([]models.GroupStandings, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rs, ok := t.rounds[round]
	if !ok {
		return nil, fmt.Errorf("standings for %q not initialised", round)
	}

	out := make([]models.GroupStandings, 0, len(rs.groups))
	for _, gs := range rs.groups {
		stats := make([]models.CompetitorRoundStats, 0, len(gs.order))
		for _, m := range gs.order {
			stats = append(stats, *gs.stats[m])
		}
		out = append(out, models.GroupStandings{Group: gs.name, Ranked: models.RankStats(stats)})
	}
	return out, nil
}

// Overall sums every competitor's records across all rounds and ranks them.
func (t *StandingsTracker) Overall() []models.CompetitorRoundStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	totals := make(map[string]*models.CompetitorRoundStats)
	for _, rs := range t.rounds {
		for _, gs := range rs.groups {
			for id, s := range gs.stats {
				total, ok := totals[id]
				if !ok {
					total = &models.CompetitorRoundStats{Competitor: id}
					totals[id] = total
				}
				total.Add(*s)
			}
		}
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	all := make([]models.CompetitorRoundStats, 0, len(ids))
	for _, id := range ids {
		all = append(all, *totals[id])
	}
	return models.RankStats(all)
}

func (rs *roundStats) group(name string) *groupStats {
	for _, gs := range rs.groups {
		if gs.name == name {
			return gs
		}
	}
	return nil
}
