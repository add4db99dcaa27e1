package brackets

import (
	"fmt"

	"github.com/Dosada05/agent-tournament/models"
)

// FinalsSetup is the irregular last transition: a championship pairing and,
// when four or more competitors remain, a third-place pairing.
type FinalsSetup struct {
	Groups []models.Group
	// Degraded is set when fewer than four competitors reached the finals.
	Degraded bool
	Reason   string
}

// SelectAdvancing takes the top perGroup competitors of every group, in
// group order. Groups smaller than perGroup advance all their members.
func SelectAdvancing(standings []models.GroupStandings, perGroup int) []string {
	advancing := make([]string, 0, len(standings)*perGroup)
	for _, g := range standings {
		n := min(perGroup, len(g.Ranked))
		for _, s := range g.Ranked[:n] {
			advancing = append(advancing, s.Competitor)
		}
	}
	return advancing
}

// NextRoundGroups is the standard transition: pool the advancing competitors
// of the finished round, shuffle the pool and regroup it into next.Groups
// groups.
func NextRoundGroups(standings []models.GroupStandings, perGroup int, next models.RoundSpec, policy models.PartitionPolicy, shuffler Shuffler) ([]models.Group, error) {
	pool := SelectAdvancing(standings, perGroup)
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: nobody advances into %s", ErrInsufficientCompetitors, next.Name)
	}
	shuffler.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return Partition(pool, next.Groups, policy)
}

// MergeRanked ranks every member of every group of a round in one table.
func MergeRanked(standings []models.GroupStandings) []models.CompetitorRoundStats {
	all := make([]models.CompetitorRoundStats, 0)
	for _, g := range standings {
		all = append(all, g.Ranked...)
	}
	return models.RankStats(all)
}

// SetupFinals splits the ranked penultimate round into the championship
// pairing (ranks 1-2) and the third-place pairing (ranks 3-4). With two or
// three competitors only the championship is formed; a lone competitor gets
// a championship group of one. Both cases are flagged as degraded.
func SetupFinals(ranked []models.CompetitorRoundStats) (FinalsSetup, error) {
	ids := make([]string, len(ranked))
	for i, s := range ranked {
		ids[i] = s.Competitor
	}

	switch n := len(ids); {
	case n >= 4:
		return FinalsSetup{
			Groups: []models.Group{
				{Name: models.ChampionshipGroup, Members: []string{ids[0], ids[1]}},
				{Name: models.ThirdPlaceGroup, Members: []string{ids[2], ids[3]}},
			},
		}, nil
	case n >= 2:
		return FinalsSetup{
			Groups: []models.Group{
				{Name: models.ChampionshipGroup, Members: []string{ids[0], ids[1]}},
			},
			Degraded: true,
			Reason:   fmt.Sprintf("only %d finalists, third-place match skipped", n),
		}, nil
	case n == 1:
		return FinalsSetup{
			Groups: []models.Group{
				{Name: models.ChampionshipGroup, Members: []string{ids[0]}},
			},
			Degraded: true,
			Reason:   "only one finalist, championship decided by walkover",
		}, nil
	default:
		return FinalsSetup{}, fmt.Errorf("%w: no finalists", ErrInsufficientCompetitors)
	}
}

// FinalPlacements reads the podium off the final round's standings.
func FinalPlacements(final []models.GroupStandings) models.Placements {
	var p models.Placements
	for _, g := range final {
		ranked := g.Competitors()
		switch g.Group {
		case models.ChampionshipGroup:
			p.Champion = at(ranked, 0)
			p.RunnerUp = at(ranked, 1)
		case models.ThirdPlaceGroup:
			p.Third = at(ranked, 0)
			p.Fourth = at(ranked, 1)
		}
	}
	return p
}

func at(ids []string, i int) string {
	if i < len(ids) {
		return ids[i]
	}
	return ""
}
