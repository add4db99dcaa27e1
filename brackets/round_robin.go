package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/agent-tournament/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() ScheduleGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobinWithSwap"
}

// GenerateSchedule pairs every member with every other member twice, once
// per side. Pairs are enumerated i < j in member order and the swapped leg
// follows immediately, so a group of k produces k*(k-1) pairings.
func (g *RoundRobinGenerator) GenerateSchedule(ctx context.Context, group models.Group) ([]Pairing, error) {
	members := group.Members
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if seen[m] {
			return nil, fmt.Errorf("RoundRobinGenerator: competitor %q listed twice in %s", m, group.Name)
		}
		seen[m] = true
	}

	k := len(members)
	pairings := make([]Pairing, 0, k*(k-1))
	sequence := 0

	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			sequence++
			pairings = append(pairings, Pairing{
				Sequence:    sequence,
				CompetitorA: members[i],
				CompetitorB: members[j],
			})

			// Second leg with sides swapped.
			sequence++
			pairings = append(pairings, Pairing{
				Sequence:    sequence,
				CompetitorA: members[j],
				CompetitorB: members[i],
			})
		}
	}

	return pairings, nil
}
