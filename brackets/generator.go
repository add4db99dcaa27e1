package brackets

import (
	"context"

	"github.com/Dosada05/agent-tournament/models"
)

// Pairing is one scheduled match inside a group. Sequence numbers start at 1
// per group and follow dispatch order.
type Pairing struct {
	Sequence    int
	CompetitorA string
	CompetitorB string
}

type ScheduleGenerator interface {
	GenerateSchedule(ctx context.Context, group models.Group) ([]Pairing, error)

	GetName() string
}
