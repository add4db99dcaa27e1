package reports

import (
	"context"
	"fmt"

	"github.com/Dosada05/agent-tournament/models"
	"github.com/Dosada05/agent-tournament/repositories"
)

// StandingsReporter snapshots every round's ranked tables into a repository.
type StandingsReporter struct {
	repo repositories.StandingRepository
}

func NewStandingsReporter(repo repositories.StandingRepository) *StandingsReporter {
	return &StandingsReporter{repo: repo}
}

func (r *StandingsReporter) RoundCompleted(ctx context.Context, report models.RoundReport) error {
	if err := r.repo.BatchCreate(ctx, report.Round, report.Standings); err != nil {
		return fmt.Errorf("failed to store %s standings: %w", report.Round, err)
	}
	return nil
}

func (r *StandingsReporter) TournamentCompleted(ctx context.Context, summary models.TournamentSummary) error {
	return nil
}
