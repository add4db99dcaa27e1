package reports

import (
	"context"
	"errors"

	"github.com/Dosada05/agent-tournament/models"
	"github.com/Dosada05/agent-tournament/services"
)

// MultiReporter forwards every event to all reporters. Every reporter sees
// every event; the errors are joined.
type MultiReporter struct {
	reporters []services.Reporter
}

func NewMultiReporter(reporters ...services.Reporter) *MultiReporter {
	return &MultiReporter{reporters: reporters}
}

func (m *MultiReporter) RoundCompleted(ctx context.Context, report models.RoundReport) error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.RoundCompleted(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiReporter) TournamentCompleted(ctx context.Context, summary models.TournamentSummary) error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.TournamentCompleted(ctx, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
