package repositories

import (
	"context"
	"errors"

	"github.com/Dosada05/agent-tournament/models"
)

var (
	ErrResultNotStored  = errors.New("match result was not stored")
	ErrDuplicateResult  = errors.New("match result already recorded")
	ErrRepositoryClosed = errors.New("result repository is closed")
)

// ResultHeader is the column order of the row-oriented result log.
var ResultHeader = []string{
	"Round", "Group", "Game Number", "Player 1", "Player 2", "Winner", "Is Draw", "Error",
}

// ResultRepository is the durable, row-oriented match log. Save must not
// return before the row is persisted.
type ResultRepository interface {
	WriteHeader(ctx context.Context) error
	Save(ctx context.Context, outcome models.MatchOutcome) error
	Close() error
}

type multiResultRepository struct {
	repos []ResultRepository
}

// NewMultiResultRepository writes every call through to all repos in order
// and stops at the first failure.
func NewMultiResultRepository(repos ...ResultRepository) ResultRepository {
	return &multiResultRepository{repos: repos}
}

func (m *multiResultRepository) WriteHeader(ctx context.Context) error {
	for _, r := range m.repos {
		if err := r.WriteHeader(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiResultRepository) Save(ctx context.Context, outcome models.MatchOutcome) error {
	for _, r := range m.repos {
		if err := r.Save(ctx, outcome); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiResultRepository) Close() error {
	var errs []error
	for _, r := range m.repos {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
