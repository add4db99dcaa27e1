package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/agent-tournament/models"
	"github.com/lib/pq"
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type postgresResultRepository struct {
	exec  SQLExecutor
	runID string
	game  string
}

// NewPostgresResultRepository stores results in match_results, keyed by run.
// The connection is owned by the caller.
func NewPostgresResultRepository(exec SQLExecutor, runID string, game models.GameKind) ResultRepository {
	return &postgresResultRepository{exec: exec, runID: runID, game: string(game)}
}

// WriteHeader registers the run so result rows have a parent.
func (r *postgresResultRepository) WriteHeader(ctx context.Context) error {
	query := `
		INSERT INTO tournament_runs (run_id, game, started_at)
		VALUES ($1, $2, NOW())`

	result, err := r.exec.ExecContext(ctx, query, r.runID, r.game)
	if err != nil {
		return r.handleResultError(err)
	}
	return checkAffectedRows(result, ErrResultNotStored)
}

func (r *postgresResultRepository) Save(ctx context.Context, o models.MatchOutcome) error {
	query := `
		INSERT INTO match_results
			(run_id, round, group_name, game_number, player1, player2, winner, is_draw, error, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`

	result, err := r.exec.ExecContext(ctx, query,
		r.runID,
		o.Round,
		o.Group,
		o.Sequence,
		o.CompetitorA,
		o.CompetitorB,
		nullString(o.Winner),
		o.IsDraw,
		nullString(o.Error),
	)
	if err != nil {
		return r.handleResultError(err)
	}
	return checkAffectedRows(result, ErrResultNotStored)
}

func (r *postgresResultRepository) Close() error {
	return nil
}

func (r *postgresResultRepository) handleResultError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicateResult, pqErr.Constraint)
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", ErrRunNotRegistered, r.runID)
		}
	}
	return fmt.Errorf("failed to store match result: %w", err)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
