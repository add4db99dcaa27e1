package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/agent-tournament/models"
	"github.com/lib/pq"
)

var (
	ErrStandingNotStored = errors.New("round standing was not stored")
	ErrRunNotRegistered  = errors.New("tournament run is not registered")
)

// StandingRepository keeps per-round standings snapshots for a run.
type StandingRepository interface {
	BatchCreate(ctx context.Context, round string, standings []models.GroupStandings) error
}

type postgresStandingRepository struct {
	db    *sql.DB
	runID string
}

func NewPostgresStandingRepository(db *sql.DB, runID string) StandingRepository {
	return &postgresStandingRepository{db: db, runID: runID}
}

// BatchCreate writes every ranked row of a round in one transaction.
func (r *postgresStandingRepository) BatchCreate(ctx context.Context, round string, standings []models.GroupStandings) (err error) {
	if len(standings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("BatchCreate failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO round_standings
			(run_id, round, group_name, competitor_id, rank, wins, losses, draws, points, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (run_id, round, competitor_id) DO UPDATE SET
			group_name = EXCLUDED.group_name,
			rank = EXCLUDED.rank,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			draws = EXCLUDED.draws,
			points = EXCLUDED.points,
			updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("BatchCreate failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, gs := range standings {
		for i, s := range gs.Ranked {
			var result sql.Result
			result, err = stmt.ExecContext(ctx, r.runID, round, gs.Group, s.Competitor, i+1, s.Wins, s.Losses, s.Draws, s.Points)
			if err != nil {
				return r.handleStandingError(err, s.Competitor)
			}
			if err = checkAffectedRows(result, ErrStandingNotStored); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *postgresStandingRepository) handleStandingError(err error, competitor string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return fmt.Errorf("%w: %s", ErrRunNotRegistered, r.runID)
	}
	return fmt.Errorf("BatchCreate failed for competitor %s: %w", competitor, err)
}
