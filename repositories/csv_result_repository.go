package repositories

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/Dosada05/agent-tournament/models"
)

type csvResultRepository struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
	closed bool
}

// NewCSVResultRepository creates (or truncates) path and logs results to it.
func NewCSVResultRepository(path string) (ResultRepository, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create results file %s: %w", path, err)
	}
	return &csvResultRepository{w: csv.NewWriter(f), closer: f}, nil
}

// NewCSVResultWriter logs results to an arbitrary writer. Close is a no-op
// on the writer itself.
func NewCSVResultWriter(w io.Writer) ResultRepository {
	return &csvResultRepository{w: csv.NewWriter(w)}
}

func (r *csvResultRepository) WriteHeader(ctx context.Context) error {
	return r.write(ResultHeader)
}

func (r *csvResultRepository) Save(ctx context.Context, outcome models.MatchOutcome) error {
	return r.write(ResultRow(outcome))
}

func (r *csvResultRepository) write(record []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRepositoryClosed
	}
	if err := r.w.Write(record); err != nil {
		return fmt.Errorf("failed to write result row: %w", err)
	}
	// Flush per row: a crash must not lose completed matches.
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return fmt.Errorf("failed to flush result row: %w", err)
	}
	return nil
}

func (r *csvResultRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.w.Flush()
	if r.closer != nil {
		return r.closer.Close()
	}
	return r.w.Error()
}

// ResultRow renders an outcome in ResultHeader column order.
func ResultRow(o models.MatchOutcome) []string {
	return []string{
		o.Round,
		o.Group,
		strconv.Itoa(o.Sequence),
		o.CompetitorA,
		o.CompetitorB,
		o.Winner,
		strconv.FormatBool(o.IsDraw),
		o.Error,
	}
}
