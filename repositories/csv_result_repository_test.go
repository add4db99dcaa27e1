package repositories

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dosada05/agent-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVResultRepository_WritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	repo, err := NewCSVResultRepository(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repo.WriteHeader(ctx))
	require.NoError(t, repo.Save(ctx, models.MatchOutcome{
		Round: "Round 1", Group: "Group A", Sequence: 1,
		CompetitorA: "alpha", CompetitorB: "beta", Winner: "alpha",
	}))

	// Rows are visible before Close.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ResultHeader, records[0])
	assert.Equal(t, []string{"Round 1", "Group A", "1", "alpha", "beta", "alpha", "false", ""}, records[1])

	require.NoError(t, repo.Close())
	assert.ErrorIs(t, repo.Save(ctx, models.MatchOutcome{}), ErrRepositoryClosed)
}

func TestResultRow(t *testing.T) {
	tests := []struct {
		name    string
		outcome models.MatchOutcome
		want    []string
	}{
		{
			name:    "draw",
			outcome: models.MatchOutcome{Round: "Final Round", Group: "Championship", Sequence: 2, CompetitorA: "a", CompetitorB: "b", IsDraw: true},
			want:    []string{"Final Round", "Championship", "2", "a", "b", "", "true", ""},
		},
		{
			name:    "execution error",
			outcome: models.MatchOutcome{Round: "Round 1", Group: "Group B", Sequence: 3, CompetitorA: "a", CompetitorB: "b", Error: "no result found in referee output"},
			want:    []string{"Round 1", "Group B", "3", "a", "b", "", "false", "no result found in referee output"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResultRow(tt.outcome))
		})
	}
}

func TestCSVResultWriter_QuotesErrorText(t *testing.T) {
	var buf bytes.Buffer
	repo := NewCSVResultWriter(&buf)
	require.NoError(t, repo.Save(context.Background(), models.MatchOutcome{
		Round: "Round 1", Group: "Group A", Sequence: 1, CompetitorA: "a", CompetitorB: "b",
		Error: "Error: refused, retry",
	}))
	assert.Contains(t, buf.String(), `"Error: refused, retry"`)
}
