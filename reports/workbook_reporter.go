package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dosada05/agent-tournament/models"
	"github.com/Dosada05/agent-tournament/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	overallSheet    = "Overall"
	placementsSheet = "Placements"
	matchesSheet    = "Matches"
	maxSheetName    = 31
)

var standingsHeader = []interface{}{"Group", "Rank", "Player", "W", "L", "D", "Pts"}

// WorkbookReporter writes an XLSX workbook once the tournament completes.
type WorkbookReporter struct {
	path string
}

func NewWorkbookReporter(path string) *WorkbookReporter {
	return &WorkbookReporter{path: path}
}

func (r *WorkbookReporter) RoundCompleted(ctx context.Context, report models.RoundReport) error {
	return nil
}

func (r *WorkbookReporter) TournamentCompleted(ctx context.Context, summary models.TournamentSummary) error {
	f, err := BuildWorkbook(summary)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(r.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", r.path, err)
	}
	return nil
}

// BuildWorkbook lays out the overall table first, then placements, one
// standings sheet per round and the full match log.
func BuildWorkbook(summary models.TournamentSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", overallSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}

	overall := [][]interface{}{{"Rank", "Player", "W", "L", "D", "Pts"}}
	for i, s := range summary.Overall {
		overall = append(overall, []interface{}{i + 1, s.Competitor, s.Wins, s.Losses, s.Draws, s.Points})
	}
	if err := writeRows(f, overallSheet, overall); err != nil {
		f.Close()
		return nil, err
	}

	p := summary.Placements
	placements := [][]interface{}{
		{"Placement", "Player"},
		{"Champion", p.Champion},
		{"Runner-up", p.RunnerUp},
		{"Third place", p.Third},
		{"Fourth place", p.Fourth},
	}
	if summary.Degraded != "" {
		placements = append(placements, []interface{}{"Note", summary.Degraded})
	}
	if err := addSheet(f, placementsSheet, placements); err != nil {
		f.Close()
		return nil, err
	}

	names := newSheetNamer(overallSheet, placementsSheet, matchesSheet)
	matches := [][]interface{}{toRow(repositories.ResultHeader)}
	for _, round := range summary.Rounds {
		rows := [][]interface{}{standingsHeader}
		for _, gs := range round.Standings {
			for i, s := range gs.Ranked {
				rows = append(rows, []interface{}{gs.Group, i + 1, s.Competitor, s.Wins, s.Losses, s.Draws, s.Points})
			}
		}
		if err := addSheet(f, names.next(round.Name), rows); err != nil {
			f.Close()
			return nil, err
		}
		for _, o := range round.Outcomes {
			matches = append(matches, toRow(repositories.ResultRow(o)))
		}
	}
	if err := addSheet(f, matchesSheet, matches); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func addSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// sheetNamer turns round names into unique XLSX sheet names. Excel compares
// sheet names case-insensitively.
type sheetNamer struct {
	used map[string]bool
}

func newSheetNamer(reserved ...string) *sheetNamer {
	n := &sheetNamer{used: map[string]bool{"history": true}}
	for _, name := range reserved {
		n.used[strings.ToLower(name)] = true
	}
	return n
}

func (n *sheetNamer) next(round string) string {
	base := sheetName(round)
	name := base
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	n.used[strings.ToLower(name)] = true
	return name
}

// sheetName replaces characters Excel rejects and trims to the sheet name
// limit.
func sheetName(round string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, round)
	name = strings.Trim(truncateRunes(strings.TrimSpace(name), maxSheetName), "' ")
	if name == "" {
		return "Round"
	}
	return name
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
