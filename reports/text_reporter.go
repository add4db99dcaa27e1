package reports

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Dosada05/agent-tournament/models"
)

const tableRule = "----------------------------------------"

// TextReporter prints standings tables and final results for humans.
type TextReporter struct {
	out         io.Writer
	resultsPath string
}

// NewTextReporter writes to out. resultsPath is only mentioned in the closing
// line and may be empty.
func NewTextReporter(out io.Writer, resultsPath string) *TextReporter {
	return &TextReporter{out: out, resultsPath: resultsPath}
}

func (r *TextReporter) RoundCompleted(ctx context.Context, report models.RoundReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n=== Current Standings (%s) ===\n", report.Round)
	for _, gs := range report.Standings {
		fmt.Fprintf(&b, "\n%s:\n", gs.Group)
		writeStatsTable(&b, gs.Ranked)
	}

	if !report.Final && len(report.Advancing) > 0 {
		b.WriteString("\nAdvancing to next round:\n")
		advancing := make(map[string]bool, len(report.Advancing))
		for _, id := range report.Advancing {
			advancing[id] = true
		}
		for _, gs := range report.Standings {
			var from []string
			for _, id := range gs.Competitors() {
				if advancing[id] {
					from = append(from, id)
				}
			}
			if len(from) > 0 {
				fmt.Fprintf(&b, "From %s: %s\n", gs.Group, strings.Join(from, ", "))
			}
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *TextReporter) TournamentCompleted(ctx context.Context, summary models.TournamentSummary) error {
	var b strings.Builder

	b.WriteString("\n=== TOURNAMENT FINAL RESULTS ===\n\n")
	p := summary.Placements
	writePlacement(&b, "CHAMPION", p.Champion)
	writePlacement(&b, "RUNNER-UP", p.RunnerUp)
	writePlacement(&b, "THIRD PLACE", p.Third)
	writePlacement(&b, "FOURTH PLACE", p.Fourth)
	if summary.Degraded != "" {
		fmt.Fprintf(&b, "\nNote: finals were short-handed (%s)\n", summary.Degraded)
	}

	if r.resultsPath != "" {
		fmt.Fprintf(&b, "\nTournament completed! Full results saved in %s\n", r.resultsPath)
	} else {
		b.WriteString("\nTournament completed!\n")
	}

	b.WriteString("\n=== OVERALL TOURNAMENT STATISTICS ===\n\n")
	writeStatsTable(&b, summary.Overall)
	fmt.Fprintf(&b, "\nMatches played: %d\n", summary.MatchCount())

	_, err := io.WriteString(r.out, b.String())
	return err
}

func writePlacement(b *strings.Builder, label, id string) {
	if id == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, id)
}

func writeStatsTable(b *strings.Builder, stats []models.CompetitorRoundStats) {
	fmt.Fprintf(b, "%-20s %-5s %-5s %-5s %-5s\n", "Player", "W", "L", "D", "Pts")
	b.WriteString(tableRule + "\n")
	for _, s := range stats {
		fmt.Fprintf(b, "%-20s %-5d %-5d %-5d %-5.1f\n", s.Competitor, s.Wins, s.Losses, s.Draws, s.Points)
	}
}
