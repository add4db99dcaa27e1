package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Dosada05/agent-tournament/models"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartHeight   = 480
	chartMinWidth = 640
	barWidth      = 40
	barSpacing    = 20
)

// ChartReporter renders overall points as a PNG bar chart.
type ChartReporter struct {
	path string
}

func NewChartReporter(path string) *ChartReporter {
	return &ChartReporter{path: path}
}

func (r *ChartReporter) RoundCompleted(ctx context.Context, report models.RoundReport) error {
	return nil
}

func (r *ChartReporter) TournamentCompleted(ctx context.Context, summary models.TournamentSummary) error {
	if len(summary.Overall) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := RenderPointsChart(&buf, string(summary.Game), summary.Overall); err != nil {
		return err
	}
	if err := os.WriteFile(r.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write chart %s: %w", r.path, err)
	}
	return nil
}

// RenderPointsChart draws one bar per competitor in the given order.
func RenderPointsChart(w io.Writer, title string, stats []models.CompetitorRoundStats) error {
	if len(stats) == 0 {
		return fmt.Errorf("no standings to chart")
	}

	maxPoints := 1.0
	bars := make([]chart.Value, 0, len(stats))
	for _, s := range stats {
		if s.Points > maxPoints {
			maxPoints = s.Points
		}
		bars = append(bars, chart.Value{Label: s.Competitor, Value: s.Points})
	}

	width := len(stats)*(barWidth+barSpacing) + 2*barSpacing + 80
	if width < chartMinWidth {
		width = chartMinWidth
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("%s: total points", title),
		Width:      width,
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: drawing.ColorWhite,
		},
		// All-zero values break automatic ranging, so the range is explicit.
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxPoints},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render points chart: %w", err)
	}
	return nil
}
