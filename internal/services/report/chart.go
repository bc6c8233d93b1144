package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/saveplan/internal/models"
)

var (
	isaColor     = drawing.ColorFromHex("16a34a") // green-600
	taxableColor = drawing.ColorFromHex("2563eb") // blue-600
)

// RenderAllocationChart renders a PNG bar chart of the amount in each account.
// ISA accounts are green, taxable accounts blue. Returns raw PNG bytes.
func RenderAllocationChart(result *models.OptimizationResult) ([]byte, error) {
	if result == nil || len(result.Investments) == 0 {
		return nil, fmt.Errorf("no investments to chart")
	}

	bars := make([]chart.Value, 0, len(result.Investments)+1)
	for _, inv := range result.Investments {
		color := taxableColor
		if inv.IsISA {
			color = isaColor
		}
		bars = append(bars, chart.Value{
			Label: inv.AccountName,
			Value: inv.Amount,
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
			},
		})
	}

	// A single bar has a zero value range, which go-chart refuses to draw
	if len(bars) == 1 {
		bars = append(bars, chart.Value{Label: " ", Value: 0})
	}

	graph := chart.BarChart{
		Title:  "Where your money goes",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth: 60,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("£%.0fk", f/1000)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
