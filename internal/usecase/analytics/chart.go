package analytics

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// palette matches the dashboard chart colors.
var palette = []string{"0088FE", "00C49F", "FFBB28", "FF8042", "8884d8", "ff4d4d"}

func sliceStyle(i int) chart.Style {
	return chart.Style{FillColor: drawing.ColorFromHex(palette[i%len(palette)])}
}

// RenderStatusPie renders the loan status distribution as a PNG pie chart.
func RenderStatusPie(counts []StatusCount) ([]byte, error) {
	values := make([]chart.Value, 0, len(counts))
	for i, c := range counts {
		if c.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", c.Status, c.Count),
			Value: float64(c.Count),
			Style: sliceStyle(i),
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Title:  "Loan Status Distribution",
		Width:  600,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 30, Left: 10, Right: 10, Bottom: 10},
		},
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderBucketBars renders a histogram as a PNG bar chart. Empty buckets are
// drawn as zero-height bars so the axis labels stay stable.
func RenderBucketBars(title string, buckets []Bucket) ([]byte, error) {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total == 0 {
		return nil, ErrNoData
	}

	bars := make([]chart.Value, 0, len(buckets))
	for i, b := range buckets {
		bars = append(bars, chart.Value{
			Label: b.Label,
			Value: float64(b.Count),
			Style: sliceStyle(i),
		})
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    700,
		Height:   400,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
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
