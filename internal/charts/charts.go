// Package charts renders the report page graphics server-side as PNGs.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"borsa/internal/core"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// CategoryPie renders the spending-by-category breakdown for a month.
// Returns nil bytes when there is nothing to draw.
func (r *Renderer) CategoryPie(report core.MonthReport) ([]byte, error) {
	if len(report.ByCategory) == 0 {
		return nil, nil
	}

	var total float64
	for _, cat := range report.ByCategory {
		total += cat.Amount.Units()
	}
	if total <= 0 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(report.ByCategory))
	for _, cat := range report.ByCategory {
		amount := cat.Amount.Units()
		percentage := amount / total * 100
		// Slivers under 1% clutter the pie more than they inform.
		if percentage <= 1.0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %.2f (%.1f%%)", cat.Name, amount, percentage),
			Value: amount,
		})
	}
	if len(values) == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Title:  fmt.Sprintf("Spending by category %04d-%02d", report.Year, report.Month),
		Width:  800,
		Height: 600,
		Values: values,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 40, Right: 40, Bottom: 40},
			FillColor: chart.ColorWhite,
		},
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category pie: %w", err)
	}
	return buf.Bytes(), nil
}

// DebitCreditBars renders total debits against total credits for a month.
func (r *Renderer) DebitCreditBars(report core.MonthReport) ([]byte, error) {
	if report.Debits.Cents == 0 && report.Credits.Cents == 0 {
		return nil, nil
	}

	bars := []chart.Value{
		{
			Label: fmt.Sprintf("Debits: %.2f", report.Debits.Units()),
			Value: report.Debits.Units(),
			Style: chart.Style{
				StrokeColor: chart.ColorRed,
				FillColor:   chart.ColorRed.WithAlpha(160),
			},
		},
		{
			Label: fmt.Sprintf("Credits: %.2f", report.Credits.Units()),
			Value: report.Credits.Units(),
			Style: chart.Style{
				StrokeColor: chart.ColorGreen,
				FillColor:   chart.ColorGreen.WithAlpha(160),
			},
		},
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Debits vs credits %04d-%02d", report.Year, report.Month),
		Width:    800,
		Height:   400,
		BarWidth: 80,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 40, Right: 40, Bottom: 40},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render debit/credit bars: %w", err)
	}
	return buf.Bytes(), nil
}
