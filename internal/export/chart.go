package export

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/piwi3910/boardcut/internal/engine"
)

// RenderComparisonChart writes an HTML page with a bar chart of total cost
// and cutting cost per strategy. Skipped scenarios are left out.
func RenderComparisonChart(w io.Writer, results []engine.ComparisonResult) error {
	var names []string
	var totals, cutting []opts.BarData
	for _, r := range results {
		if r.Skipped {
			continue
		}
		names = append(names, r.Scenario.Name)
		totals = append(totals, opts.BarData{Value: r.TotalCost.Float()})
		cutting = append(cutting, opts.BarData{Value: r.CuttingCost.Float()})
	}
	if len(names) == 0 {
		return fmt.Errorf("no strategy results to chart")
	}

	subtitle := ""
	if best := engine.Cheapest(results); best >= 0 {
		subtitle = fmt.Sprintf("Cheapest: %s at %s with %d boards",
			results[best].Scenario.Name, results[best].TotalCost, results[best].BoardsUsed)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "boardcut strategy comparison"}),
		charts.WithTitleOpts(opts.Title{Title: "Strategy comparison", Subtitle: subtitle}),
	)
	bar.SetXAxis(names).
		AddSeries("Total cost", totals).
		AddSeries("Cutting cost", cutting)

	return bar.Render(w)
}

// ExportComparisonChart renders the comparison chart to a file.
func ExportComparisonChart(path string, results []engine.ComparisonResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := RenderComparisonChart(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
