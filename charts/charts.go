// Package charts renders hot-combination statistics as standalone echarts pages.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/cppla/chanceboard/draws"
)

// ChartConfig holds presentation options for a chart.
type ChartConfig struct {
	Title    string
	Subtitle string
	Width    string
	Height   string
	Theme    string
	Color    string
}

// DefaultChartConfig returns the dashboard's gold-on-light look.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
		Color:  "#D4A017",
	}
}

// RenderHotBar writes a bar chart of stats (one bar per combination) to w.
func RenderHotBar(w io.Writer, stats []draws.CombinationStat, config ChartConfig) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: config.Title,
			Width:     config.Width,
			Height:    config.Height,
			Theme:     config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithColorsOpts(opts.Colors{config.Color}),
	)

	labels := make([]string, len(stats))
	values := make([]opts.BarData, len(stats))
	for i, s := range stats {
		labels[i] = string(s.Key)
		values[i] = opts.BarData{Value: s.Count}
	}

	bar.SetXAxis(labels).
		AddSeries(draws.ColCount, values).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "top",
			}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
