package out

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/cli/browser"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	practiceout "typetrack/internal/modules/practice/port/out"
)

// EChartsRenderer draws practice minutes per day as bars with the weekday goal as a line.
type EChartsRenderer struct {
	Theme string
}

func NewEChartsRenderer() *EChartsRenderer {
	return &EChartsRenderer{Theme: "macarons"}
}

var _ practiceout.ChartRenderer = (*EChartsRenderer)(nil)

func (r *EChartsRenderer) Render(_ context.Context, points []practiceout.ChartPoint, path string) error {
	bar := r.build(points)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := bar.Render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write chart: %w", err)
	}
	return f.Close()
}

func (r *EChartsRenderer) build(points []practiceout.ChartPoint) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: r.Theme, PageTitle: "typetrack history"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Typing practice",
			Subtitle: fmt.Sprintf("%d days", len(points)),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "Minutes",
			NameLocation: "middle",
			NameGap:      40,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
			AxisPointer: &opts.AxisPointer{
				Type: "shadow",
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "bottom"}),
	)

	days := make([]string, 0, len(points))
	minutes := make([]opts.BarData, 0, len(points))
	goals := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		days = append(days, p.Day.UTC().Format("2006-01-02"))
		minutes = append(minutes, opts.BarData{Value: math.Round(p.Minutes*10) / 10})
		goals = append(goals, opts.LineData{Value: p.Goal})
	}
	bar.SetXAxis(days).AddSeries("Minutes typed", minutes)

	line := charts.NewLine()
	line.SetXAxis(days).AddSeries("Goal", goals)
	bar.Overlap(line)
	return bar
}

// BrowserOpener opens rendered files with the platform browser.
type BrowserOpener struct{}

func (BrowserOpener) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return browser.OpenFile(abs)
}
