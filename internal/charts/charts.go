// Package charts renders deck statistics as interactive HTML charts.
package charts

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title    string
	Subtitle string
	Width    string // e.g. "900px"
	Height   string // e.g. "500px"
	Theme    string
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
	}
}

// manaColors maps color symbols to the conventional Magic pie colors,
// in WUBRG order for deterministic slices.
var manaColors = []struct {
	symbol string
	label  string
	hex    string
}{
	{deckbuilder.ColorWhite, "White", "#F8F6D8"},
	{deckbuilder.ColorBlue, "Blue", "#5470C6"},
	{deckbuilder.ColorBlack, "Black", "#4B4453"},
	{deckbuilder.ColorRed, "Red", "#EE6666"},
	{deckbuilder.ColorGreen, "Green", "#91CC75"},
}

// RenderManaCurve writes the deck's mana curve as a bar chart HTML file.
func RenderManaCurve(stats *deckbuilder.DeckStatistics, config ChartConfig, outputPath string) error {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithColorsOpts(opts.Colors{"#5470C6"}),
	)

	buckets := curveBuckets(stats.ManaCurve)
	xLabels := make([]string, len(buckets))
	yData := make([]opts.BarData, len(buckets))
	for i, b := range buckets {
		xLabels[i] = b.label
		yData[i] = opts.BarData{Value: b.count}
	}

	bar.SetXAxis(xLabels).
		AddSeries("Cards", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "top",
			}),
		)

	return renderToFile(bar, outputPath)
}

// RenderColorDistribution writes the deck's color pip distribution as a pie
// chart HTML file. Colorless-only decks produce a single "Colorless" slice.
func RenderColorDistribution(stats *deckbuilder.DeckStatistics, config ChartConfig, outputPath string) error {
	pie := charts.NewPie()

	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)

	var data []opts.PieData
	for _, mc := range manaColors {
		count := stats.ColorCounts[mc.symbol]
		if count == 0 {
			continue
		}
		data = append(data, opts.PieData{
			Name:      mc.label,
			Value:     count,
			ItemStyle: &opts.ItemStyle{Color: mc.hex},
		})
	}
	if len(data) == 0 {
		data = append(data, opts.PieData{Name: "Colorless", Value: stats.TotalCards})
	}

	pie.AddSeries("Colors", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c}",
			}),
		)

	return renderToFile(pie, outputPath)
}

type curveBucket struct {
	label string
	count int
}

// curveBuckets flattens the CMC histogram into ordered labeled buckets,
// padding gaps with zero so the curve shape stays readable.
func curveBuckets(curve map[int]int) []curveBucket {
	maxCMC := 0
	for cmc := range curve {
		if cmc > maxCMC {
			maxCMC = cmc
		}
	}
	if maxCMC < 7 {
		maxCMC = 7
	}

	keys := make([]int, 0, maxCMC+1)
	for cmc := 0; cmc <= maxCMC; cmc++ {
		keys = append(keys, cmc)
	}
	sort.Ints(keys)

	buckets := make([]curveBucket, 0, len(keys))
	for _, cmc := range keys {
		label := fmt.Sprintf("%d", cmc)
		if cmc == maxCMC {
			label = fmt.Sprintf("%d+", cmc)
		}
		buckets = append(buckets, curveBucket{label: label, count: curve[cmc]})
	}
	return buckets
}

// renderable covers the go-echarts chart types used here.
type renderable interface {
	Render(w io.Writer) error
}

func renderToFile(chart renderable, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create chart directory: %w", err)
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
