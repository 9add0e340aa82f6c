// Package chart renders a chart view as a static PNG.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/fsutil"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/viewmodel"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 800
)

// ErrEmpty is returned when no players survive the chart filters.
var ErrEmpty = errors.New("no players match the chart filters")

type Options struct {
	Title  string
	Width  int
	Height int
}

var medianColor = drawing.ColorFromHex("9ca3af")

// Render draws the chart view of s as a PNG.
func Render(w io.Writer, ds *models.Dataset, s viewmodel.State, opts Options) error {
	view := viewmodel.Chart(ds, s)
	if view.Empty() {
		return ErrEmpty
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	xs := make([]float64, len(view.Points))
	ys := make([]float64, len(view.Points))
	var labels []gochart.Value2
	for i, p := range view.Points {
		xs[i], ys[i] = p.X, p.Y
		if p.ShowLabel {
			labels = append(labels, gochart.Value2{XValue: p.X, YValue: p.Y, Label: p.Label})
		}
	}

	dom := view.Domain
	xr := axisRange(dom.Left, dom.Right)
	yr := axisRange(dom.Bottom, dom.Top)

	series := []gochart.Series{
		gochart.ContinuousSeries{
			Name:    "x-median",
			XValues: []float64{view.Stats.XMedian, view.Stats.XMedian},
			YValues: []float64{yr.Min, yr.Max},
			Style:   medianStyle(),
		},
		gochart.ContinuousSeries{
			Name:    "y-mid",
			XValues: []float64{xr.Min, xr.Max},
			YValues: []float64{view.Stats.YMid, view.Stats.YMid},
			Style:   medianStyle(),
		},
		gochart.ContinuousSeries{
			Name:    "players",
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotColorProvider: func(_, _ gochart.Range, index int, _, _ float64) drawing.Color {
					return hexColor(view.Points[index].Quadrant.Color()).WithAlpha(204)
				},
				DotWidthProvider: func(_, _ gochart.Range, index int, _, _ float64) float64 {
					return view.Points[index].Size / 2
				},
			},
		},
	}
	if len(labels) > 0 {
		series = append(series, gochart.AnnotationSeries{Name: "labels", Annotations: labels})
	}

	ch := gochart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 24, Left: 16, Right: 24, Bottom: 16}},
		XAxis:      gochart.XAxis{Name: s.XField.Label(), Range: xr},
		YAxis:      gochart.YAxis{Name: s.YField.Label(), Range: yr},
		Series:     series,
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

// WriteFile renders the chart and replaces path in one step.
func WriteFile(path string, ds *models.Dataset, s viewmodel.State, opts Options) error {
	var buf bytes.Buffer
	if err := Render(&buf, ds, s, opts); err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing chart %s: %w", path, err)
	}
	return nil
}

// axisRange widens a degenerate domain so the renderer has a non-zero span.
func axisRange(lo, hi float64) *gochart.ContinuousRange {
	if hi <= lo {
		lo, hi = lo-1, lo+1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

func medianStyle() gochart.Style {
	return gochart.Style{
		StrokeColor:     medianColor,
		StrokeWidth:     1,
		StrokeDashArray: []float64{4, 4},
	}
}

func hexColor(c string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
}
