package observer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/beka-birhanu/vinom-qmaze/qtable"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ErrNoTable is returned when a heatmap is requested for a store holding no table.
var ErrNoTable = errors.New("no value table stored")

// heatmapColors runs from low to high state value.
var heatmapColors = []string{"#313695", "#4575b4", "#abd9e9", "#fee090", "#f46d43", "#a50026"}

// RenderHeatmap loads the table from store and writes its heatmap to w.
func RenderHeatmap(ctx context.Context, store qtable.Store, w io.Writer, title string) error {
	t, found, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		return ErrNoTable
	}
	return WriteHeatmap(t, w, title)
}

// WriteHeatmap writes an HTML page plotting the mean action value of every
// state at its (column, row) position, row 0 on top.
func WriteHeatmap(t *qtable.Table, w io.Writer, title string) error {
	data, rows, cols, lo, hi := heatmapData(t)

	xs := make([]string, cols)
	for c := range xs {
		xs[c] = strconv.Itoa(c)
	}
	ys := make([]string, rows)
	for r := range ys {
		ys[r] = strconv.Itoa(r)
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "1000px",
			Height:    "800px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d states, mean action value", t.Len()),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      xs,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      ys,
			Inverse:   opts.Bool(true),
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: heatmapColors},
		}),
	)
	hm.SetXAxis(xs).AddSeries("value", data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}
	return nil
}

// heatmapData returns one point per state and the value range. rows and cols
// span the largest state index.
func heatmapData(t *qtable.Table) (data []opts.HeatMapData, rows, cols int, lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range t.States() {
		mean, err := t.Mean(s)
		if err != nil {
			continue
		}
		data = append(data, opts.HeatMapData{Value: [3]interface{}{s.Col, s.Row, mean}})
		rows = max(rows, s.Row+1)
		cols = max(cols, s.Col+1)
		lo = math.Min(lo, mean)
		hi = math.Max(hi, mean)
	}
	if len(data) == 0 {
		return nil, 0, 0, 0, 0
	}
	if lo == hi {
		hi = lo + 1
	}
	return data, rows, cols, lo, hi
}
