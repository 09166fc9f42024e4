package report

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultPlotHeight = 12
	DefaultPlotWidth  = 80
	DefaultPlotPaths  = 5
)

// PlotReport draws sample paths (matrix rows) as an ASCII chart. A single
// column result is drawn as one series over its rows.
type PlotReport struct {
	result *mat.Dense
}

func NewPlotReport(result *mat.Dense) Report {
	return &PlotReport{result: result}
}

func (r *PlotReport) Render(opts Options) (Artifact, error) {
	if r.result == nil {
		return nil, ErrEmptyResult
	}

	height, err := opts.Int("height", DefaultPlotHeight)
	if err != nil {
		return nil, err
	}
	width, err := opts.Int("width", DefaultPlotWidth)
	if err != nil {
		return nil, err
	}
	paths, err := opts.Int("paths", DefaultPlotPaths)
	if err != nil {
		return nil, err
	}
	withMean, err := opts.Bool("mean", true)
	if err != nil {
		return nil, err
	}
	if height <= 0 || width <= 0 || paths < 0 {
		return nil, fmt.Errorf("%w: height and width must be positive", ErrInvalidOption)
	}

	rows, cols := r.result.Dims()
	caption := fmt.Sprintf("%d paths x %d steps", rows, cols)

	var series [][]float64
	if cols == 1 {
		caption = fmt.Sprintf("%d samples", rows)
		series = append(series, mat.Col(nil, 0, r.result))
	} else {
		for i := 0; i < min(rows, paths); i++ {
			series = append(series, mat.Row(nil, i, r.result))
		}
		if withMean {
			means := make([]float64, cols)
			for j, col := range columns(r.result) {
				means[j] = stat.Mean(col, nil)
			}
			series = append(series, means)
		}
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: nothing to plot (paths=0, mean=false)", ErrInvalidOption)
	}
	for i, s := range series {
		for k, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: series %d point %d is %v", ErrNonFinite, i, k, v)
			}
		}
	}
	caption = opts.String("caption", caption)

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}
