package export

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/uncertainty/internal/report"
)

// SVGReport renders sample paths and their mean as an SVG document. It is not
// one of the built-in reports; select it with report.Custom(NewSVGReport).
type SVGReport struct {
	result *mat.Dense
}

func NewSVGReport(result *mat.Dense) report.Report {
	return &SVGReport{result: result}
}

func (r *SVGReport) Render(opts report.Options) (report.Artifact, error) {
	if r.result == nil {
		return nil, report.ErrEmptyResult
	}

	width, err := opts.Int("width", 800)
	if err != nil {
		return nil, err
	}
	height, err := opts.Int("height", 400)
	if err != nil {
		return nil, err
	}
	paths, err := opts.Int("paths", 20)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || paths < 0 {
		return nil, fmt.Errorf("%w: width and height must be positive", report.ErrInvalidOption)
	}

	rows, cols := r.result.Dims()
	var series [][]float64
	if cols == 1 {
		series = append(series, mat.Col(nil, 0, r.result))
	} else {
		for i := 0; i < min(rows, paths); i++ {
			series = append(series, mat.Row(nil, i, r.result))
		}
	}

	means := make([]float64, 0, cols)
	if cols > 1 {
		for j := 0; j < cols; j++ {
			means = append(means, stat.Mean(mat.Col(nil, j, r.result), nil))
		}
	}

	return Paths(series, means, width, height), nil
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func boundsOf(series [][]float64) bounds {
	b := bounds{minY: math.Inf(1), maxY: math.Inf(-1)}
	for _, s := range series {
		if n := float64(len(s) - 1); n > b.maxX {
			b.maxX = n
		}
		for _, v := range s {
			b.minY = math.Min(b.minY, v)
			b.maxY = math.Max(b.maxY, v)
		}
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.05
	b.maxX += rangeX * 0.05
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

// Paths draws every series as a thin polyline and mean, if non-empty, as a
// highlighted one on the same axes.
func Paths(series [][]float64, mean []float64, width, height int) string {
	all := series
	if len(mean) > 0 {
		all = append(all[:len(all):len(all)], mean)
	}
	b := boundsOf(all)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, s := range series {
		writePath(&sb, s, b, width, height, "#00ff88", 0.8, 0.5)
	}
	if len(mean) > 0 {
		writePath(&sb, mean, b, width, height, "#ff00ff", 2, 1)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writePath(sb *strings.Builder, values []float64, b bounds, width, height int, stroke string, strokeWidth, opacity float64) {
	if len(values) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="%.1f" stroke-opacity="%.2f" d="M`,
		stroke, strokeWidth, opacity))

	for i, v := range values {
		x := (float64(i) - b.minX) / (b.maxX - b.minX) * float64(width)
		y := float64(height) - (v-b.minY)/(b.maxY-b.minY)*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString("\"/>\n")
}
