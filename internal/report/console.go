package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultConsoleColumns   = 10
	DefaultConsolePrecision = 4
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688"))
)

// ConsoleReport prints per-column summary statistics as a text table.
type ConsoleReport struct {
	result *mat.Dense
}

func NewConsoleReport(result *mat.Dense) Report {
	return &ConsoleReport{result: result}
}

type columnSummary struct {
	mean, std, min, p5, median, p95, max float64
}

func summarize(data []float64) (columnSummary, error) {
	var s columnSummary
	var err error

	if s.mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.std, err = stats.StandardDeviation(data); err != nil {
		return s, err
	}
	if s.min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.median, err = stats.Median(data); err != nil {
		return s, err
	}
	if s.p5, err = stats.PercentileNearestRank(data, 5); err != nil {
		return s, err
	}
	if s.p95, err = stats.PercentileNearestRank(data, 95); err != nil {
		return s, err
	}
	return s, nil
}

func (r *ConsoleReport) Render(opts Options) (Artifact, error) {
	if r.result == nil {
		return nil, ErrEmptyResult
	}

	maxCols, err := opts.Int("columns", DefaultConsoleColumns)
	if err != nil {
		return nil, err
	}
	precision, err := opts.Int("precision", DefaultConsolePrecision)
	if err != nil {
		return nil, err
	}
	if maxCols <= 0 || precision < 0 {
		return nil, fmt.Errorf("%w: columns must be positive and precision non-negative", ErrInvalidOption)
	}
	title := opts.String("title", "simulation summary")

	rows, cols := r.result.Dims()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(subtleStyle.Render(fmt.Sprintf("%d x %d (samples x columns)", rows, cols)))
	sb.WriteString("\n\n")

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COL\tMEAN\tSTD\tMIN\tP5\tMEDIAN\tP95\tMAX")

	f := fmt.Sprintf("%%.%df", precision)
	data := columns(r.result)
	shown := min(cols, maxCols)
	for j := 0; j < shown; j++ {
		s, err := summarize(data[j])
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", j, err)
		}
		fmt.Fprintf(w, "%d\t"+strings.Repeat(f+"\t", 6)+f+"\n",
			j, s.mean, s.std, s.min, s.p5, s.median, s.p95, s.max)
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	if shown < cols {
		sb.WriteString(subtleStyle.Render(fmt.Sprintf("... %d more columns", cols-shown)))
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
