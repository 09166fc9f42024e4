package report

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const DefaultConfidence = 0.95

// MarginReport computes a Student-t confidence interval for the mean of every
// column.
type MarginReport struct {
	result *mat.Dense
}

func NewMarginReport(result *mat.Dense) Report {
	return &MarginReport{result: result}
}

type MarginRow struct {
	Column int     `json:"column"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	StdErr float64 `json:"std_err"`
	Margin float64 `json:"margin"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
}

// MarginTable is the artifact of MarginReport. With fewer than two samples the
// margin is undefined and reported as NaN.
type MarginTable struct {
	Confidence float64     `json:"confidence"`
	Rows       []MarginRow `json:"rows"`
}

func (r *MarginReport) Render(opts Options) (Artifact, error) {
	if r.result == nil {
		return nil, ErrEmptyResult
	}

	confidence, err := opts.Float("confidence", DefaultConfidence)
	if err != nil {
		return nil, err
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, fmt.Errorf("%w: confidence must be in (0, 1), got %v", ErrInvalidOption, confidence)
	}

	table := &MarginTable{Confidence: confidence}
	for j, col := range columns(r.result) {
		table.Rows = append(table.Rows, marginOf(j, col, confidence))
	}
	return table, nil
}

func marginOf(column int, data []float64, confidence float64) MarginRow {
	n := len(data)
	row := MarginRow{Column: column, N: n}

	if n < 2 {
		row.Mean = stat.Mean(data, nil)
		row.StdDev = math.NaN()
		row.StdErr = math.NaN()
		row.Margin = math.NaN()
		row.Lower = math.NaN()
		row.Upper = math.NaN()
		return row
	}

	row.Mean, row.StdDev = stat.MeanStdDev(data, nil)
	row.StdErr = row.StdDev / math.Sqrt(float64(n))

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	row.Margin = t.Quantile(1-(1-confidence)/2) * row.StdErr
	row.Lower = row.Mean - row.Margin
	row.Upper = row.Mean + row.Margin
	return row
}

func (t *MarginTable) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "confidence: %.1f%%\n", t.Confidence*100)

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COL\tN\tMEAN\tSTDERR\tMARGIN\tLOWER\tUPPER")
	for _, r := range t.Rows {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			r.Column, r.N, r.Mean, r.StdErr, r.Margin, r.Lower, r.Upper)
	}
	w.Flush()
	return sb.String()
}
