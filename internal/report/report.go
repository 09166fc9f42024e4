package report

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/uncertainty/internal/params"
)

// Options are renderer-specific settings forwarded verbatim from the caller.
type Options = params.Set

// Artifact is whatever a report produces: text, a numeric table or a figure.
// Callers that care type-switch on it.
type Artifact = any

// Report turns a result matrix into an artifact.
type Report interface {
	Render(opts Options) (Artifact, error)
}

// Factory builds a Report bound to a result. Any function of this shape can be
// passed to Custom to bypass the built-in name table.
type Factory func(result *mat.Dense) Report

func columns(result *mat.Dense) [][]float64 {
	_, c := result.Dims()
	cols := make([][]float64, c)
	for j := 0; j < c; j++ {
		cols[j] = mat.Col(nil, j, result)
	}
	return cols
}
