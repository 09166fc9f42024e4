package simulators

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/uncertainty/internal/sim"
)

// Constant returns its values as an n x 1 matrix on every run. The "values"
// option, a comma separated string or a list of numbers, overrides them.
type Constant struct {
	Values []float64
}

func NewConstant(values ...float64) *Constant {
	return &Constant{Values: values}
}

func (c *Constant) Run(ctx context.Context, opts sim.Options) (*mat.Dense, error) {
	values := c.Values
	if opts.Has("values") {
		parsed, err := parseValues(opts["values"])
		if err != nil {
			return nil, err
		}
		values = parsed
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: constant simulator has no values", sim.ErrInvalidOption)
	}

	data := make([]float64, len(values))
	copy(data, values)
	return mat.NewDense(len(data), 1, data), nil
}

func parseValues(v any) ([]float64, error) {
	switch vals := v.(type) {
	case []float64:
		return vals, nil
	case []any:
		out := make([]float64, 0, len(vals))
		for i, item := range vals {
			f, err := sim.Options{"v": item}.Float("v", 0)
			if err != nil {
				return nil, fmt.Errorf("values[%d]: %w", i, err)
			}
			out = append(out, f)
		}
		return out, nil
	case string:
		fields := strings.Split(vals, ",")
		out := make([]float64, 0, len(fields))
		for _, field := range fields {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			f, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: values: %v", sim.ErrInvalidOption, err)
			}
			out = append(out, f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: values must be a list of numbers, got %T", sim.ErrInvalidOption, v)
}
