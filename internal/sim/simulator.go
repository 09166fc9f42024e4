package sim

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/uncertainty/internal/params"
	"github.com/san-kum/uncertainty/internal/report"
)

// Options configure a single run. Keys are simulator specific.
type Options = params.Set

// Simulator runs a computation and returns every outcome in one matrix.
// Implementations must return a fully populated matrix or an error, never
// (nil, nil).
type Simulator interface {
	Run(ctx context.Context, opts Options) (*mat.Dense, error)
}

// Func adapts a plain function to the Simulator interface.
type Func func(ctx context.Context, opts Options) (*mat.Dense, error)

func (f Func) Run(ctx context.Context, opts Options) (*mat.Dense, error) {
	return f(ctx, opts)
}

// UnimplementedSimulator can be embedded by simulators under construction.
type UnimplementedSimulator struct{}

func (UnimplementedSimulator) Run(context.Context, Options) (*mat.Dense, error) {
	return nil, ErrUnimplemented
}

// Runner wraps a Simulator and keeps the result of its latest successful run.
type Runner struct {
	sim    Simulator
	result *mat.Dense
	runs   int
	logger *slog.Logger
}

// RunnerOption configures a Runner at construction.
type RunnerOption func(*Runner)

// WithLogger sets the logger for run and render events.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner wraps s with an empty result slot. Logging is discarded unless
// WithLogger is given.
func NewRunner(s Simulator, opts ...RunnerOption) *Runner {
	r := &Runner{
		sim:    s,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result returns the cached matrix, or nil before the first successful Call.
func (r *Runner) Result() *mat.Dense { return r.result }

// Runs counts invocations of Call, failed ones included.
func (r *Runner) Runs() int { return r.runs }

// Call runs the simulator, caches the returned matrix and returns it. A failed
// run leaves the previously cached result in place.
func (r *Runner) Call(ctx context.Context, opts Options) (*mat.Dense, error) {
	r.runs++
	if r.sim == nil {
		return nil, &RunError{Run: r.runs, Wrapped: ErrUnimplemented}
	}

	r.logger.Debug("simulation started", "run", r.runs, "options", len(opts))

	result, err := r.sim.Run(ctx, opts)
	if err != nil {
		r.logger.Warn("simulation failed", "run", r.runs, "error", err)
		return nil, &RunError{Run: r.runs, Wrapped: err}
	}
	if result == nil {
		return nil, &RunError{Run: r.runs, Wrapped: ErrNilResult}
	}

	rows, cols := result.Dims()
	r.logger.Debug("simulation finished", "run", r.runs, "rows", rows, "cols", cols)

	r.result = result
	return result, nil
}

// Render builds the selected report on result, or on the cached result when
// result is nil, and returns its artifact unchanged.
func (r *Runner) Render(sel report.Selector, result *mat.Dense, opts report.Options) (report.Artifact, error) {
	if result == nil {
		result = r.result
	}
	if result == nil {
		return nil, ErrNoResult
	}

	factory, err := sel.Resolve()
	if err != nil {
		return nil, err
	}

	rep := factory(result)
	if rep == nil {
		return nil, fmt.Errorf("sim: report %s: factory returned nil", sel)
	}

	r.logger.Debug("rendering report", "report", sel.String())
	return rep.Render(opts)
}

// RenderDefault renders the cached result with the console report.
func (r *Runner) RenderDefault(opts report.Options) (report.Artifact, error) {
	return r.Render(report.Selector{}, nil, opts)
}
