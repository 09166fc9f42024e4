package simulators

import (
	"context"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/uncertainty/internal/sim"
)

const (
	DefaultPaths = 1000
	DefaultSteps = 100
)

// RandomWalk samples Gaussian random walks. Column 0 holds the start value,
// column k the position after k steps.
//
// Options: paths, steps, start, drift, sigma, seed.
type RandomWalk struct {
	Start float64
	Drift float64
	Sigma float64
}

func NewRandomWalk() *RandomWalk {
	return &RandomWalk{Sigma: 1}
}

type walkParams struct {
	paths, steps        int
	start, drift, sigma float64
	seed                uint64
}

func (w *RandomWalk) params(opts sim.Options) (walkParams, error) {
	var p walkParams
	var err error

	if p.paths, err = opts.Int("paths", DefaultPaths); err != nil {
		return p, err
	}
	if p.steps, err = opts.Int("steps", DefaultSteps); err != nil {
		return p, err
	}
	if p.start, err = opts.Float("start", w.Start); err != nil {
		return p, err
	}
	if p.drift, err = opts.Float("drift", w.Drift); err != nil {
		return p, err
	}
	if p.sigma, err = opts.Float("sigma", w.Sigma); err != nil {
		return p, err
	}
	if p.seed, err = seedFrom(opts); err != nil {
		return p, err
	}

	if p.paths <= 0 || p.steps <= 0 {
		return p, fmt.Errorf("%w: paths and steps must be positive, got %d and %d", sim.ErrInvalidOption, p.paths, p.steps)
	}
	if p.sigma < 0 {
		return p, fmt.Errorf("%w: sigma must be non-negative, got %f", sim.ErrInvalidOption, p.sigma)
	}
	return p, nil
}

func (w *RandomWalk) Run(ctx context.Context, opts sim.Options) (*mat.Dense, error) {
	p, err := w.params(opts)
	if err != nil {
		return nil, err
	}

	cols := p.steps + 1
	data := make([]float64, p.paths*cols)

	err = samplePaths(ctx, p.paths, p.seed, func(path int, src rand.Source) error {
		row := data[path*cols : (path+1)*cols]
		noise := distuv.Normal{Mu: p.drift, Sigma: p.sigma, Src: src}

		row[0] = p.start
		for k := 1; k < cols; k++ {
			row[k] = row[k-1] + noise.Rand()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mat.NewDense(p.paths, cols, data), nil
}
