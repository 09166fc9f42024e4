package simulators

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/uncertainty/internal/sim"
)

// GBM samples geometric Brownian motion paths
//
//	S(t+dt) = S(t) * exp((mu - sigma^2/2) dt + sigma sqrt(dt) Z)
//
// Options: paths, steps, s0, mu, sigma, dt, seed.
type GBM struct {
	S0    float64
	Mu    float64
	Sigma float64
	Dt    float64
}

func NewGBM() *GBM {
	return &GBM{S0: 100, Mu: 0.05, Sigma: 0.2, Dt: 1.0 / 252}
}

func (g *GBM) Run(ctx context.Context, opts sim.Options) (*mat.Dense, error) {
	paths, err := opts.Int("paths", DefaultPaths)
	if err != nil {
		return nil, err
	}
	steps, err := opts.Int("steps", DefaultSteps)
	if err != nil {
		return nil, err
	}
	s0, err := opts.Float("s0", g.S0)
	if err != nil {
		return nil, err
	}
	mu, err := opts.Float("mu", g.Mu)
	if err != nil {
		return nil, err
	}
	sigma, err := opts.Float("sigma", g.Sigma)
	if err != nil {
		return nil, err
	}
	dt, err := opts.Float("dt", g.Dt)
	if err != nil {
		return nil, err
	}
	seed, err := seedFrom(opts)
	if err != nil {
		return nil, err
	}

	switch {
	case paths <= 0 || steps <= 0:
		return nil, fmt.Errorf("%w: paths and steps must be positive, got %d and %d", sim.ErrInvalidOption, paths, steps)
	case s0 <= 0:
		return nil, fmt.Errorf("%w: s0 must be positive, got %f", sim.ErrInvalidOption, s0)
	case sigma < 0:
		return nil, fmt.Errorf("%w: sigma must be non-negative, got %f", sim.ErrInvalidOption, sigma)
	case dt <= 0:
		return nil, fmt.Errorf("%w: dt must be positive, got %f", sim.ErrInvalidOption, dt)
	}

	drift := (mu - sigma*sigma/2) * dt
	vol := sigma * math.Sqrt(dt)

	cols := steps + 1
	data := make([]float64, paths*cols)

	err = samplePaths(ctx, paths, seed, func(path int, src rand.Source) error {
		row := data[path*cols : (path+1)*cols]
		z := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

		row[0] = s0
		for k := 1; k < cols; k++ {
			row[k] = row[k-1] * math.Exp(drift+vol*z.Rand())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mat.NewDense(paths, cols, data), nil
}
