package simulators

import (
	"context"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/uncertainty/internal/sim"
)

// samplePaths calls fn once per path in [0, n) across a bounded set of
// workers. fn receives a random source private to that path.
func samplePaths(ctx context.Context, n int, seed uint64, fn func(path int, src rand.Source) error) error {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunkSize := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(i, rand.NewPCG(seed, uint64(i))); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func seedFrom(opts sim.Options) (uint64, error) {
	if !opts.Has("seed") {
		return rand.Uint64(), nil
	}
	s, err := opts.Int64("seed", 0)
	return uint64(s), err
}
