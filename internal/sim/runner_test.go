package sim_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/uncertainty/internal/report"
	"github.com/san-kum/uncertainty/internal/sim"
)

// dummySimulator always returns the column vector [1, 2, 3].
type dummySimulator struct {
	calls int
}

func (d *dummySimulator) Run(ctx context.Context, opts sim.Options) (*mat.Dense, error) {
	d.calls++
	return mat.NewDense(3, 1, []float64{1, 2, 3}), nil
}

type noisySimulator struct {
	rng *rand.Rand
}

func (n *noisySimulator) Run(ctx context.Context, opts sim.Options) (*mat.Dense, error) {
	size, err := opts.Int("size", 4)
	if err != nil {
		return nil, err
	}
	data := make([]float64, size)
	for i := range data {
		data[i] = n.rng.NormFloat64()
	}
	return mat.NewDense(size, 1, data), nil
}

type halfBuilt struct {
	sim.UnimplementedSimulator
}

type recordingReport struct {
	result *mat.Dense
	opts   report.Options
}

func (r *recordingReport) Render(opts report.Options) (report.Artifact, error) {
	r.opts = opts
	return r, nil
}

var _ = Describe("Runner", func() {
	var (
		ctx    context.Context
		dummy  *dummySimulator
		runner *sim.Runner
	)

	BeforeEach(func() {
		ctx = context.Background()
		dummy = &dummySimulator{}
		runner = sim.NewRunner(dummy)
	})

	Describe("Call", func() {
		It("starts with no result", func() {
			Expect(runner.Result()).To(BeNil())
		})

		It("caches the returned matrix by reference", func() {
			result, err := runner.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).NotTo(BeNil())
			Expect(runner.Result()).To(BeIdenticalTo(result))
			Expect(mat.Col(nil, 0, result)).To(Equal([]float64{1, 2, 3}))
		})

		It("re-runs and overwrites the cache on every call", func() {
			first, err := runner.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			second, err := runner.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(dummy.calls).To(Equal(2))
			Expect(runner.Runs()).To(Equal(2))
			Expect(second).NotTo(BeIdenticalTo(first))
			Expect(runner.Result()).To(BeIdenticalTo(second))
		})

		It("recomputes stochastic results", func() {
			noisy := sim.NewRunner(&noisySimulator{rng: rand.New(rand.NewPCG(1, 2))})
			a, err := noisy.Call(ctx, sim.Options{"size": 8})
			Expect(err).NotTo(HaveOccurred())
			b, err := noisy.Call(ctx, sim.Options{"size": 8})
			Expect(err).NotTo(HaveOccurred())

			Expect(mat.Equal(a, b)).To(BeFalse())
		})

		It("forwards options to Run", func() {
			noisy := sim.NewRunner(&noisySimulator{rng: rand.New(rand.NewPCG(1, 2))})
			result, err := noisy.Call(ctx, sim.Options{"size": 5})
			Expect(err).NotTo(HaveOccurred())

			rows, cols := result.Dims()
			Expect(rows).To(Equal(5))
			Expect(cols).To(Equal(1))
		})

		It("keeps the previous result when a run fails", func() {
			boom := errors.New("boom")
			fail := false
			r := sim.NewRunner(sim.Func(func(ctx context.Context, opts sim.Options) (*mat.Dense, error) {
				if fail {
					return nil, boom
				}
				return mat.NewDense(1, 1, []float64{7}), nil
			}))

			kept, err := r.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			fail = true
			_, err = r.Call(ctx, nil)
			Expect(err).To(MatchError(boom))

			var runErr *sim.RunError
			Expect(errors.As(err, &runErr)).To(BeTrue())
			Expect(runErr.Run).To(Equal(2))
			Expect(r.Result()).To(BeIdenticalTo(kept))
		})

		It("rejects a nil matrix from Run", func() {
			r := sim.NewRunner(sim.Func(func(context.Context, sim.Options) (*mat.Dense, error) {
				return nil, nil
			}))
			_, err := r.Call(ctx, nil)
			Expect(err).To(MatchError(sim.ErrNilResult))
			Expect(r.Result()).To(BeNil())
		})

		It("fails when Run was never implemented", func() {
			r := sim.NewRunner(halfBuilt{})
			_, err := r.Call(ctx, nil)
			Expect(err).To(MatchError(sim.ErrUnimplemented))

			_, err = sim.NewRunner(nil).Call(ctx, nil)
			Expect(err).To(MatchError(sim.ErrUnimplemented))
		})

		It("logs the lifecycle when given a logger", func() {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			r := sim.NewRunner(dummy, sim.WithLogger(logger))
			_, err := r.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("simulation finished"))
			Expect(buf.String()).To(ContainSubstring("rows=3"))
		})
	})

	Describe("Render", func() {
		DescribeTable("requires a result for any selector",
			func(sel report.Selector) {
				_, err := runner.Render(sel, nil, nil)
				Expect(err).To(MatchError(sim.ErrNoResult))
			},
			Entry("default", report.Selector{}),
			Entry("console", report.Named("console")),
			Entry("margin", report.Of(report.Margin)),
			Entry("plot", report.Named("plot")),
			Entry("unknown name", report.Named("unknown_name")),
			Entry("custom", report.Custom(func(r *mat.Dense) report.Report { return &recordingReport{result: r} })),
		)

		It("rejects unknown names after a run", func() {
			_, err := runner.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = runner.Render(report.Named("unknown_name"), nil, nil)
			Expect(err).To(MatchError(report.ErrUnknownReport))
			Expect(err.Error()).To(ContainSubstring(`unknown_name`))
		})

		It("treats report names case-insensitively", func() {
			_, err := runner.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			upper, err := runner.Render(report.Named("CONSOLE"), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			lower, err := runner.Render(report.Named("console"), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(upper).To(Equal(lower))
		})

		It("defaults to the console report", func() {
			_, err := runner.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			def, err := runner.RenderDefault(nil)
			Expect(err).NotTo(HaveOccurred())
			named, err := runner.Render(report.Named("console"), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(def).To(Equal(named))
		})

		It("renders console and margin artifacts from the same numbers", func() {
			result, err := runner.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			text, err := runner.Render(report.Named("console"), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeAssignableToTypeOf(""))
			Expect(text).To(ContainSubstring("2.0000"))

			margins, err := runner.Render(report.Named("margin"), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			table, ok := margins.(*report.MarginTable)
			Expect(ok).To(BeTrue())
			Expect(table.Rows[0].N).To(Equal(3))
			Expect(table.Rows[0].Mean).To(BeNumerically("~", 2, 1e-12))

			Expect(runner.Result()).To(BeIdenticalTo(result))
		})

		It("prefers an explicit result without touching the cache", func() {
			cached, err := runner.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			explicit := mat.NewDense(2, 1, []float64{10, 20})
			var seen *mat.Dense
			out, err := runner.Render(report.Custom(func(r *mat.Dense) report.Report {
				seen = r
				return &recordingReport{result: r}
			}), explicit, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).NotTo(BeNil())

			Expect(seen).To(BeIdenticalTo(explicit))
			Expect(runner.Result()).To(BeIdenticalTo(cached))
		})

		It("renders an explicit result before any run", func() {
			explicit := mat.NewDense(3, 1, []float64{1, 2, 3})
			out, err := runner.Render(report.Named("margin"), explicit, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(BeAssignableToTypeOf(&report.MarginTable{}))
			Expect(runner.Result()).To(BeNil())
		})

		It("instantiates custom reports with the cached result and forwards options", func() {
			cached, err := runner.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			opts := report.Options{"style": "compact"}
			out, err := runner.Render(report.Custom(func(r *mat.Dense) report.Report {
				return &recordingReport{result: r}
			}), nil, opts)
			Expect(err).NotTo(HaveOccurred())

			rec := out.(*recordingReport)
			Expect(rec.result).To(BeIdenticalTo(cached))
			Expect(rec.opts).To(Equal(opts))
		})

		It("fails when a custom factory returns nil", func() {
			_, err := runner.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = runner.Render(report.Custom(func(*mat.Dense) report.Report { return nil }), nil, nil)
			Expect(err).To(HaveOccurred())
		})

		It("propagates report errors", func() {
			_, err := runner.Call(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = runner.Render(report.Named("margin"), nil, report.Options{"confidence": 2.0})
			Expect(err).To(MatchError(report.ErrInvalidOption))
		})
	})
})
