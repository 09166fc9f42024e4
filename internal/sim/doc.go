// Package sim defines the contract shared by all Monte-Carlo simulators.
//
// A simulator produces one numeric result matrix per run. The package keeps
// the run lifecycle separate from the computation:
//
//   - [Simulator]: anything that can run and return a result matrix
//   - [Func]: adapter turning a plain function into a [Simulator]
//   - [UnimplementedSimulator]: embeddable base whose Run always fails
//   - [Runner]: owns the last result and renders it through a report
//
// # Example
//
//	r := sim.NewRunner(simulators.NewRandomWalk())
//	result, _ := r.Call(ctx, sim.Options{"paths": 1000, "steps": 50})
//	text, _ := r.Render(report.Named("console"), nil, nil)
//	table, _ := r.Render(report.Of(report.Margin), nil, report.Options{"confidence": 0.99})
//
// A Runner is not safe for concurrent use. Run independent Runners instead.
package sim
