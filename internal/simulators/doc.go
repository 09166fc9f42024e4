// Package simulators provides ready-made Monte-Carlo simulators and a
// registry that resolves them by name.
//
// Every stochastic simulator accepts a "seed" option. Paths are sampled in
// parallel, each from its own PCG stream derived from the seed and the path
// index, so a seeded run is reproducible regardless of scheduling.
//
// Available simulators:
//
//   - constant: fixed column vector, useful for checking reports
//   - randomwalk: Gaussian random walk, one row per path
//   - gbm: geometric Brownian motion price paths
package simulators
