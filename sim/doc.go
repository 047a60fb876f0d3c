// Package sim provides the grand-canonical Monte Carlo engine for
// multi-species lattice gases.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - state.go: the configuration (one species label per site, 0 = vacant) and its seeding
//   - engine.go: single-site insertion/removal/relabel moves and the optional cluster move
//   - simulator.go: the sweep loop tying engine, estimators and equilibrium detector together
//
// # Architecture
//
// The sim package owns the mutable configuration; everything it reads is
// immutable and lives in sub-packages:
//   - sim/lattice/: adjacency-list types, the file parser and the geometry generator seam
//   - sim/partition/: sublattice colouring (bipartite check, then 3-colour backtracking)
//   - sim/observable/: crystal, density and demixing order parameters and sample statistics
//   - sim/equilibrium/: the block-variance equilibrium detector
//   - sim/output/: per-observable series files and final-state dumps
//   - sim/store/: SQLite ledger of completed runs
//
// # Invariant
//
// No move ever leaves two adjacent occupied sites with different species.
// Same-species neighbours are allowed and form the clusters the cluster move
// relabels as a whole.
//
// Randomness comes from a PartitionedRNG: seeding and moves draw from
// separate streams derived from one master seed, so a run is reproduced
// exactly by its seed.
package sim
