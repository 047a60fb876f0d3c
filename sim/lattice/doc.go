// Package lattice holds the immutable site graph the Monte Carlo core runs on.
//
// A lattice is an adjacency list: site i owns the indices of its neighbours.
// Geometry construction (square, triangular, kagome, ...) is not done here; a
// Generator collaborator produces an adjacency-list file and this package
// parses, validates and exposes it.
package lattice
