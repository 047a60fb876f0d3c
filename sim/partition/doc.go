// Package partition splits a lattice into sublattice classes by proper graph
// colouring.
//
// Bipartite lattices (square, hexagonal) get two classes, tripartite ones
// (triangular, kagome) get three. A lattice that needs four or more colours is
// rejected with ErrTooManyColors: the crystal-order estimator only knows how
// to combine up to three classes.
package partition
