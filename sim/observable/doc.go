// Package observable computes the per-sweep order parameters of a lattice-gas
// configuration and the summary statistics of their sample streams.
//
// All estimators read a configuration as a slice of species labels (0 is a
// vacancy) and never mutate it.
package observable
