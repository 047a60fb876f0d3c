package lattice

import "errors"

var (
	// ErrMissingInput indicates the adjacency-list file does not exist or cannot be opened.
	ErrMissingInput = errors.New("lattice: adjacency list not found")
	// ErrInvalidAdjacency indicates an out-of-range index, a self-loop or an asymmetric edge.
	ErrInvalidAdjacency = errors.New("lattice: invalid adjacency list")
	// ErrNotSquare indicates a site count that is not a perfect square.
	ErrNotSquare = errors.New("lattice: site count is not a perfect square")
	// ErrUnknownType indicates a lattice-type tag the generator does not accept.
	ErrUnknownType = errors.New("lattice: unknown lattice type")
)
