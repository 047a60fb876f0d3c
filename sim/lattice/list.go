package lattice

import "fmt"

// List is an adjacency list. List[i] holds the neighbour indices of site i.
// Callers treat a loaded List as read-only.
type List [][]int

// Len returns the number of sites.
func (l List) Len() int { return len(l) }

// Degree returns the number of neighbours of site i.
func (l List) Degree(i int) int { return len(l[i]) }

// EdgeCount returns the number of undirected edges, counting each
// symmetric pair once.
func (l List) EdgeCount() int {
	total := 0
	for _, nbrs := range l {
		total += len(nbrs)
	}
	return total / 2
}

// Validate checks that every neighbour index is in range, that no site lists
// itself and that the relation is symmetric.
func (l List) Validate() error {
	n := len(l)
	for u, nbrs := range l {
		for _, v := range nbrs {
			if v < 0 || v >= n {
				return fmt.Errorf("%w: site %d lists neighbour %d outside [0,%d)", ErrInvalidAdjacency, u, v, n)
			}
			if v == u {
				return fmt.Errorf("%w: site %d lists itself", ErrInvalidAdjacency, u)
			}
			if !l.contains(v, u) {
				return fmt.Errorf("%w: edge %d->%d has no reverse edge", ErrInvalidAdjacency, u, v)
			}
		}
	}
	return nil
}

func (l List) contains(site, nbr int) bool {
	for _, v := range l[site] {
		if v == nbr {
			return true
		}
	}
	return false
}
