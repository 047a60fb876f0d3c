package partition

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/wr-lattice/latticegas/sim/lattice"
)

// MaxClasses is the largest sublattice count the estimators support.
const MaxClasses = 3

// ErrTooManyColors is returned when no colouring with MaxClasses colours exists.
var ErrTooManyColors = errors.New("partition: lattice requires more sublattice classes than supported")

// IsBipartite reports whether adj admits a 2-colouring. Every connected
// component is searched breadth-first; the search stops at the first edge
// joining two sites of the same colour.
func IsBipartite(adj lattice.List) bool {
	n := len(adj)
	color := make([]int8, n)
	for i := range color {
		color[i] = -1
	}
	queue := make([]int, 0, n)
	for start := 0; start < n; start++ {
		if color[start] != -1 {
			continue
		}
		color[start] = 0
		queue = append(queue[:0], start)
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			for _, v := range adj[u] {
				switch color[v] {
				case -1:
					color[v] = color[u] ^ 1
					queue = append(queue, v)
				case color[u]:
					return false
				}
			}
		}
	}
	return true
}

// ColorGraph assigns one of the colours 1..k to every site by backtracking in
// site-index order, trying colours in ascending order. It returns the first
// proper colouring found, or false if none exists.
//
// The search keeps an explicit cursor instead of recursing, so lattices with
// many thousands of sites do not grow the goroutine stack; the colouring
// returned is the same one a depth-first recursion would return.
func ColorGraph(adj lattice.List, k int) ([]int, bool) {
	n := len(adj)
	if k < 1 {
		return nil, false
	}
	color := make([]int, n)
	v := 0
	for v >= 0 && v < n {
		c := color[v] + 1
		color[v] = 0
		for c <= k && !safe(adj, color, v, c) {
			c++
		}
		if c <= k {
			color[v] = c
			v++
			continue
		}
		v--
	}
	if v < 0 {
		return nil, false
	}
	return color, true
}

// safe reports whether no already-coloured neighbour of v holds c.
func safe(adj lattice.List, color []int, v, c int) bool {
	for _, u := range adj[v] {
		if color[u] == c {
			return false
		}
	}
	return true
}

// Partition colours adj with two classes when it is bipartite and three
// otherwise.
func Partition(adj lattice.List) (Assignment, error) {
	k := MaxClasses
	if IsBipartite(adj) {
		k = 2
	}
	labels, ok := ColorGraph(adj, k)
	if !ok {
		return Assignment{}, ErrTooManyColors
	}
	a := Assignment{Labels: labels, Classes: k}
	logrus.Infof("partitioned %d sites into %d sublattices %v", len(labels), k, a.Sizes())
	return a, nil
}
