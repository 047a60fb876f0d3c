package sim

import "github.com/wr-lattice/latticegas/sim/lattice"

// ClusterFinder collects same-label connected components. It keeps its
// queue and visited marks between calls so repeated searches on one lattice
// do not allocate.
type ClusterFinder struct {
	adj   lattice.List
	mark  []uint32
	epoch uint32
	queue []int
}

// NewClusterFinder returns a finder for adj.
func NewClusterFinder(adj lattice.List) *ClusterFinder {
	return &ClusterFinder{adj: adj, mark: make([]uint32, len(adj))}
}

// Find returns the sites connected to start through neighbours holding
// state[start]'s label, start first, in breadth-first order. The returned
// slice is reused by the next call.
func (f *ClusterFinder) Find(state State, start int) []int {
	f.epoch++
	if f.epoch == 0 {
		// wrapped: old marks could collide with the new epoch
		for i := range f.mark {
			f.mark[i] = 0
		}
		f.epoch = 1
	}
	label := state[start]
	f.mark[start] = f.epoch
	f.queue = append(f.queue[:0], start)
	for qi := 0; qi < len(f.queue); qi++ {
		u := f.queue[qi]
		for _, v := range f.adj[u] {
			if f.mark[v] != f.epoch && state[v] == label {
				f.mark[v] = f.epoch
				f.queue = append(f.queue, v)
			}
		}
	}
	return f.queue
}

// FindCluster is the one-shot form of ClusterFinder.Find; the result is a
// fresh slice.
func FindCluster(state State, adj lattice.List, start int) []int {
	found := NewClusterFinder(adj).Find(state, start)
	out := make([]int, len(found))
	copy(out, found)
	return out
}

// IsNontrivial reports whether site is occupied and shares its label with at
// least one neighbour.
func IsNontrivial(state State, adj lattice.List, site int) bool {
	label := state[site]
	if label == 0 {
		return false
	}
	for _, v := range adj[site] {
		if state[v] == label {
			return true
		}
	}
	return false
}
