package sim

import (
	"fmt"
	"math/rand"

	"github.com/wr-lattice/latticegas/sim/lattice"
)

// MoveStats counts accepted moves.
type MoveStats struct {
	Attempts       int `json:"attempts"`
	Insertions     int `json:"insertions"`
	Removals       int `json:"removals"`
	Replacements   int `json:"replacements"`    // species changes of a single site
	ClusterFlips   int `json:"cluster_flips"`   // whole clusters relabelled
	ClusterVacates int `json:"cluster_vacates"` // cluster seed sites vacated
	SitesFlipped   int `json:"sites_flipped"`   // sites relabelled by cluster flips
}

// Add accumulates o into m.
func (m *MoveStats) Add(o MoveStats) {
	m.Attempts += o.Attempts
	m.Insertions += o.Insertions
	m.Removals += o.Removals
	m.Replacements += o.Replacements
	m.ClusterFlips += o.ClusterFlips
	m.ClusterVacates += o.ClusterVacates
	m.SitesFlipped += o.SitesFlipped
}

// Engine applies grand-canonical Monte Carlo moves to a State. Not safe for
// concurrent use.
type Engine struct {
	adj    lattice.List
	state  State
	cfg    EngineConfig
	rng    *rand.Rand
	finder *ClusterFinder
	invZ   float64
	theta  float64
}

// NewEngine binds cfg to the lattice and the configuration it will mutate.
func NewEngine(adj lattice.List, state State, cfg EngineConfig, rng *rand.Rand) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(state) != len(adj) {
		return nil, fmt.Errorf("state has %d sites, lattice has %d", len(state), len(adj))
	}
	e := &Engine{
		adj:   adj,
		state: state,
		cfg:   cfg,
		rng:   rng,
		invZ:  1 / cfg.Fugacity,
		theta: cfg.ClusterFlipProb(),
	}
	if cfg.Cluster {
		e.finder = NewClusterFinder(adj)
	}
	return e, nil
}

// State returns the live configuration. Callers must not modify it.
func (e *Engine) State() State { return e.state }

// Config returns the engine parameters.
func (e *Engine) Config() EngineConfig { return e.cfg }

// Sweep performs N move attempts, N being the number of sites.
func (e *Engine) Sweep() MoveStats {
	var st MoveStats
	for m := 0; m < len(e.state); m++ {
		e.attempt(&st)
	}
	return st
}

// attempt draws a site i, a candidate label k in [0, M] and, with cluster
// moves enabled, an independent cluster seed x.
func (e *Engine) attempt(st *MoveStats) {
	st.Attempts++
	n := len(e.state)
	i := e.rng.Intn(n)
	k := e.rng.Intn(e.cfg.Species + 1)
	if e.cfg.Cluster {
		x := e.rng.Intn(n)
		if e.clusterMove(x, st) {
			return
		}
	}
	e.siteMove(i, k, st)
}

// clusterMove runs when x belongs to a nontrivial cluster: with probability
// theta the whole cluster takes a different species, otherwise x alone is
// vacated subject to the removal test. It reports whether the attempt was
// consumed.
func (e *Engine) clusterMove(x int, st *MoveStats) bool {
	if !IsNontrivial(e.state, e.adj, x) {
		return false
	}
	if e.rng.Float64() < e.theta {
		to := e.otherSpecies(e.state[x])
		cluster := e.finder.Find(e.state, x)
		for _, u := range cluster {
			e.state[u] = to
		}
		st.ClusterFlips++
		st.SitesFlipped += len(cluster)
		return true
	}
	if e.rng.Float64() < e.invZ {
		e.state[x] = 0
		st.ClusterVacates++
	}
	return true
}

// otherSpecies draws uniformly from the M-1 species other than from.
func (e *Engine) otherSpecies(from int) int {
	to := 1 + e.rng.Intn(e.cfg.Species-1)
	if to >= from {
		to++
	}
	return to
}

// siteMove is the single-site insertion, removal or relabel of site i to k.
func (e *Engine) siteMove(i, k int, st *MoveStats) {
	cur := e.state[i]
	switch {
	case cur == 0 && k == 0:
		return
	case cur == 0:
		// insertion: uniform compared against z itself, so z >= 1 always accepts
		if !e.conflict(i, k) && e.rng.Float64() < e.cfg.Fugacity {
			e.state[i] = k
			st.Insertions++
		}
	case k == 0:
		if e.rng.Float64() < e.invZ {
			e.state[i] = 0
			st.Removals++
		}
	default:
		if k != cur && e.replaceAllowed(i, k) {
			e.state[i] = k
			st.Replacements++
		}
	}
}

// conflict reports whether a neighbour of i holds a nonzero label other than k.
func (e *Engine) conflict(i, k int) bool {
	for _, v := range e.adj[i] {
		if l := e.state[v]; l != 0 && l != k {
			return true
		}
	}
	return false
}

func (e *Engine) replaceAllowed(i, k int) bool {
	if e.cfg.Replace == ReplaceVacantNeighbors {
		for _, v := range e.adj[i] {
			if e.state[v] != 0 {
				return false
			}
		}
		return true
	}
	return !e.conflict(i, k)
}
