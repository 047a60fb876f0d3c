package observable

import (
	"errors"
	"fmt"

	"github.com/wr-lattice/latticegas/sim/lattice"
	"github.com/wr-lattice/latticegas/sim/partition"
)

// CrystalMode selects the crystal order-parameter formula.
type CrystalMode string

const (
	// CrystalMax is the per-class ordered fraction, maximised over classes.
	CrystalMax CrystalMode = "max"
	// CrystalStaggered is the signed two-sublattice occupation difference.
	CrystalStaggered CrystalMode = "staggered"
)

// ErrStaggeredNeedsBipartite is returned when the staggered formula is asked
// for on a lattice with three sublattice classes.
var ErrStaggeredNeedsBipartite = errors.New("observable: staggered crystal parameter needs a bipartite lattice")

// ParseCrystalMode maps a flag or YAML value to a CrystalMode; "" means CrystalMax.
func ParseCrystalMode(s string) (CrystalMode, error) {
	switch CrystalMode(s) {
	case "", CrystalMax:
		return CrystalMax, nil
	case CrystalStaggered:
		return CrystalStaggered, nil
	}
	return "", fmt.Errorf("unknown crystal mode %q; valid: max, staggered", s)
}

// Snapshot holds the observables of one configuration.
type Snapshot struct {
	Crystal float64
	Density float64
	Demixed float64
}

// Measurer binds the immutable lattice inputs so each sweep only passes the
// configuration.
type Measurer struct {
	adj     lattice.List
	assign  partition.Assignment
	species int
	mode    CrystalMode
}

// NewMeasurer validates the mode against the assignment.
func NewMeasurer(adj lattice.List, assign partition.Assignment, species int, mode CrystalMode) (*Measurer, error) {
	if len(assign.Labels) != len(adj) {
		return nil, fmt.Errorf("sublattice assignment covers %d sites, lattice has %d", len(assign.Labels), len(adj))
	}
	if mode == CrystalStaggered && assign.Classes != 2 {
		return nil, ErrStaggeredNeedsBipartite
	}
	return &Measurer{adj: adj, assign: assign, species: species, mode: mode}, nil
}

// Measure computes every observable of state.
func (m *Measurer) Measure(state []int) Snapshot {
	var crystal float64
	if m.mode == CrystalStaggered {
		crystal = StaggeredParameter(state, m.assign)
	} else {
		crystal = CrystalParameter(state, m.adj, m.assign)
	}
	return Snapshot{
		Crystal: crystal,
		Density: Density(state),
		Demixed: DemixedParameter(state, m.species),
	}
}
