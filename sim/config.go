package sim

import (
	"fmt"

	"github.com/wr-lattice/latticegas/sim/equilibrium"
	"github.com/wr-lattice/latticegas/sim/observable"
)

// ReplacePolicy decides when an occupied site may change species.
type ReplacePolicy string

const (
	// ReplaceNoMismatch allows relabelling to k when no neighbour holds a
	// nonzero label other than k. Default.
	ReplaceNoMismatch ReplacePolicy = "no-mismatch"
	// ReplaceVacantNeighbors allows relabelling only when every neighbour is vacant.
	ReplaceVacantNeighbors ReplacePolicy = "vacant-neighbors"
)

// InitPolicy decides which species draws are rejected while seeding the lattice.
type InitPolicy string

const (
	// InitRelaxed rejects a draw only when an already-occupied neighbour holds
	// a different species; same-species neighbours are allowed. Default.
	InitRelaxed InitPolicy = "relaxed"
	// InitStrict rejects a draw when any already-occupied neighbour exists.
	InitStrict InitPolicy = "strict"
)

// ParseReplacePolicy maps a flag or YAML value to a ReplacePolicy; "" is the default.
func ParseReplacePolicy(s string) (ReplacePolicy, error) {
	switch ReplacePolicy(s) {
	case "", ReplaceNoMismatch:
		return ReplaceNoMismatch, nil
	case ReplaceVacantNeighbors:
		return ReplaceVacantNeighbors, nil
	}
	return "", fmt.Errorf("unknown replace policy %q; valid: no-mismatch, vacant-neighbors", s)
}

// ParseInitPolicy maps a flag or YAML value to an InitPolicy; "" is the default.
func ParseInitPolicy(s string) (InitPolicy, error) {
	switch InitPolicy(s) {
	case "", InitRelaxed:
		return InitRelaxed, nil
	case InitStrict:
		return InitStrict, nil
	}
	return "", fmt.Errorf("unknown init policy %q; valid: relaxed, strict", s)
}

// EngineConfig groups the Monte Carlo move parameters.
type EngineConfig struct {
	Species     int           // number of particle species M (must be >= 1)
	Fugacity    float64       // activity z (must be > 0)
	Replace     ReplacePolicy // species-relabel acceptance rule
	Init        InitPolicy    // initial seeding exclusion rule
	Cluster     bool          // enable cluster flip/vacate moves
	ClusterProb float64       // cluster-selection probability p in [0, 1]
}

// DefaultEngineConfig returns an engine for m species at fugacity z with the
// default policies and single-site moves only.
func DefaultEngineConfig(m int, z float64) EngineConfig {
	return EngineConfig{
		Species:     m,
		Fugacity:    z,
		Replace:     ReplaceNoMismatch,
		Init:        InitRelaxed,
		ClusterProb: 0.5,
	}
}

// Validate rejects non-positive M or z and out-of-range policy values.
func (c EngineConfig) Validate() error {
	if c.Species < 1 {
		return fmt.Errorf("species count must be positive, got %d", c.Species)
	}
	if !(c.Fugacity > 0) {
		return fmt.Errorf("fugacity must be positive, got %g", c.Fugacity)
	}
	if _, err := ParseReplacePolicy(string(c.Replace)); err != nil {
		return err
	}
	if _, err := ParseInitPolicy(string(c.Init)); err != nil {
		return err
	}
	if c.ClusterProb < 0 || c.ClusterProb > 1 {
		return fmt.Errorf("cluster probability must be in [0,1], got %g", c.ClusterProb)
	}
	return nil
}

// ClusterFlipProb returns theta = p*(M-1)z / ((M-1)z + 1), the chance that a
// cluster move relabels the cluster rather than vacating its seed site.
// Zero for a single species, where no other label exists.
func (c EngineConfig) ClusterFlipProb() float64 {
	w := float64(c.Species-1) * c.Fugacity
	return c.ClusterProb * w / (w + 1)
}

// InitOccupancyProb returns Mz/(Mz+1), the single-site marginal used to seed
// the lattice.
func (c EngineConfig) InitOccupancyProb() float64 {
	w := float64(c.Species) * c.Fugacity
	return w / (w + 1)
}

// SimConfig groups everything a Simulator needs besides the lattice.
type SimConfig struct {
	Engine      EngineConfig
	Equilibrium equilibrium.Config
	Crystal     observable.CrystalMode
	Watch       string // observable fed to the equilibrium detector: crystal, density or demixed
	Stride      int    // decorrelation stride for the Binder cumulant
}

// DefaultSimConfig returns the production configuration for m species at fugacity z.
func DefaultSimConfig(m int, z float64) SimConfig {
	return SimConfig{
		Engine:      DefaultEngineConfig(m, z),
		Equilibrium: equilibrium.DefaultConfig(),
		Crystal:     observable.CrystalMax,
		Watch:       WatchCrystal,
		Stride:      observable.DefaultDecorrelationStride,
	}
}

// Watchable observables.
const (
	WatchCrystal = "crystal"
	WatchDensity = "density"
	WatchDemixed = "demixed"
)

// Validate checks every section.
func (c SimConfig) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if err := c.Equilibrium.Validate(); err != nil {
		return err
	}
	if _, err := observable.ParseCrystalMode(string(c.Crystal)); err != nil {
		return err
	}
	switch c.Watch {
	case "", WatchCrystal, WatchDensity, WatchDemixed:
	default:
		return fmt.Errorf("unknown watched observable %q; valid: crystal, density, demixed", c.Watch)
	}
	if c.Stride < 0 {
		return fmt.Errorf("decorrelation stride must be non-negative, got %d", c.Stride)
	}
	return nil
}

// watched picks the detector input out of a snapshot.
func (c SimConfig) watched(s observable.Snapshot) float64 {
	switch c.Watch {
	case WatchDensity:
		return s.Density
	case WatchDemixed:
		return s.Demixed
	}
	return s.Crystal
}
