package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wr-lattice/latticegas/sim/equilibrium"
	"github.com/wr-lattice/latticegas/sim/lattice"
	"github.com/wr-lattice/latticegas/sim/observable"
	"github.com/wr-lattice/latticegas/sim/partition"
)

// Recorder receives the observables of every sweep and of every sampling sweep.
type Recorder interface {
	RecordSweep(observable.Snapshot) error
	RecordSample(observable.Snapshot) error
}

type nopRecorder struct{}

func (nopRecorder) RecordSweep(observable.Snapshot) error  { return nil }
func (nopRecorder) RecordSample(observable.Snapshot) error { return nil }

// Simulator owns one run: the immutable lattice and sublattice assignment,
// the engine mutating the configuration, the estimators and the equilibrium
// detector.
type Simulator struct {
	Adjacency   lattice.List
	Sublattices partition.Assignment
	Config      SimConfig

	engine   *Engine
	measurer *observable.Measurer
	detector *equilibrium.Detector
	recorder Recorder
	key      SimulationKey

	samples [3][]float64 // crystal, density, demixed over sampling sweeps
}

// NewSimulator partitions adj, seeds the initial configuration from the
// init stream of rng and prepares the engine on the moves stream. rec may be nil.
func NewSimulator(adj lattice.List, cfg SimConfig, rng *PartitionedRNG, rec Recorder) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if adj.Len() == 0 {
		return nil, errors.New("lattice has no sites")
	}
	assign, err := partition.Partition(adj)
	if err != nil {
		return nil, err
	}
	measurer, err := observable.NewMeasurer(adj, assign, cfg.Engine.Species, cfg.Crystal)
	if err != nil {
		return nil, err
	}
	detector, err := equilibrium.New(cfg.Equilibrium)
	if err != nil {
		return nil, err
	}
	state := Initialize(adj, cfg.Engine, rng.ForSubsystem(SubsystemInit))
	engine, err := NewEngine(adj, state, cfg.Engine, rng.ForSubsystem(SubsystemMoves))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	logrus.Infof("initial configuration: %d/%d sites occupied (M=%d, z=%g)", state.Occupied(), len(state), cfg.Engine.Species, cfg.Engine.Fugacity)
	return &Simulator{
		Adjacency:   adj,
		Sublattices: assign,
		Config:      cfg,
		engine:      engine,
		measurer:    measurer,
		detector:    detector,
		recorder:    rec,
		key:         rng.Key(),
	}, nil
}

// State returns the live configuration.
func (s *Simulator) State() State { return s.engine.State() }

// Run sweeps until the detector reports the sample budget spent or ctx is cancelled.
// Cancellation is only checked between sweeps, so a stopped run always ends
// on a complete sweep.
func (s *Simulator) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{Seed: int64(s.key), Sites: len(s.engine.State()), Sublattices: s.Sublattices.Classes}
	for sweep := 1; !s.detector.Done(sum.Sweeps); sweep++ {
		if ctx.Err() != nil {
			logrus.Infof("stop requested, ending after sweep %d", sum.Sweeps)
			sum.Stopped = true
			break
		}
		sum.Moves.Add(s.engine.Sweep())
		snap := s.measurer.Measure(s.engine.State())
		logrus.Debugf("[sweep %07d] crystal=%.4f density=%.4f demixed=%.4f", sweep, snap.Crystal, snap.Density, snap.Demixed)
		if err := s.recorder.RecordSweep(snap); err != nil {
			return sum, err
		}
		isSample, err := s.detector.Observe(sweep, s.Config.watched(snap))
		if err != nil {
			return sum, err
		}
		if isSample {
			s.samples[0] = append(s.samples[0], snap.Crystal)
			s.samples[1] = append(s.samples[1], snap.Density)
			s.samples[2] = append(s.samples[2], snap.Demixed)
			if err := s.recorder.RecordSample(snap); err != nil {
				return sum, err
			}
		}
		sum.Sweeps = sweep
	}
	s.finish(sum)
	logrus.Infof("run complete: %d sweeps, equilibrium at %d, %d samples", sum.Sweeps, sum.EquilibriumSweep, sum.Samples)
	return sum, nil
}

func (s *Simulator) finish(sum *Summary) {
	sum.EquilibriumSweep = s.detector.EquilibriumSweep()
	sum.TimedOut = s.detector.TimedOut()
	sum.Samples = len(s.samples[0])
	sum.Crystal = observable.Summarize(s.samples[0])
	sum.Density = observable.Summarize(s.samples[1])
	sum.Demixed = observable.Summarize(s.samples[2])
	sum.Conflicts = Conflicts(s.engine.State(), s.Adjacency)
	sum.FinalSpecies = s.engine.State().SpeciesCounts(s.Config.Engine.Species)
	if binder, err := observable.BinderCumulant(s.samples[0], s.Config.Stride); err == nil {
		sum.Binder = &binder
	} else {
		logrus.Debugf("binder cumulant unavailable: %v", err)
	}
}
