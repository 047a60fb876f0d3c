package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wr-lattice/latticegas/sim"
	"github.com/wr-lattice/latticegas/sim/lattice"
	"github.com/wr-lattice/latticegas/sim/output"
	"github.com/wr-lattice/latticegas/sim/store"
)

// jobParams is one entry of a run or a scan.
type jobParams struct {
	Fugacity float64
	Seed     int64
}

// scanJobs gives job i the seed of stream replica_i under the master seed,
// so every fugacity of a scan is reproducible on its own.
func scanJobs(zs []float64, master int64) []jobParams {
	replicas := sim.NewPartitionedRNG(sim.NewSimulationKey(master))
	jobs := make([]jobParams, len(zs))
	for i, z := range zs {
		jobs[i] = jobParams{Fugacity: z, Seed: replicas.DeriveSeed(sim.SubsystemReplica(i))}
	}
	return jobs
}

// openLedger opens the configured ledger; nil when none is configured.
func openLedger(path string) (*store.Store, error) {
	if path == "" {
		return nil, nil
	}
	ledger, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return ledger, nil
}

// runJobs runs jobs in order and writes each summary to w. The ledger and
// the signal handler are released before it returns, on success and on
// error alike, so callers may exit on the returned error.
func runJobs(ctx context.Context, cfg RunConfig, jobs []jobParams, w io.Writer) error {
	ledger, err := openLedger(cfg.Store.Path)
	if err != nil {
		return err
	}
	if ledger != nil {
		defer ledger.Close()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, j := range jobs {
		if ctx.Err() != nil {
			logrus.Infof("interrupted before z=%g", j.Fugacity)
			break
		}
		job := cfg
		job.Engine.Fugacity = j.Fugacity
		sum, err := runJob(ctx, job, j.Seed, ledger)
		if err != nil {
			return fmt.Errorf("simulation at z=%g: %w", j.Fugacity, err)
		}
		if err := sum.Fprint(w); err != nil {
			return err
		}
	}
	return nil
}

// generatorFor returns the static file named by the config, or the geometry
// script when none is given.
func generatorFor(cfg RunConfig) lattice.Generator {
	if cfg.Lattice.Adjacency != "" {
		return lattice.StaticGenerator{Path: cfg.Lattice.Adjacency}
	}
	return ScriptGenerator{Command: cfg.Lattice.Generator, WorkDir: cfg.Lattice.WorkDir}
}

// runJob performs one complete simulation: acquire the lattice, open the
// outputs, run to the sample budget, write the final files and, when
// configured, analyse the samples and record the run in the ledger.
// Every error returned happens before the first sweep or is an output failure.
func runJob(ctx context.Context, cfg RunConfig, seed int64, ledger *store.Store) (*sim.Summary, error) {
	spec, err := cfg.latticeSpec()
	if err != nil {
		return nil, err
	}
	simCfg, err := cfg.simConfig()
	if err != nil {
		return nil, err
	}

	adj, stats, err := lattice.Acquire(ctx, generatorFor(cfg), spec)
	if err != nil {
		return nil, err
	}
	logrus.Infof("lattice loaded: %d sites, %d edges, max degree %d", adj.Len(), stats.Edges, stats.MaxDegree)

	rec, err := output.NewRecorder(
		output.Config{Dir: cfg.Output.Dir, Trace: cfg.Output.Trace, Samples: true},
		output.RunKey{Size: spec.Size, Species: simCfg.Engine.Species, Fugacity: simCfg.Engine.Fugacity, Lattice: string(spec.Type)},
	)
	if err != nil {
		return nil, err
	}
	defer rec.Close()

	s, err := sim.NewSimulator(adj, simCfg, sim.NewPartitionedRNG(sim.NewSimulationKey(seed)), rec)
	if err != nil {
		return nil, err
	}
	if err := rec.WriteSublattices(s.Sublattices.Labels); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logrus.Infof("run %s: L=%d M=%d z=%g lattice=%s seed=%d", runID, spec.Size, simCfg.Engine.Species, simCfg.Engine.Fugacity, spec.Type, seed)
	sum, err := s.Run(ctx)
	if err != nil {
		return sum, fmt.Errorf("run %s: %w", runID, err)
	}
	sum.RunID = runID
	if err := rec.WriteState(s.State()); err != nil {
		return sum, err
	}
	if spec.Type == lattice.TypeSquare {
		if err := rec.WriteStateGrid(s.State()); err != nil {
			logrus.Warnf("grid dump skipped: %v", err)
		}
	}
	if err := rec.Close(); err != nil {
		return sum, err
	}

	// Analysis and ledger writes still happen after an interrupt.
	after := context.WithoutCancel(ctx)
	if cfg.Output.Analysis != "" {
		watched := simCfg.Watch
		if watched == "" {
			watched = sim.WatchCrystal
		}
		a := ScriptAnalyzer{Command: cfg.Output.Analysis, WorkDir: cfg.Lattice.WorkDir}
		if tau, err := a.Analyze(after, rec.SamplePath(watched)); err != nil {
			logrus.Warnf("autocorrelation analysis skipped: %v", err)
		} else {
			sum.Autocorrelation = &tau
		}
	}
	if ledger != nil {
		if _, err := ledger.Record(after, ledgerRun(sum, spec, simCfg, cfg.Output.Dir)); err != nil {
			logrus.Warnf("run %s not recorded: %v", runID, err)
		}
	}
	return sum, nil
}

func ledgerRun(sum *sim.Summary, spec lattice.Spec, cfg sim.SimConfig, dir string) store.Run {
	return store.Run{
		ID:               sum.RunID,
		Lattice:          string(spec.Type),
		Size:             spec.Size,
		Species:          cfg.Engine.Species,
		Fugacity:         cfg.Engine.Fugacity,
		Seed:             sum.Seed,
		Sweeps:           sum.Sweeps,
		EquilibriumSweep: sum.EquilibriumSweep,
		TimedOut:         sum.TimedOut,
		Stopped:          sum.Stopped,
		Samples:          sum.Samples,
		CrystalMean:      sum.Crystal.Mean,
		CrystalVariance:  sum.Crystal.Variance,
		DensityMean:      sum.Density.Mean,
		DemixedMean:      sum.Demixed.Mean,
		Binder:           sum.Binder,
		Autocorrelation:  sum.Autocorrelation,
		OutputDir:        dir,
	}
}
