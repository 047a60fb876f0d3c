package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wr-lattice/latticegas/sim"
	"github.com/wr-lattice/latticegas/sim/lattice"
	"github.com/wr-lattice/latticegas/sim/output"
	"github.com/wr-lattice/latticegas/sim/partition"
	"github.com/wr-lattice/latticegas/sim/store"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Optional run.yaml

	// lattice
	latticeSize   int    // Linear lattice size L
	latticeType   string // Geometry tag
	adjacencyPath string // Existing adjacency file, bypasses the generator
	generatorCmd  string // Geometry generator command
	workDir       string // Working directory of the generator and analysis scripts

	// engine
	species       int     // Number of species M
	fugacity      float64 // Activity z
	replacePolicy string  // Species-relabel acceptance rule
	initPolicy    string  // Initial seeding rule
	clusterMoves  bool    // Enable cluster moves
	clusterProb   float64 // Cluster-selection probability p
	seed          int64   // Master seed; drawn from the OS when unset

	// equilibrium
	sweeps           int     // Sweep budget before sampling starts regardless
	sampleSize       int     // Sampling sweeps after equilibrium
	blockSize        int     // Sweeps per variance block
	criticalVariance float64 // Block variance threshold
	watch            string  // Observable fed to the detector

	// output
	outDir       string // Output root
	writeTrace   bool   // Also write every sweep
	crystalMode  string // Crystal order-parameter formula
	binderStride int    // Decorrelation stride for the Binder cumulant
	analysisCmd  string // Autocorrelation script
	storePath    string // SQLite run ledger

	zValues []float64 // Fugacities of a scan
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "latticegas",
	Short: "Grand-canonical Monte Carlo for multi-species lattice gases",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes a single simulation using the YAML config and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation to equilibrium and sample it",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveConfig(cmd)
		jobs := []jobParams{{Fugacity: cfg.Engine.Fugacity, Seed: resolveSeed(cmd)}}
		if err := runJobs(context.Background(), cfg, jobs, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// scanCmd runs one simulation per fugacity, sequentially
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a sequence of simulations over fugacities",
	Run: func(cmd *cobra.Command, args []string) {
		if len(zValues) == 0 {
			logrus.Fatalf("No fugacities given; use --z-values")
		}
		cfg := resolveConfig(cmd)
		if err := runJobs(context.Background(), cfg, scanJobs(zValues, resolveSeed(cmd)), os.Stdout); err != nil {
			logrus.Fatalf("Scan failed: %v", err)
		}
		logrus.Info("Scan complete.")
	},
}

// partitionCmd reports the sublattice decomposition of an adjacency file
var partitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Partition a lattice into sublattice classes",
	Run: func(cmd *cobra.Command, args []string) {
		if adjacencyPath == "" {
			logrus.Fatalf("No adjacency file given; use --adjacency")
		}
		adj, _, err := lattice.Load(adjacencyPath)
		if err != nil {
			logrus.Fatalf("Failed to load lattice: %v", err)
		}
		assign, err := partition.Partition(adj)
		if err != nil {
			logrus.Fatalf("Partition failed: %v", err)
		}
		fmt.Printf("sites: %d\nclasses: %d\nsizes: %v\n", adj.Len(), assign.Classes, assign.Sizes())
		if outDir != "" {
			out := filepath.Join(outDir, "sublattice.txt")
			if err := output.WriteLabelsFile(out, assign.Labels); err != nil {
				logrus.Fatalf("Failed to write sublattices: %v", err)
			}
			logrus.Infof("sublattice labels written to %s", out)
		}
	},
}

// runsCmd lists the runs recorded in the ledger
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Run: func(cmd *cobra.Command, args []string) {
		if storePath == "" {
			logrus.Fatalf("No ledger given; use --store")
		}
		ledger, err := store.Open(storePath)
		if err != nil {
			logrus.Fatalf("Failed to open ledger: %v", err)
		}
		runs, err := ledger.List(cmd.Context(), store.Filter{Lattice: latticeType, Size: latticeSize, Species: species})
		ledger.Close()
		if err != nil {
			logrus.Fatalf("Failed to list runs: %v", err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLATTICE\tL\tM\tZ\tEQ\tSAMPLES\tCRYSTAL\tDENSITY")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\t%d\t%d\t%.4f\t%.4f\n",
				r.ID, r.Lattice, r.Size, r.Species, r.Fugacity, r.EquilibriumSweep, r.Samples, r.CrystalMean, r.DensityMean)
		}
		w.Flush()
	},
}

// resolveConfig loads the YAML file, lays explicit flags over it and aborts on
// any invalid value before a sweep runs.
func resolveConfig(cmd *cobra.Command) RunConfig {
	cfg, err := loadRunConfig(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cmd, &cfg)
	if _, err := cfg.latticeSpec(); err != nil {
		logrus.Fatalf("Invalid lattice: %v", err)
	}
	if _, err := cfg.simConfig(); err != nil {
		logrus.Fatalf("Invalid simulation parameters: %v", err)
	}
	return cfg
}

func resolveSeed(cmd *cobra.Command) int64 {
	if cmd.Flags().Changed("seed") {
		return seed
	}
	s := sim.EntropySeed()
	logrus.Infof("no --seed given, using %d", s)
	return s
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func registerSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "Path to a run.yaml; explicit flags override it")

	f.IntVar(&latticeSize, "L", 0, "Linear lattice size")
	f.StringVar(&latticeType, "lat", string(lattice.TypeSquare), "Lattice type (square, triangular, hexagonal, kagome, leaf)")
	f.StringVar(&adjacencyPath, "adjacency", "", "Existing adjacency-list file; skips the generator")
	f.StringVar(&generatorCmd, "generator", "python lattice_generation.py", "Lattice generator command")
	f.StringVar(&workDir, "workdir", ".", "Working directory for the generator and analysis scripts")

	f.IntVar(&species, "M", 1, "Number of particle species")
	f.Float64Var(&fugacity, "z", 1, "Fugacity")
	f.StringVar(&replacePolicy, "replace", string(sim.ReplaceNoMismatch), "Relabel rule (no-mismatch, vacant-neighbors)")
	f.StringVar(&initPolicy, "init", string(sim.InitRelaxed), "Initial seeding rule (relaxed, strict)")
	f.BoolVar(&clusterMoves, "cluster", false, "Enable cluster flip/vacate moves")
	f.Float64Var(&clusterProb, "cluster-p", 0.5, "Cluster-selection probability")
	f.Int64Var(&seed, "seed", 0, "Master seed; drawn from the OS when unset")

	f.IntVar(&sweeps, "sweeps", 100000, "Sweeps before sampling starts regardless of equilibrium")
	f.IntVar(&sampleSize, "sample-size", 5000000, "Sampling sweeps after equilibrium")
	f.IntVar(&blockSize, "block-size", 2500, "Sweeps per variance block")
	f.Float64Var(&criticalVariance, "critical-variance", 0.0005, "Block variance below which equilibrium is declared")
	f.StringVar(&watch, "watch", sim.WatchCrystal, "Observable fed to the equilibrium detector (crystal, density, demixed)")

	f.StringVar(&outDir, "out", "data", "Output directory")
	f.BoolVar(&writeTrace, "trace", false, "Also write the observables of every sweep")
	f.StringVar(&crystalMode, "crystal", "max", "Crystal order parameter (max, staggered)")
	f.IntVar(&binderStride, "stride", 10, "Decorrelation stride for the Binder cumulant")
	f.StringVar(&analysisCmd, "analysis", "", "Autocorrelation script run on the sample file")
	f.StringVar(&storePath, "store", "", "SQLite run ledger")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	registerSimFlags(runCmd)
	registerSimFlags(scanCmd)
	scanCmd.Flags().Float64SliceVar(&zValues, "z-values", nil, "Comma-separated fugacities to scan")

	partitionCmd.Flags().StringVar(&adjacencyPath, "adjacency", "", "Adjacency-list file")
	partitionCmd.Flags().StringVar(&outDir, "out", "", "Directory for sublattice.txt; nothing written when empty")

	runsCmd.Flags().StringVar(&storePath, "store", "", "SQLite run ledger")
	runsCmd.Flags().StringVar(&latticeType, "lat", "", "Only this lattice type")
	runsCmd.Flags().IntVar(&latticeSize, "L", 0, "Only this lattice size")
	runsCmd.Flags().IntVar(&species, "M", 0, "Only this species count")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(partitionCmd)
	rootCmd.AddCommand(runsCmd)
}
