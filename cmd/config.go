package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wr-lattice/latticegas/sim"
	"github.com/wr-lattice/latticegas/sim/equilibrium"
	"github.com/wr-lattice/latticegas/sim/lattice"
	"github.com/wr-lattice/latticegas/sim/observable"
)

// RunConfig is the full run.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type RunConfig struct {
	Lattice     LatticeSection     `yaml:"lattice"`
	Engine      EngineSection      `yaml:"engine"`
	Equilibrium EquilibriumSection `yaml:"equilibrium"`
	Output      OutputSection      `yaml:"output"`
	Store       StoreSection       `yaml:"store"`
}

type LatticeSection struct {
	Size      int    `yaml:"size"`
	Type      string `yaml:"type"`
	Adjacency string `yaml:"adjacency"` // existing adjacency file; skips the generator
	Generator string `yaml:"generator"` // generator command, run as "<generator> -L <L> -l <type>"
	WorkDir   string `yaml:"workdir"`
}

type EngineSection struct {
	Species     int     `yaml:"species"`
	Fugacity    float64 `yaml:"fugacity"`
	Replace     string  `yaml:"replace"`
	Init        string  `yaml:"init"`
	Cluster     bool    `yaml:"cluster"`
	ClusterProb float64 `yaml:"cluster_prob"`
}

type EquilibriumSection struct {
	BlockSize        int     `yaml:"block_size"`
	CriticalVariance float64 `yaml:"critical_variance"`
	InitialSweeps    int     `yaml:"initial_sweeps"`
	SampleSize       int     `yaml:"sample_size"`
	Watch            string  `yaml:"watch"`
}

type OutputSection struct {
	Dir      string `yaml:"dir"`
	Trace    bool   `yaml:"trace"`
	Crystal  string `yaml:"crystal"`
	Stride   int    `yaml:"stride"`
	Analysis string `yaml:"analysis"` // autocorrelation script, run as "<analysis> <sample file>"
}

type StoreSection struct {
	Path string `yaml:"path"`
}

// defaultRunConfig mirrors the production defaults of the sim packages.
func defaultRunConfig() RunConfig {
	eng := sim.DefaultEngineConfig(1, 1)
	eq := equilibrium.DefaultConfig()
	return RunConfig{
		Lattice: LatticeSection{Type: string(lattice.TypeSquare), Generator: "python lattice_generation.py", WorkDir: "."},
		Engine: EngineSection{
			Species:     eng.Species,
			Fugacity:    eng.Fugacity,
			Replace:     string(eng.Replace),
			Init:        string(eng.Init),
			ClusterProb: eng.ClusterProb,
		},
		Equilibrium: EquilibriumSection{
			BlockSize:        eq.BlockSize,
			CriticalVariance: eq.CriticalVariance,
			InitialSweeps:    eq.InitialSweeps,
			SampleSize:       eq.SampleSize,
			Watch:            sim.WatchCrystal,
		},
		Output: OutputSection{Dir: "data", Crystal: string(observable.CrystalMax), Stride: observable.DefaultDecorrelationStride},
	}
}

// loadRunConfig overlays the YAML file at path onto the defaults.
// Uses strict field checking: typos must cause errors.
func loadRunConfig(path string) (RunConfig, error) {
	cfg := defaultRunConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags copies every explicitly set flag over the YAML values, so a
// flag left at its default never masks the file.
func applyFlags(cmd *cobra.Command, cfg *RunConfig) {
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Lookup(name) != nil && f.Changed(name) {
			apply()
		}
	}
	set("L", func() { cfg.Lattice.Size = latticeSize })
	set("lat", func() { cfg.Lattice.Type = latticeType })
	set("adjacency", func() { cfg.Lattice.Adjacency = adjacencyPath })
	set("generator", func() { cfg.Lattice.Generator = generatorCmd })
	set("workdir", func() { cfg.Lattice.WorkDir = workDir })
	set("M", func() { cfg.Engine.Species = species })
	set("z", func() { cfg.Engine.Fugacity = fugacity })
	set("replace", func() { cfg.Engine.Replace = replacePolicy })
	set("init", func() { cfg.Engine.Init = initPolicy })
	set("cluster", func() { cfg.Engine.Cluster = clusterMoves })
	set("cluster-p", func() { cfg.Engine.ClusterProb = clusterProb })
	set("sweeps", func() { cfg.Equilibrium.InitialSweeps = sweeps })
	set("sample-size", func() { cfg.Equilibrium.SampleSize = sampleSize })
	set("block-size", func() { cfg.Equilibrium.BlockSize = blockSize })
	set("critical-variance", func() { cfg.Equilibrium.CriticalVariance = criticalVariance })
	set("watch", func() { cfg.Equilibrium.Watch = watch })
	set("out", func() { cfg.Output.Dir = outDir })
	set("trace", func() { cfg.Output.Trace = writeTrace })
	set("crystal", func() { cfg.Output.Crystal = crystalMode })
	set("stride", func() { cfg.Output.Stride = binderStride })
	set("analysis", func() { cfg.Output.Analysis = analysisCmd })
	set("store", func() { cfg.Store.Path = storePath })
}

// latticeSpec validates the lattice section.
func (c RunConfig) latticeSpec() (lattice.Spec, error) {
	t, err := lattice.ParseType(c.Lattice.Type)
	if err != nil {
		return lattice.Spec{}, err
	}
	spec := lattice.Spec{Size: c.Lattice.Size, Type: t}
	return spec, spec.Validate()
}

// simConfig converts the engine, equilibrium and output sections.
func (c RunConfig) simConfig() (sim.SimConfig, error) {
	replace, err := sim.ParseReplacePolicy(c.Engine.Replace)
	if err != nil {
		return sim.SimConfig{}, err
	}
	seeding, err := sim.ParseInitPolicy(c.Engine.Init)
	if err != nil {
		return sim.SimConfig{}, err
	}
	crystal, err := observable.ParseCrystalMode(c.Output.Crystal)
	if err != nil {
		return sim.SimConfig{}, err
	}
	sc := sim.SimConfig{
		Engine: sim.EngineConfig{
			Species:     c.Engine.Species,
			Fugacity:    c.Engine.Fugacity,
			Replace:     replace,
			Init:        seeding,
			Cluster:     c.Engine.Cluster,
			ClusterProb: c.Engine.ClusterProb,
		},
		Equilibrium: equilibrium.Config{
			BlockSize:        c.Equilibrium.BlockSize,
			CriticalVariance: c.Equilibrium.CriticalVariance,
			InitialSweeps:    c.Equilibrium.InitialSweeps,
			SampleSize:       c.Equilibrium.SampleSize,
		},
		Crystal: crystal,
		Watch:   c.Equilibrium.Watch,
		Stride:  c.Output.Stride,
	}
	return sc, sc.Validate()
}
