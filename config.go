package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/zephyrtronium/qlist/history"
	"github.com/zephyrtronium/qlist/workload"
)

// Load loads qlist from a TOML configuration.
func Load(ctx context.Context, r io.Reader) (*Config, *toml.MetaData, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't decode config: %w", err)
	}
	expandcfg(&cfg, os.Getenv)
	defaultcfg(&cfg)
	return &cfg, &md, nil
}

// loadFile loads the configuration from the named file, or the default
// configuration if file is empty.
func loadFile(ctx context.Context, file string) (*Config, error) {
	if file == "" {
		var cfg Config
		defaultcfg(&cfg)
		return &cfg, nil
	}
	r, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("couldn't open config file: %w", err)
	}
	defer r.Close()
	cfg, _, err := Load(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("couldn't load config: %w", err)
	}
	return cfg, nil
}

// newBench creates the benchmark described by the configuration.
func newBench(cfg *Config, id string) (*bench, error) {
	impls := make(map[string]bool, len(cfg.Bench.Impls))
	for _, impl := range cfg.Bench.Impls {
		if _, err := workload.New(impl); err != nil {
			return nil, fmt.Errorf("bad bench.impls: %w", err)
		}
		// Runs are keyed by trace, implementation, and workload.
		if impls[impl] {
			return nil, fmt.Errorf("bad bench.impls: %q listed twice", impl)
		}
		impls[impl] = true
	}
	b := bench{
		id:       id,
		loops:    cfg.Bench.Loops,
		preload:  cfg.Bench.Preload,
		seed:     cfg.Bench.Seed,
		fixed:    !cfg.Bench.NoFixed,
		parallel: cfg.Bench.Parallel,
		progress: fseconds(cfg.Bench.Progress),
	}
	seen := make(map[string]bool)
	if b.fixed {
		seen["push"], seen["shift"], seen["steady"] = true, true, true
	}
	for i, w := range cfg.Workload {
		if w.Name == "" {
			return nil, fmt.Errorf("workload %d has no name", i)
		}
		if seen[w.Name] {
			return nil, fmt.Errorf("duplicate workload name %q", w.Name)
		}
		seen[w.Name] = true
		m, err := workload.NewMix(w.Weights)
		if err != nil {
			return nil, fmt.Errorf("bad weights for workload %q: %w", w.Name, err)
		}
		ops := w.Ops
		if ops <= 0 {
			ops = cfg.Bench.Loops
		}
		b.mixes = append(b.mixes, mix{name: w.Name, ops: ops, preload: w.Preload, mix: m})
	}
	return &b, nil
}

// loadHistory opens and initializes the run history database.
// If the DSN is empty, the result is nil with no error.
func loadHistory(ctx context.Context, cfg DBCfg) (*sqlitex.Pool, error) {
	if cfg.History == "" {
		return nil, nil
	}
	slog.DebugContext(ctx, "history db", slog.String("path", cfg.History))
	db, err := sqlitex.NewPool(cfg.History, sqlitex.PoolOptions{})
	if err != nil {
		return nil, fmt.Errorf("couldn't open history db: %w", err)
	}
	if err := history.Init(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Config is the configuration for qlist.
type Config struct {
	// Bench is the benchmark suite configuration.
	Bench BenchCfg `toml:"bench"`
	// Workload is the list of randomized workloads to run in addition to the
	// fixed ones.
	Workload []WorkloadCfg `toml:"workload"`
	// DB is the database configuration.
	DB DBCfg `toml:"db"`
	// HTTP is the configuration for the metrics and API server.
	HTTP HTTPCfg `toml:"http"`
}

// BenchCfg configures the benchmark suite.
type BenchCfg struct {
	// Loops is the number of operations in each fixed workload.
	Loops int `toml:"loops"`
	// Preload is the number of elements queued before the steady workload.
	Preload int `toml:"preload"`
	// Parallel is the number of implementations to benchmark at once.
	Parallel int `toml:"parallel"`
	// Impls is the list of implementations to benchmark.
	Impls []string `toml:"impls"`
	// Seed seeds randomized workloads.
	Seed uint64 `toml:"seed"`
	// Progress is the minimum number of seconds between progress logs.
	Progress float64 `toml:"progress"`
	// NoFixed disables the fixed push, shift, and steady workloads.
	NoFixed bool `toml:"no_fixed"`
}

// WorkloadCfg configures a randomized workload.
type WorkloadCfg struct {
	// Name is the name of the workload. It must be unique.
	Name string `toml:"name"`
	// Ops is the number of operations to perform. Defaults to bench.loops.
	Ops int `toml:"ops"`
	// Preload is the number of elements queued before the workload starts.
	Preload int `toml:"preload"`
	// Weights maps operation names to their relative frequencies.
	Weights map[string]int `toml:"weights"`
}

// DBCfg is the configuration for databases.
type DBCfg struct {
	// History is the SQLite DSN recording benchmark runs.
	// If empty, runs are not recorded.
	History string `toml:"history"`
}

// HTTPCfg is the configuration for the metrics and API server.
type HTTPCfg struct {
	// Listen is the address to serve on. If empty, no server runs.
	Listen string `toml:"listen"`
}

func expandcfg(cfg *Config, expand func(s string) string) {
	fields := []*string{
		&cfg.DB.History,
		&cfg.HTTP.Listen,
	}
	for _, f := range fields {
		*f = os.Expand(*f, expand)
	}
	for i, s := range cfg.Bench.Impls {
		cfg.Bench.Impls[i] = os.Expand(s, expand)
	}
}

func defaultcfg(cfg *Config) {
	if cfg.Bench.Loops <= 0 {
		cfg.Bench.Loops = 1000000
	}
	if cfg.Bench.Preload <= 0 {
		cfg.Bench.Preload = 1000
	}
	if cfg.Bench.Parallel <= 0 {
		cfg.Bench.Parallel = 1
	}
	if len(cfg.Bench.Impls) == 0 {
		cfg.Bench.Impls = workload.Impls()
	}
	if cfg.Bench.Progress <= 0 {
		cfg.Bench.Progress = 1
	}
}

func fseconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
