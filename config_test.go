package main_test

import (
	"context"
	_ "embed"
	"strings"
	"testing"

	main "github.com/zephyrtronium/qlist"
)

//go:embed example.toml
var exampleToml string

func eqcase[T comparable](t *testing.T, name string, val T, eq T) {
	t.Helper()
	if val != eq {
		t.Errorf("wrong %s: want %#v, got %#v", name, eq, val)
	}
}

func TestExampleConfig(t *testing.T) {
	t.Setenv("QLIST_DATA", "/var/qlist")
	cfg, md, err := main.Load(context.Background(), strings.NewReader(exampleToml))
	if err != nil {
		t.Fatalf("failed to load example.toml: %v", err)
	}
	if u := md.Undecoded(); len(u) != 0 {
		t.Errorf("undecoded keys: %v", u)
	}

	eqcase(t, "Bench.Loops", cfg.Bench.Loops, 1000000)
	eqcase(t, "Bench.Preload", cfg.Bench.Preload, 1000)
	eqcase(t, "Bench.Parallel", cfg.Bench.Parallel, 2)
	eqcase(t, "len(Bench.Impls)", len(cfg.Bench.Impls), 3)
	eqcase(t, "Bench.Impls[1]", cfg.Bench.Impls[1], "eapache")
	eqcase(t, "Bench.Seed", cfg.Bench.Seed, uint64(1))
	eqcase(t, "Bench.Progress", cfg.Bench.Progress, 2.5)
	eqcase(t, "Bench.NoFixed", cfg.Bench.NoFixed, false)
	eqcase(t, "len(Workload)", len(cfg.Workload), 2)
	eqcase(t, "Workload[0].Name", cfg.Workload[0].Name, "churn")
	eqcase(t, "Workload[0].Ops", cfg.Workload[0].Ops, 500000)
	eqcase(t, "Workload[0].Preload", cfg.Workload[0].Preload, 20000)
	eqcase(t, "Workload[0].Weights[`push_back`]", cfg.Workload[0].Weights["push_back"], 3)
	eqcase(t, "Workload[0].Weights[`pop_back`]", cfg.Workload[0].Weights["pop_back"], 1)
	eqcase(t, "Workload[1].Name", cfg.Workload[1].Name, "random-access")
	eqcase(t, "Workload[1].Ops", cfg.Workload[1].Ops, 0)
	eqcase(t, "Workload[1].Weights[`peek_at`]", cfg.Workload[1].Weights["peek_at"], 6)
	eqcase(t, "DB.History", cfg.DB.History, "file:/var/qlist/history.db")
	eqcase(t, "HTTP.Listen", cfg.HTTP.Listen, ":4959")
}

func TestDefaultConfig(t *testing.T) {
	cfg, _, err := main.Load(context.Background(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("failed to load empty config: %v", err)
	}
	eqcase(t, "Bench.Loops", cfg.Bench.Loops, 1000000)
	eqcase(t, "Bench.Preload", cfg.Bench.Preload, 1000)
	eqcase(t, "Bench.Parallel", cfg.Bench.Parallel, 1)
	eqcase(t, "Bench.Progress", cfg.Bench.Progress, 1.0)
	eqcase(t, "len(Bench.Impls)", len(cfg.Bench.Impls), 3)
	eqcase(t, "len(Workload)", len(cfg.Workload), 0)
	eqcase(t, "DB.History", cfg.DB.History, "")
	eqcase(t, "HTTP.Listen", cfg.HTTP.Listen, "")
}

func TestBadConfig(t *testing.T) {
	_, _, err := main.Load(context.Background(), strings.NewReader("[bench]\nloops = \"many\"\n"))
	if err == nil {
		t.Error("no error loading config with a string for an int")
	}
}
