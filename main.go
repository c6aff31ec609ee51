package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/qlist/history"
	"github.com/zephyrtronium/qlist/metrics"
	"github.com/zephyrtronium/qlist/workload"
)

var app = cli.Command{
	Name:  "qlist",
	Usage: "Ring buffer deque benchmarks and playground",

	Flags: []cli.Flag{
		&flagConfig,
		&flagLog,
		&flagLogFormat,
	},
	Commands: []*cli.Command{
		{
			Name:  "bench",
			Usage: "Benchmark queue implementations",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:  "impl",
					Usage: "Implementation to benchmark; may be given multiple times. Overrides bench.impls",
				},
				&cli.IntFlag{
					Name:  "loops",
					Usage: "Operations per fixed workload. Overrides bench.loops",
				},
				&cli.BoolFlag{
					Name:  "json",
					Usage: "Print results as JSON lines instead of a table",
				},
				&cli.BoolFlag{
					Name:  "serve",
					Usage: "Keep serving http.listen after the benchmark finishes",
				},
			},
			Action: cliBench,
		},
		{
			Name:      "ops",
			Aliases:   []string{"do", "script"},
			Usage:     "Apply deque operations to a list of strings and print each result",
			ArgsUsage: "op[:arg[:value]]...",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:  "from",
					Usage: "Initial contents of the deque, front first",
				},
			},
			Action: cliOps,
		},
		{
			Name:  "history",
			Usage: "List recorded benchmark runs",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "n",
					Usage: "Number of runs to list",
					Value: 20,
				},
				&cli.BoolFlag{
					Name:  "json",
					Usage: "Print results as JSON lines instead of a table",
				},
			},
			Action: cliHistory,
		},
		{
			Name:   "impls",
			Usage:  "List available implementations",
			Action: cliImpls,
		},
	},
	Action: cliBench,

	Authors: []any{
		"Branden J Brown  @zephyrtronium",
	},
	Copyright: "Copyright 2024 Branden J Brown",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		<-ctx.Done()
		stop()
	}()
	err := app.Run(ctx, os.Args)
	if err != nil {
		fmt.Println(err)
	}
}

func cliBench(ctx context.Context, cmd *cli.Command) error {
	slog.SetDefault(loggerFromFlags(cmd))
	cfg, err := loadFile(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	if impls := cmd.StringSlice("impl"); len(impls) != 0 {
		cfg.Bench.Impls = impls
	}
	if n := cmd.Int("loops"); n > 0 {
		cfg.Bench.Loops = int(n)
	}
	id := uuid.NewString()
	b, err := newBench(cfg, id)
	if err != nil {
		return err
	}
	db, err := loadHistory(ctx, cfg.DB)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		b.record = func(ctx context.Context, run *history.Run) error {
			return history.Record(ctx, db, run)
		}
	}
	b.metrics = metrics.New("qlist")
	srv := &server{db: db}

	var group errgroup.Group
	sctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.HTTP.Listen != "" {
		mux := http.NewServeMux()
		srv.routes(mux, b.metrics.Collectors())
		group.Go(func() error { return srv.serve(sctx, cfg.HTTP.Listen, mux) })
	}
	slog.InfoContext(ctx, "bench", slog.String("trace", id), slog.Any("impls", cfg.Bench.Impls), slog.Int("loops", cfg.Bench.Loops))
	runs, err := b.run(ctx, cfg.Bench.Impls)
	srv.add(runs...)
	if err != nil {
		cancel()
		return errors.Join(fmt.Errorf("benchmark failed: %w", err), group.Wait())
	}
	if err := printRuns(cmd, runs); err != nil {
		cancel()
		return errors.Join(err, group.Wait())
	}
	if !cmd.Bool("serve") {
		cancel()
	}
	// With --serve, this waits for an interrupt.
	return group.Wait()
}

func cliOps(ctx context.Context, cmd *cli.Command) error {
	slog.SetDefault(loggerFromFlags(cmd))
	return runOps(cmd.Root().Writer, cmd.StringSlice("from"), cmd.Args().Slice())
}

func cliHistory(ctx context.Context, cmd *cli.Command) error {
	slog.SetDefault(loggerFromFlags(cmd))
	cfg, err := loadFile(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	db, err := loadHistory(ctx, cfg.DB)
	if err != nil {
		return err
	}
	if db == nil {
		return errors.New("no history database configured; set db.history")
	}
	defer db.Close()
	runs, err := history.Runs(ctx, db, int(cmd.Int("n")))
	if err != nil {
		return err
	}
	return printRuns(cmd, runs)
}

func cliImpls(ctx context.Context, cmd *cli.Command) error {
	for _, s := range workload.Impls() {
		fmt.Fprintln(cmd.Root().Writer, s)
	}
	return nil
}

func printRuns(cmd *cli.Command, runs []history.Run) error {
	w := cmd.Root().Writer
	if !cmd.Bool("json") {
		return report(w, runs)
	}
	e := jsontext.NewEncoder(w)
	for i := range runs {
		if err := json.MarshalEncode(e, &runs[i]); err != nil {
			return fmt.Errorf("couldn't write run: %w", err)
		}
	}
	return nil
}

var (
	flagConfig = cli.StringFlag{
		Name:       "config",
		Usage:      "TOML config file; defaults apply when omitted",
		Persistent: true,
		Action: func(ctx context.Context, cmd *cli.Command, s string) error {
			i, err := os.Stat(s)
			if err != nil {
				return err
			}
			if !i.Mode().IsRegular() {
				return errors.New("config must be a regular file")
			}
			return nil
		},
	}

	flagLog = cli.StringFlag{
		Name:       "log",
		Usage:      "Logging level, one of debug, info, warn, error",
		Value:      "info",
		Persistent: true,
		Action: func(ctx context.Context, c *cli.Command, s string) error {
			var l slog.Level
			return l.UnmarshalText([]byte(s))
		},
	}

	flagLogFormat = cli.StringFlag{
		Name:       "log-format",
		Usage:      "Logging format, either text or json",
		Value:      "text",
		Persistent: true,
		Action: func(ctx context.Context, c *cli.Command, s string) error {
			switch strings.ToLower(s) {
			case "text", "json":
				return nil
			default:
				return errors.New("unknown logging format")
			}
		},
	}
)

func loggerFromFlags(cmd *cli.Command) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cmd.String("log"))); err != nil {
		panic(err)
	}
	var h slog.Handler
	switch strings.ToLower(cmd.String("log-format")) {
	case "text":
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	case "json":
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	}
	return slog.New(h)
}
