package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/time/rate"

	"github.com/zephyrtronium/qlist/history"
	"github.com/zephyrtronium/qlist/metrics"
	"github.com/zephyrtronium/qlist/workload"
)

// bench runs every configured workload against each implementation.
type bench struct {
	// id is the trace ID shared by all runs of one invocation.
	id       string
	loops    int
	preload  int
	seed     uint64
	fixed    bool
	mixes    []mix
	parallel int
	progress time.Duration

	metrics *metrics.Metrics
	// record, if not nil, is called with each completed run.
	record func(ctx context.Context, run *history.Run) error
}

// mix is a randomized workload.
type mix struct {
	name    string
	ops     int
	preload int
	mix     *workload.Mix
}

// run benchmarks each implementation. Runs are ordered by implementation,
// then by workload in configuration order. If an error occurs, the runs
// completed so far are returned along with it.
func (b *bench) run(ctx context.Context, impls []string) ([]history.Run, error) {
	var (
		mu   sync.Mutex
		runs [][]history.Run
	)
	runs = make([][]history.Run, len(impls))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(b.parallel, 1))
	for i, impl := range impls {
		group.Go(func() error {
			r, err := b.impl(ctx, impl)
			mu.Lock()
			runs[i] = r
			mu.Unlock()
			return err
		})
	}
	err := group.Wait()
	r := slices.Concat(runs...)
	slices.SortStableFunc(r, func(a, b history.Run) int { return cmp.Compare(a.Impl, b.Impl) })
	return r, err
}

// impl runs every workload against one implementation.
func (b *bench) impl(ctx context.Context, impl string) ([]history.Run, error) {
	log := slog.With(slog.String("impl", impl), slog.String("trace", b.id))
	progress := rate.Sometimes{Interval: b.progress}
	var (
		runs  []history.Run
		total workload.Stats
	)
	trial := func(name string, q workload.Queue, f func(workload.Queue, *workload.Stats) error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var st workload.Stats
		start := time.Now()
		err := f(q, &st)
		dur := time.Since(start)
		switch {
		case errors.Is(err, workload.ErrUnsupported):
			log.InfoContext(ctx, "skip", slog.String("workload", name), slog.Any("err", err))
			return nil
		case err != nil:
			return fmt.Errorf("couldn't run %s on %s: %w", name, impl, err)
		}
		run := history.Run{
			ID:       b.id,
			Impl:     impl,
			Workload: name,
			Time:     start,
			Dur:      dur,
			Stats:    st,
		}
		b.observe(&run)
		log.DebugContext(ctx, "trial",
			slog.String("workload", name),
			slog.Duration("dur", dur),
			slog.Int("ops", st.Ops),
			slog.Int("grows", st.Grows),
			slog.Int("shrinks", st.Shrinks),
		)
		progress.Do(func() {
			log.InfoContext(ctx, "progress", slog.String("workload", name), slog.Int("done", len(runs)+1))
		})
		if b.record != nil {
			if err := b.record(ctx, &run); err != nil {
				return fmt.Errorf("couldn't record run: %w", err)
			}
		}
		runs = append(runs, run)
		total.Add(st)
		return nil
	}
	defer func() {
		log.InfoContext(ctx, "done",
			slog.Int("trials", len(runs)),
			slog.Int("ops", total.Ops),
			slog.Int("grows", total.Grows),
			slog.Int("shrinks", total.Shrinks),
			slog.Int("peak_cap", total.PeakCap),
		)
	}()

	if b.fixed {
		q, err := workload.New(impl)
		if err != nil {
			return nil, err
		}
		err = trial("push", q, func(q workload.Queue, st *workload.Stats) error {
			workload.Push(q, b.loops, st)
			return nil
		})
		if err != nil {
			return runs, err
		}
		// Shift drains the same queue that push filled.
		err = trial("shift", q, func(q workload.Queue, st *workload.Stats) error {
			workload.Shift(q, b.loops, st)
			return nil
		})
		if err != nil {
			return runs, err
		}
		q, _ = workload.New(impl)
		err = trial("steady", q, func(q workload.Queue, st *workload.Stats) error {
			workload.Steady(q, b.preload, b.loops, st)
			return nil
		})
		if err != nil {
			return runs, err
		}
	}
	for i, m := range b.mixes {
		q, _ := workload.New(impl)
		for k := range m.preload {
			q.PushBack(k)
		}
		// Seed by workload so every implementation sees the same operations.
		r := rand.New(rand.NewPCG(b.seed, uint64(i)))
		err := trial(m.name, q, func(q workload.Queue, st *workload.Stats) error {
			return workload.Random(q, m.mix, r, m.ops, st)
		})
		if err != nil {
			return runs, err
		}
	}
	return runs, nil
}

func (b *bench) observe(run *history.Run) {
	m := b.metrics
	if m == nil {
		return
	}
	m.Runs.Observe(1)
	m.Ops.Observe(float64(run.Stats.Ops), run.Impl, run.Workload)
	m.Grows.Observe(float64(run.Stats.Grows), run.Impl, run.Workload)
	m.Shrinks.Observe(float64(run.Stats.Shrinks), run.Impl, run.Workload)
	m.PeakCap.Observe(float64(run.Stats.PeakCap), run.Impl, run.Workload)
	m.PhaseLatency.Observe(run.Dur.Seconds(), run.Impl, run.Workload)
}

// report writes a human-readable table of runs.
func report(w io.Writer, runs []history.Run) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	p.Fprintf(tw, "impl\tworkload\tops\ttime\tk ops/s\tgrows\tshrinks\tpeak cap\t\n")
	for _, r := range runs {
		var kps float64
		if s := r.Dur.Seconds(); s > 0 {
			kps = float64(r.Stats.Ops) / 1000 / s
		}
		p.Fprintf(tw, "%s\t%s\t%d\t%v\t%.0f\t%d\t%d\t%d\t\n",
			r.Impl,
			r.Workload,
			r.Stats.Ops,
			r.Dur.Round(time.Microsecond),
			kps,
			r.Stats.Grows,
			r.Stats.Shrinks,
			r.Stats.PeakCap,
		)
	}
	return tw.Flush()
}
