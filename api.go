package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof" // register handlers
	"regexp"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/zephyrtronium/qlist/history"
	"github.com/zephyrtronium/qlist/workload"
)

// server serves metrics and results over HTTP.
type server struct {
	// db is the run history. If nil, only runs from this process are served.
	db *sqlitex.Pool

	mu   sync.Mutex
	runs []history.Run
}

// add makes runs available to the API.
func (s *server) add(runs ...history.Run) {
	s.mu.Lock()
	s.runs = append(s.runs, runs...)
	// Runs arrive ordered by implementation. Keep them by start time so the
	// listing can walk backward from the newest.
	slices.SortStableFunc(s.runs, func(a, b history.Run) int { return a.Time.Compare(b.Time) })
	s.mu.Unlock()
}

// routes registers the API handlers on mux.
func (s *server) routes(mux *http.ServeMux, metrics []prometheus.Collector) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorMemStatsMetricsDisabled(),
		collectors.WithGoCollectorRuntimeMetrics(
			collectors.GoRuntimeMetricsRule{
				Matcher: regexp.MustCompile(`^(/gc/gogc:percent|/gc/heap/allocs:bytes|/gc/heap/allocs:objects|/gc/heap/goal:bytes|/gc/cycles/total:gc-cycles|/memory/classes/total:bytes|/sched/gomaxprocs:threads|/sched/goroutines:goroutines)$`),
			},
		),
	))
	reg.MustRegister(metrics...)
	opts := promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, opts))
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("GET /api/impls", s.apiImpls)
	mux.HandleFunc("GET /api/runs", s.apiRuns)
}

// serve runs an HTTP server on listen until ctx is done.
func (s *server) serve(ctx context.Context, listen string, mux *http.ServeMux) error {
	l, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("couldn't start API server: %w", err)
	}
	srv := http.Server{
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
		BaseContext: func(l net.Listener) context.Context { return ctx },
	}
	go func() {
		slog.InfoContext(ctx, "HTTP API server", slog.Any("addr", l.Addr()))
		err := srv.Serve(l)
		if err == http.ErrServerClosed {
			return
		}
		slog.ErrorContext(ctx, "HTTP API server closed", slog.Any("err", err))
	}()
	<-ctx.Done()
	// The context is now done, so it is obviously the wrong choice for
	// managing the shutdown.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func jsonerror(w http.ResponseWriter, status int, msg string) {
	v := struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}{
		Error:  msg,
		Status: status,
	}
	b, err := json.Marshal(&v)
	if err != nil {
		panic(err)
	}
	w.WriteHeader(status)
	w.Write(b)
}

func (s *server) apiImpls(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	u := struct {
		Data   []string `json:"data"`
		Status int      `json:"status"`
	}{
		Data:   workload.Impls(),
		Status: http.StatusOK,
	}
	b, err := json.Marshal(&u)
	if err != nil {
		panic(err)
	}
	w.Write(b)
}

func (s *server) apiRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slog.With(slog.String("api", "runs"), slog.Any("trace", uuid.New()))
	log.InfoContext(ctx, "handle", slog.String("route", r.Pattern), slog.String("remote", r.RemoteAddr))
	defer log.InfoContext(ctx, "done")
	w.Header().Set("Content-Type", "application/json")
	n := 64
	if q := r.FormValue("n"); q != "" {
		var err error
		n, err = strconv.Atoi(q)
		if err != nil || n <= 0 {
			log.WarnContext(ctx, "bad request", slog.String("n", q), slog.Any("err", err))
			jsonerror(w, http.StatusBadRequest, "invalid page size")
			return
		}
	}
	var runs []history.Run
	if s.db != nil {
		var err error
		runs, err = history.Runs(ctx, s.db, n)
		if err != nil {
			log.ErrorContext(ctx, "couldn't list runs", slog.Any("err", err))
			jsonerror(w, http.StatusInternalServerError, err.Error())
			return
		}
	} else {
		s.mu.Lock()
		// s.runs is ordered by time, so this is most recent first like the history.
		k := min(n, len(s.runs))
		runs = make([]history.Run, k)
		for i := range runs {
			runs[i] = s.runs[len(s.runs)-1-i]
		}
		s.mu.Unlock()
	}
	u := struct {
		Data   []history.Run `json:"data"`
		Status int           `json:"status"`
	}{
		Data:   runs,
		Status: http.StatusOK,
	}
	if u.Data == nil {
		u.Data = []history.Run{}
	}
	b, err := json.Marshal(&u)
	if err != nil {
		panic(err)
	}
	if _, err := w.Write(b); err != nil {
		log.ErrorContext(ctx, "write response failed", slog.Any("err", err))
	}
}
