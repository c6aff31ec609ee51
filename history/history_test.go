package history_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/zephyrtronium/qlist/history"
	"github.com/zephyrtronium/qlist/workload"
)

var dbCount atomic.Int64

func testDB(ctx context.Context) *sqlitex.Pool {
	k := dbCount.Add(1)
	pool, err := sqlitex.NewPool(fmt.Sprintf("file:test-history-%d.db?mode=memory&cache=shared", k), sqlitex.PoolOptions{Flags: sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenMemory | sqlite.OpenSharedCache | sqlite.OpenURI})
	if err != nil {
		panic(err)
	}
	if err := history.Init(ctx, pool); err != nil {
		panic(err)
	}
	return pool
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	db := testDB(ctx)
	defer db.Close()
	run := history.Run{
		ID:       "bocchi",
		Impl:     "qlist",
		Workload: "push",
		Time:     time.Unix(1, 0),
		Dur:      time.Second,
		Stats:    workload.Stats{Ops: 1000, Hits: 1000, Grows: 8, PeakCap: 1024, PeakLen: 1000},
	}
	if err := history.Record(ctx, db, &run); err != nil {
		t.Fatalf("couldn't record: %v", err)
	}
	conn, err := db.Take(ctx)
	defer db.Put(conn)
	if err != nil {
		t.Fatalf("couldn't get conn: %v", err)
	}
	var n int
	opts := sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			n++
			if got := stmt.ColumnText(0); got != "bocchi" {
				t.Errorf("wrong id: want %q, got %q", "bocchi", got)
			}
			if got := stmt.ColumnInt64(1); got != time.Second.Nanoseconds() {
				t.Errorf("wrong duration: want %d, got %d", time.Second.Nanoseconds(), got)
			}
			if got := stmt.ColumnInt64(2); got != 1024 {
				t.Errorf("wrong peak capacity: want 1024, got %d", got)
			}
			return nil
		},
	}
	err = sqlitex.ExecuteTransient(conn, `SELECT id, dur, stats->>'$.peak_cap' FROM runs`, &opts)
	if err != nil {
		t.Errorf("failed to scan: %v", err)
	}
	if n != 1 {
		t.Errorf("wrong number of rows: want 1, got %d", n)
	}
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	db := testDB(ctx)
	defer db.Close()
	var want []history.Run
	for i := range 5 {
		run := history.Run{
			ID:       fmt.Sprint("run", i),
			Impl:     "qlist",
			Workload: "steady",
			Time:     time.Unix(int64(i), 0),
			Dur:      time.Duration(i) * time.Millisecond,
			Stats:    workload.Stats{Ops: i, Hits: i},
		}
		if err := history.Record(ctx, db, &run); err != nil {
			t.Fatalf("couldn't record run %d: %v", i, err)
		}
		want = append(want, run)
	}
	got, err := history.Runs(ctx, db, 3)
	if err != nil {
		t.Fatalf("couldn't list runs: %v", err)
	}
	// Most recent first.
	want = []history.Run{want[4], want[3], want[2]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong runs:\n%s", diff)
	}
}

func TestRunsEmpty(t *testing.T) {
	ctx := context.Background()
	db := testDB(ctx)
	defer db.Close()
	got, err := history.Runs(ctx, db, 10)
	if err != nil {
		t.Fatalf("couldn't list runs: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("runs from empty db: %v", got)
	}
}
