// Package history records benchmark runs in SQLite.
package history

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-json-experiment/json"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/zephyrtronium/qlist/workload"
)

// Run is one benchmark trial of an implementation under a workload.
type Run struct {
	ID       string         `json:"id"`
	Impl     string         `json:"impl"`
	Workload string         `json:"workload"`
	Time     time.Time      `json:"time"`
	Dur      time.Duration  `json:"dur,format:nano"`
	Stats    workload.Stats `json:"stats"`
}

func take[DB *sqlitex.Pool | *sqlite.Conn](ctx context.Context, db DB) (*sqlite.Conn, func(), error) {
	switch db := any(db).(type) {
	case *sqlite.Conn:
		return db, func() {}, nil
	case *sqlitex.Pool:
		conn, err := db.Take(ctx)
		if err != nil {
			return nil, nil, err
		}
		return conn, func() { db.Put(conn) }, nil
	}
	panic("unreachable")
}

// Record records a run.
func Record[DB *sqlitex.Pool | *sqlite.Conn](ctx context.Context, db DB, run *Run) error {
	conn, done, err := take(ctx, db)
	if err != nil {
		return fmt.Errorf("couldn't get conn to record run: %w", err)
	}
	defer done()
	const insert = `INSERT INTO runs (id, impl, workload, time, dur, stats) VALUES (:id, :impl, :workload, :time, :dur, JSONB(CAST(:stats AS TEXT)))`
	st, err := conn.Prepare(insert)
	if err != nil {
		return fmt.Errorf("couldn't prepare statement to record run: %w", err)
	}
	b, err := json.Marshal(&run.Stats)
	if err != nil {
		// Should be impossible. Explode loudly.
		go panic(fmt.Errorf("history: couldn't marshal stats %#v: %w", run.Stats, err))
	}
	st.SetText(":id", run.ID)
	st.SetText(":impl", run.Impl)
	st.SetText(":workload", run.Workload)
	st.SetInt64(":time", run.Time.UnixNano())
	st.SetInt64(":dur", run.Dur.Nanoseconds())
	st.SetBytes(":stats", b)
	if _, err := st.Step(); err != nil {
		return fmt.Errorf("couldn't insert run: %w", err)
	}
	return nil
}

// Runs returns up to limit runs, most recent first.
func Runs[DB *sqlitex.Pool | *sqlite.Conn](ctx context.Context, db DB, limit int) ([]Run, error) {
	conn, done, err := take(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("couldn't get conn to list runs: %w", err)
	}
	defer done()
	const sel = `SELECT id, impl, workload, time, dur, JSON(stats) FROM runs ORDER BY time DESC, impl, workload LIMIT :limit`
	var r []Run
	opts := sqlitex.ExecOptions{
		Named: map[string]any{":limit": limit},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			run := Run{
				ID:       stmt.ColumnText(0),
				Impl:     stmt.ColumnText(1),
				Workload: stmt.ColumnText(2),
				Time:     time.Unix(0, stmt.ColumnInt64(3)),
				Dur:      time.Duration(stmt.ColumnInt64(4)),
			}
			if err := json.Unmarshal([]byte(stmt.ColumnText(5)), &run.Stats); err != nil {
				return fmt.Errorf("couldn't decode stats for run %s: %w", run.ID, err)
			}
			r = append(r, run)
			return nil
		},
	}
	if err := sqlitex.Execute(conn, sel, &opts); err != nil {
		return nil, fmt.Errorf("couldn't list runs: %w", err)
	}
	return r, nil
}

//go:embed schema.sql
var schemaSQL string

// Init initializes an SQLite DB to record benchmark runs.
func Init[DB *sqlitex.Pool | *sqlite.Conn](ctx context.Context, db DB) error {
	conn, done, err := take(ctx, db)
	if err != nil {
		return fmt.Errorf("couldn't get conn to initialize history: %w", err)
	}
	defer done()
	if err := sqlitex.ExecuteScript(conn, schemaSQL, nil); err != nil {
		return fmt.Errorf("couldn't initialize history schema: %w", err)
	}
	return nil
}
