package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"nucascade/internal/archive"
	"nucascade/pkg/nucleus"
)

// stubConn fakes the tiny SQL surface the store uses so the pgx path can
// be exercised without a server.
type stubConn struct {
	execs    []string
	rows     map[string][]byte
	failPing bool
	failExec bool
	rowsErr  error
}

type stubDriver struct{ conn *stubConn }

var stubSeq atomic.Int64

func newStubDB(t *testing.T) (*sql.DB, *stubConn) {
	t.Helper()
	conn := &stubConn{rows: make(map[string][]byte)}
	name := fmt.Sprintf("stubpg%d", stubSeq.Add(1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		t.Fatalf("open stub: %v", err)
	}
	return db, conn
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error)           { return nil, fmt.Errorf("not implemented") }

func (c *stubConn) Ping(context.Context) error {
	if c.failPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.execs = append(c.execs, query)
	if c.failExec {
		return nil, fmt.Errorf("exec fail")
	}
	if strings.HasPrefix(strings.TrimSpace(query), "INSERT INTO runs") {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected 2 args, got %d", len(args))
		}
		id, ok := args[0].Value.(string)
		if !ok {
			return nil, fmt.Errorf("id arg type %T", args[0].Value)
		}
		payload, ok := args[1].Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("payload arg type %T", args[1].Value)
		}
		c.rows[id] = append([]byte(nil), payload...)
	}
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if !strings.HasPrefix(strings.TrimSpace(query), "SELECT id, payload FROM runs") {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	ids := make([]string, 0, len(c.rows))
	for id := range c.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	values := make([][]driver.Value, 0, len(ids))
	for _, id := range ids {
		values = append(values, []driver.Value{id, c.rows[id]})
	}
	return &stubRows{cols: []string{"id", "payload"}, rows: values, err: c.rowsErr}, nil
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
	err  error
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

func withStub(t *testing.T) (*Store, *stubConn) {
	t.Helper()
	db, conn := newStubDB(t)
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, conn
}

func testRun(id string) archive.Run {
	t0 := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	return archive.Run{
		ID:            id,
		Seed:          11,
		Target:        nucleus.Nuclide{Z: 18, A: 40},
		ProjectilePDG: nucleus.PDGElectronNeutrino,
		Events:        50,
		StartedAt:     t0,
		FinishedAt:    t0.Add(time.Second),
	}
}

func TestNewStoreEnsuresTable(t *testing.T) {
	_, conn := withStub(t)
	var sawCreate bool
	for _, q := range conn.execs {
		if strings.Contains(q, "CREATE TABLE IF NOT EXISTS runs") {
			sawCreate = true
		}
	}
	if !sawCreate {
		t.Fatalf("expected table creation, got %v", conn.execs)
	}
}

func TestPutUpsertsRow(t *testing.T) {
	store, conn := withStub(t)
	ctx := context.Background()
	run := testRun("run-1")
	if err := store.Put(ctx, run); err != nil {
		t.Fatalf("put: %v", err)
	}
	run.Events = 75
	if err := store.Put(ctx, run); err != nil {
		t.Fatalf("put updated: %v", err)
	}
	payload, ok := conn.rows["run-1"]
	if !ok {
		t.Fatalf("row not written: %v", conn.rows)
	}
	var stored archive.Run
	if err := json.Unmarshal(payload, &stored); err != nil {
		t.Fatalf("decode stored payload: %v", err)
	}
	if stored.Events != 75 {
		t.Fatalf("expected upserted events, got %d", stored.Events)
	}
	got, err := store.Get(ctx, "run-1")
	if err != nil || got.Events != 75 {
		t.Fatalf("memory side not updated: %v %+v", err, got)
	}
}

func TestNewStoreHydratesExistingRows(t *testing.T) {
	db, conn := newStubDB(t)
	payload, err := json.Marshal(testRun("seeded"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	conn.rows["seeded"] = payload
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	got, err := store.Get(context.Background(), "seeded")
	if err != nil || got.Seed != 11 {
		t.Fatalf("hydration failed: %v %+v", err, got)
	}
}

func TestNewStoreFailures(t *testing.T) {
	cases := []struct {
		name string
		prep func(conn *stubConn)
	}{
		{"ping", func(c *stubConn) { c.failPing = true }},
		{"ddl", func(c *stubConn) { c.failExec = true }},
		{"corrupt payload", func(c *stubConn) { c.rows["bad"] = []byte("{") }},
		{"rows iteration", func(c *stubConn) { c.rowsErr = errors.New("iter fail") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, conn := newStubDB(t)
			tc.prep(conn)
			restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
			t.Cleanup(restore)
			if _, err := NewStore(context.Background(), ""); err == nil {
				t.Fatalf("expected construction failure")
			}
		})
	}
}

func TestPutFailurePropagates(t *testing.T) {
	store, conn := withStub(t)
	conn.failExec = true
	if err := store.Put(context.Background(), testRun("run-1")); err == nil {
		t.Fatalf("expected upsert failure")
	}
}

func TestOpenErrorPropagates(t *testing.T) {
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errors.New("open fail") })
	t.Cleanup(restore)
	if _, err := NewStore(context.Background(), ""); err == nil {
		t.Fatalf("expected open failure")
	}
}

func TestStoreAgainstServer(t *testing.T) {
	dsn := os.Getenv("NUCASCADE_ARCHIVE_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("NUCASCADE_ARCHIVE_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	store, err := NewStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer func() { _ = store.Close() }()
	run := testRun(fmt.Sprintf("it-%d", time.Now().UnixNano()))
	if err := store.Put(ctx, run); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, run.ID)
	if err != nil || got.Seed != run.Seed {
		t.Fatalf("round trip: %v %+v", err, got)
	}
}
