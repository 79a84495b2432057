package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pixil98/go-inventory/internal/inventory"
)

const (
	KindPut     = "put"
	KindClear   = "clear"
	KindReplace = "replace"
	KindResize  = "resize"
)

// Entry is one recorded slot change.
type Entry struct {
	Seq       int64
	At        time.Time
	Container string
	Slot      int
	Kind      string
	ItemId    string
	ItemName  string
	OldCount  int
	NewCount  int
}

// Journal records container notifications into SQLite. Changes are buffered
// in memory and written out on Tick.
type Journal struct {
	db  *sql.DB
	now func() time.Time

	mu     sync.Mutex
	buf    []Entry
	closed bool

	closeOnce sync.Once
}

type JournalOpt func(*Journal)

// WithClock replaces the clock used to stamp entries.
func WithClock(now func() time.Time) JournalOpt {
	return func(j *Journal) {
		j.now = now
	}
}

func Open(path string, opts ...JournalOpt) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("empty journal path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	j := &Journal{db: db, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transfers (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			at_unix_ms INTEGER NOT NULL,
			container TEXT NOT NULL,
			slot INTEGER NOT NULL,
			kind TEXT NOT NULL,
			item_id TEXT NOT NULL,
			item_name TEXT NOT NULL,
			old_count INTEGER NOT NULL,
			new_count INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS transfers_container_seq ON transfers(container, seq);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Attach starts recording the notifications of c. The returned func stops it.
func (j *Journal) Attach(c *inventory.Container) func() {
	offSlot := c.OnSlotChanged(func(ev inventory.SlotChanged) {
		e := Entry{Container: ev.Container.Id(), Slot: ev.Slot}
		switch {
		case ev.Old == nil && ev.New == nil:
			return
		case ev.Old == nil:
			e.Kind = KindPut
			e.NewCount = int(ev.New.Count)
			e.ItemId, e.ItemName = ev.New.Id(), ev.New.Name()
		case ev.New == nil:
			e.Kind = KindClear
			e.OldCount = int(ev.Old.Count)
			e.ItemId, e.ItemName = ev.Old.Id(), ev.Old.Name()
		default:
			e.Kind = KindReplace
			e.OldCount = int(ev.Old.Count)
			e.NewCount = int(ev.New.Count)
			e.ItemId, e.ItemName = ev.New.Id(), ev.New.Name()
		}
		j.record(e)
	})
	offSize := c.OnStackSizeChanged(func(ev inventory.StackSizeChanged) {
		j.record(Entry{
			Container: ev.Container.Id(),
			Slot:      ev.Slot,
			Kind:      KindResize,
			ItemId:    ev.Item.Id(),
			ItemName:  ev.Item.Name(),
			OldCount:  int(ev.Old),
			NewCount:  int(ev.New),
		})
	})

	return func() {
		offSlot()
		offSize()
	}
}

func (j *Journal) record(e Entry) {
	e.At = j.now()

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return
	}
	j.buf = append(j.buf, e)
}

// Buffered returns the number of entries waiting to be written.
func (j *Journal) Buffered() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.buf)
}

// Tick writes out every buffered entry in one transaction. It does nothing
// once the journal is closed.
func (j *Journal) Tick(ctx context.Context) error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	pending := j.buf
	j.buf = nil
	j.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	if err := j.write(ctx, pending); err != nil {
		// Requeue ahead of anything recorded meanwhile.
		j.mu.Lock()
		j.buf = append(pending, j.buf...)
		j.mu.Unlock()
		return err
	}
	return nil
}

func (j *Journal) write(ctx context.Context, entries []Entry) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning journal transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transfers
		(at_unix_ms, container, slot, kind, item_id, item_name, old_count, new_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing journal insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx, e.At.UnixMilli(), e.Container, e.Slot, e.Kind, e.ItemId, e.ItemName, e.OldCount, e.NewCount)
		if err != nil {
			return fmt.Errorf("inserting journal entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing journal: %w", err)
	}
	return nil
}

// Recent returns up to limit written entries for a container, newest first.
func (j *Journal) Recent(ctx context.Context, containerId string, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT seq, at_unix_ms, container, slot, kind, item_id, item_name, old_count, new_count
		FROM transfers WHERE container = ? ORDER BY seq DESC LIMIT ?`, containerId, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var atMs int64
		if err := rows.Scan(&e.Seq, &atMs, &e.Container, &e.Slot, &e.Kind, &e.ItemId, &e.ItemName, &e.OldCount, &e.NewCount); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		e.At = time.UnixMilli(atMs).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading journal rows: %w", err)
	}
	return out, nil
}

// Start waits for ctx to end, then writes what is left and closes the database.
func (j *Journal) Start(ctx context.Context) error {
	<-ctx.Done()

	// ctx is already done, so the last flush needs its own.
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := j.Tick(flushCtx)
	if err != nil {
		slog.ErrorContext(ctx, "flushing journal on shutdown", "error", err, "lost", j.Buffered())
	}
	if cerr := j.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Close closes the database. Entries still buffered are dropped.
func (j *Journal) Close() error {
	var err error
	j.closeOnce.Do(func() {
		j.mu.Lock()
		j.closed = true
		j.buf = nil
		j.mu.Unlock()
		err = j.db.Close()
	})
	return err
}
