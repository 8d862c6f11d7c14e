/*
Package sqlite provides the SQLite-backed storage tier.

PURPOSE:
  The authoritative tier on platforms with a writable data directory.
  Documents live in one table keyed by name; the payload is the same
  JSON the file tiers hold, so tiers stay interchangeable.

SCHEMA:
  documents(name TEXT PRIMARY KEY, data TEXT NOT NULL,
            updated_at TEXT NOT NULL)

WAL MODE:
  Opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

MIGRATION:
  Schema is auto-migrated on New(). The table is tiny and stable; a
  versioned migration tool would be overkill here.

USAGE:
  tier, err := sqlite.New("./data/verse-engine.db")
  if err != nil {
      log.Fatal(err)
  }
  defer tier.Close()
  st := store.New(logger, tier, store.NewMemory())

SEE ALSO:
  - store/store.go: the tier interface and walking order
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/grace/verse-engine/store"
)

// Tier implements store.Tier on a SQLite database.
type Tier struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath and migrates the
// schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Tier, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	t := &Tier{db: db}
	if err := t.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return t, nil
}

func (t *Tier) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := t.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (t *Tier) Close() error {
	return t.db.Close()
}

func (t *Tier) Name() string { return "sqlite" }

func (t *Tier) Read(ctx context.Context, doc string) ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var data string
	err := t.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE name = ?`, doc).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, store.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", doc, err)
	}
	return []byte(data), nil
}

func (t *Tier) Write(ctx context.Context, doc string, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := t.db.ExecContext(ctx, `
		INSERT INTO documents (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		doc, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write %s: %w", doc, err)
	}
	return nil
}

func (t *Tier) Delete(ctx context.Context, doc string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, doc); err != nil {
		return fmt.Errorf("delete %s: %w", doc, err)
	}
	return nil
}
