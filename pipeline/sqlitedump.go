package pipeline

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/antcrawl/thing"
)

// validTableName restricts table names to plain identifiers since the
// CREATE/INSERT statements interpolate them.
var validTableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteDump persists Items into a SQLite table. Each row stores the
// collection timestamp and the Item encoded as JSON, which keeps the
// schema independent of the Item's field set.
type SQLiteDump struct {
	Base

	path  string
	table string

	db *sql.DB
}

// NewSQLiteDump creates a SQLiteDump writing to the database file at path.
// An empty table name defaults to "items".
func NewSQLiteDump(path, table string) *SQLiteDump {
	if table == "" {
		table = "items"
	}
	return &SQLiteDump{path: path, table: table}
}

// Name implements Pipeline.
func (*SQLiteDump) Name() string { return "sqlitedump" }

// OnOpen opens the database and creates the table if needed.
func (s *SQLiteDump) OnOpen(ctx context.Context) error {
	if !validTableName.MatchString(s.table) {
		return fmt.Errorf("invalid table name %q", s.table)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path+"?mode=rwc")
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		collected_at TEXT NOT NULL,
		fields TEXT NOT NULL
	)`, s.table)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return fmt.Errorf("create table %s: %w", s.table, err)
	}

	s.db = db
	return nil
}

// OnClose closes the database.
func (s *SQLiteDump) OnClose(context.Context) error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Process implements Pipeline.
func (s *SQLiteDump) Process(ctx context.Context, t thing.Thing) (thing.Thing, error) {
	item, ok := t.(*thing.Item)
	if !ok {
		return t, nil
	}
	if s.db == nil {
		return nil, fmt.Errorf("database %s is not open", s.path)
	}

	fields, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode item: %w", err)
	}

	query := fmt.Sprintf("INSERT INTO %s (collected_at, fields) VALUES (?, ?)", s.table)
	if _, err := s.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339Nano), string(fields)); err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return item, nil
}
