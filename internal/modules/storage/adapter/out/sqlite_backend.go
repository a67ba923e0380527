package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"typetrack/internal/modules/storage/dto"
	storageout "typetrack/internal/modules/storage/port/out"
	"typetrack/internal/platform/clock"

	_ "modernc.org/sqlite"
)

var tables = map[dto.Partition]string{
	dto.Session: "session_kv",
	dto.Sync:    "sync_kv",
}

// SQLiteBackend keeps each partition in its own table. The file is shared between the
// daemon and the popup, so the connection runs in WAL mode with a busy timeout.
type SQLiteBackend struct {
	db    *sql.DB
	clock clock.Clock
	mu    sync.Mutex
}

func NewSQLiteBackend(dbPath string, clk clock.Clock) (storageout.Backend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	backend := &SQLiteBackend{db: db, clock: clk}
	if err := backend.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

func (s *SQLiteBackend) ensureSchema(ctx context.Context) error {
	for partition, table := range tables {
		ddl := `
CREATE TABLE IF NOT EXISTS ` + table + ` (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create %s table: %w", partition, err)
		}
	}
	return nil
}

func (s *SQLiteBackend) Get(ctx context.Context, partition dto.Partition, key string) ([]byte, bool, error) {
	table, err := tableFor(partition)
	if err != nil {
		return nil, false, err
	}
	var value string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM `+table+` WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query value: %w", err)
	}
	return []byte(value), true, nil
}

func (s *SQLiteBackend) Put(ctx context.Context, partition dto.Partition, key string, value []byte) error {
	table, err := tableFor(partition)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stmt := `
INSERT INTO ` + table + ` (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  updated_at=excluded.updated_at;
`
	if _, err := s.db.ExecContext(ctx, stmt, key, string(value), s.clock.Now().Format("2006-01-02T15:04:05.000Z07:00")); err != nil {
		return fmt.Errorf("upsert value: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) Delete(ctx context.Context, partition dto.Partition, key string) error {
	table, err := tableFor(partition)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete value: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) Keys(ctx context.Context, partition dto.Partition) ([]string, error) {
	table, err := tableFor(partition)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM `+table+` ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()
	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *SQLiteBackend) Clear(ctx context.Context, partition dto.Partition) error {
	table, err := tableFor(partition)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

func tableFor(partition dto.Partition) (string, error) {
	table, ok := tables[partition]
	if !ok {
		return "", partition.Validate()
	}
	return table, nil
}
