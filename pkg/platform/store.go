// Package platform is the local stand-in for the remote ML platform: a
// SQLite-backed model registry and metrics tracking store. Callers see
// opaque identifiers only; everything else is an implementation detail of
// this package.
package platform

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound reports a lookup by an identifier the store has never issued.
var ErrNotFound = errors.New("platform: not found")

// Store manages the SQLite database holding models, runs, and dashboards.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates (or reopens) the store at dbPath. ":memory:" is supported
// for tests.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}

	// busy_timeout must come first so the remaining pragmas wait on locks.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// RegisterModel stores a serialized model blob under a fresh opaque ID.
func (s *Store) RegisterModel(ctx context.Context, name string, blob []byte) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO models (id, name, blob) VALUES (?, ?, ?)`, id, name, blob)
	if err != nil {
		return "", fmt.Errorf("register model %q: %w", name, err)
	}
	return id, nil
}

// GetModel returns the name and blob registered under id.
func (s *Store) GetModel(ctx context.Context, id string) (string, []byte, error) {
	var name string
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT name, blob FROM models WHERE id = ?`, id).Scan(&name, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, fmt.Errorf("model %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", nil, fmt.Errorf("get model %s: %w", id, err)
	}
	return name, blob, nil
}
