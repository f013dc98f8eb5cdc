// Package kvstore provides the persistent key-value stores behind the
// history recorder and the settings.
package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Scope names. The sync scope holds small settings, the local scope holds
// history and tag counts.
const (
	ScopeSync  = "sync"
	ScopeLocal = "local"
)

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS kv (
	scope TEXT NOT NULL,
	key TEXT NOT NULL,
	value BLOB NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (scope, key)
);
`

// DB is a SQLite file shared by every scope.
type DB struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open database: %w", err)
	}
	// a single writer keeps read-modify-write sequences from interleaving
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("kvstore: set WAL mode: %w", err)
	}
	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("kvstore: create tables: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Scope returns a store restricted to one scope.
func (d *DB) Scope(name string) *Scoped {
	return &Scoped{db: d.db, scope: name}
}

type Scoped struct {
	db    *sql.DB
	scope string
}

func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE scope = ? AND key = ?`, s.scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kvstore: get %s/%s: %w", s.scope, key, err)
	}
	return value, true, nil
}

func (s *Scoped) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv (scope, key, value, updated_at) VALUES (?, ?, ?, ?)`,
		s.scope, key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("kvstore: set %s/%s: %w", s.scope, key, err)
	}
	return nil
}

func (s *Scoped) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE scope = ? AND key = ?`, s.scope, key)
	if err != nil {
		return fmt.Errorf("kvstore: delete %s/%s: %w", s.scope, key, err)
	}
	return nil
}

// keys lists the keys present in the scope.
func (s *Scoped) keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv WHERE scope = ? ORDER BY key`, s.scope)
	if err != nil {
		return nil, fmt.Errorf("kvstore: list %s: %w", s.scope, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("kvstore: scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kvstore: iterate keys: %w", err)
	}
	return keys, nil
}
