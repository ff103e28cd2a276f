// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps the reference cache and the submission history in a
// SQLite database. The default database lives in memory for the life of the
// process; a file DSN makes both survive restarts.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-companion/pkg/types"
)

// Store implements reference.Cache and history.History on SQLite.
type Store struct {
	db         *sql.DB
	maxHistory int
}

// Open opens or creates the database described by cfg and creates the schema
// if it does not exist. An empty cfg.DSN opens a private in-memory database.
func Open(cfg types.StoreConfig) (*Store, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = memoryDSN()
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection serializes writers and keeps an in-memory
	// database alive between calls.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, maxHistory: cfg.MaxHistory}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func memoryDSN() string {
	return "file:companion-" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reference_queries (
			cache_key TEXT PRIMARY KEY,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reference_documents (
			cache_key TEXT NOT NULL REFERENCES reference_queries(cache_key) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			abstract TEXT NOT NULL,
			authors TEXT NOT NULL,
			year INTEGER,
			citations INTEGER NOT NULL,
			PRIMARY KEY (cache_key, position)
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			paragraph TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the documents cached under key. A key stored with no
// documents is a hit with an empty list.
func (s *Store) Get(ctx context.Context, key string) ([]types.ReferenceDocument, bool, error) {
	var fetchedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM reference_queries WHERE cache_key = ?`, key,
	).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("looking up cache key: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT title, abstract, authors, year, citations FROM reference_documents
		 WHERE cache_key = ? ORDER BY position`, key)
	if err != nil {
		return nil, false, fmt.Errorf("querying cached documents: %w", err)
	}
	defer rows.Close()

	docs := []types.ReferenceDocument{}
	for rows.Next() {
		var (
			title, abstract, authorsJSON string
			year                         sql.NullInt64
			citations                    int
		)
		if err := rows.Scan(&title, &abstract, &authorsJSON, &year, &citations); err != nil {
			return nil, false, fmt.Errorf("scanning cached document: %w", err)
		}
		var authors []string
		if err := json.Unmarshal([]byte(authorsJSON), &authors); err != nil {
			return nil, false, fmt.Errorf("decoding authors: %w", err)
		}
		var yp *int
		if year.Valid {
			y := int(year.Int64)
			yp = &y
		}
		if doc, ok := types.NewReferenceDocument(title, abstract, authors, yp, citations); ok {
			docs = append(docs, doc)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating cached documents: %w", err)
	}
	return docs, true, nil
}

// Put replaces the documents cached under key. The last write wins.
func (s *Store) Put(ctx context.Context, key string, docs []types.ReferenceDocument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reference_documents WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("deleting old documents: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO reference_queries (cache_key, fetched_at) VALUES (?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET fetched_at=excluded.fetched_at`,
		key, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting cache key: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO reference_documents (cache_key, position, title, abstract, authors, year, citations)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range docs {
		authorsJSON, err := json.Marshal(d.Authors)
		if err != nil {
			return fmt.Errorf("encoding authors: %w", err)
		}
		var year sql.NullInt64
		if d.Year != nil {
			year = sql.NullInt64{Int64: int64(*d.Year), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, key, i, d.Title, d.Abstract, string(authorsJSON), year, d.Citations); err != nil {
			return fmt.Errorf("inserting document %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Append adds paragraph to the submission history, trimming the oldest
// entries when a history limit is configured.
func (s *Store) Append(ctx context.Context, paragraph string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (paragraph, created_at) VALUES (?, ?)`,
		paragraph, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	if s.maxHistory <= 0 {
		return nil
	}
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM submissions WHERE id NOT IN (
			SELECT id FROM submissions ORDER BY id DESC LIMIT ?
		)`, s.maxHistory)
	if err != nil {
		return fmt.Errorf("trimming submissions: %w", err)
	}
	return nil
}

// All returns the submission history, oldest first.
func (s *Store) All(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT paragraph FROM submissions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Len returns the number of stored submissions.
func (s *Store) Len() int {
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM submissions`).Scan(&n); err != nil {
		return 0
	}
	return n
}
