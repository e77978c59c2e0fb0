// Package store persists interpreter transcripts in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcript (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	source    TEXT    NOT NULL,
	result    TEXT    NOT NULL DEFAULT '',
	error     TEXT    NOT NULL DEFAULT '',
	evaled_at INTEGER NOT NULL
)`

// Entry is one recorded top-level evaluation.
type Entry struct {
	ID       int64
	Source   string
	Result   string
	Error    string
	EvaledAt time.Time
}

// Store is a SQLite-backed transcript. Safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("missing db path")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	log.Printf("opened transcript: %s", path)
	return &Store{db: db, path: path}, nil
}

// Append records one evaluation.
func (s *Store) Append(source, result, errMsg string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO transcript (source, result, error, evaled_at) VALUES (?, ?, ?, ?)`,
		source, result, errMsg, at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	return nil
}

// Recent returns the last n entries, oldest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, source, result, error, evaled_at FROM (
			SELECT * FROM transcript ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, n)
	for rows.Next() {
		var e Entry
		var nanos int64
		if err := rows.Scan(&e.ID, &e.Source, &e.Result, &e.Error, &nanos); err != nil {
			return nil, err
		}
		e.EvaledAt = time.Unix(0, nanos)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Replayable returns the source of every entry in the order they were
// recorded. Entries that failed are included; a failing form may still have
// bound names before it errored.
func (s *Store) Replayable() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT source FROM transcript ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query replayable: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sources, nil
}

// Clear deletes every entry in a single transaction.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM transcript`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sqlite_sequence WHERE name = 'transcript'`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear: %w", err)
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	log.Printf("closing transcript: %s", s.path)
	return s.db.Close()
}
