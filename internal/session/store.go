// Package session keeps a history of play sessions in SQLite.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages the session history database.
type Store struct {
	db *sql.DB
}

// Record is one finished play session.
type Record struct {
	ID        int64
	StartedAt time.Time
	Seconds   float64
	Frames    int64
	Cues      int
	Bounces   int
	Proximity int
	Enemies   int
	Seed      uint64
}

// Open creates or opens the database at dbPath, expanding a leading ~ and
// creating parent directories as needed.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("session: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("session: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER NOT NULL,
			seconds REAL NOT NULL,
			frames INTEGER NOT NULL,
			cues INTEGER NOT NULL DEFAULT 0,
			bounces INTEGER NOT NULL DEFAULT 0,
			proximity INTEGER NOT NULL DEFAULT 0,
			enemies INTEGER NOT NULL,
			seed INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_seconds ON sessions(seconds DESC);
	`)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save inserts r and returns its ID.
func (s *Store) Save(r Record) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions (started_at, seconds, frames, cues, bounces, proximity, enemies, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.UnixMilli(), r.Seconds, r.Frames, r.Cues, r.Bounces, r.Proximity, r.Enemies, int64(r.Seed),
	)
	if err != nil {
		return 0, fmt.Errorf("session: cannot save session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const selectColumns = `SELECT id, started_at, seconds, frames, cues, bounces, proximity, enemies, seed FROM sessions`

// Recent returns up to limit sessions, newest first. A non-positive limit means 10.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(selectColumns+` ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("session: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session: row iteration error: %w", err)
	}
	return records, nil
}

// Longest returns the session that lasted longest, or false if there is none.
func (s *Store) Longest() (Record, bool, error) {
	r, err := scan(s.db.QueryRow(selectColumns + ` ORDER BY seconds DESC, id ASC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return r, true, nil
}

// Count returns the number of recorded sessions.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("session: cannot count sessions: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Record, error) {
	var r Record
	var startedAt, seed int64
	err := row.Scan(&r.ID, &startedAt, &r.Seconds, &r.Frames, &r.Cues, &r.Bounces, &r.Proximity, &r.Enemies, &seed)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, err
	}
	if err != nil {
		return Record{}, fmt.Errorf("session: cannot scan row: %w", err)
	}
	r.StartedAt = time.UnixMilli(startedAt)
	r.Seed = uint64(seed)
	return r, nil
}
