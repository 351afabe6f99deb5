package library

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// SQLite is a Store kept in an SQLite database file.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenSQLite opens, creating if need be, an SQLite store at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS programs (
			name TEXT PRIMARY KEY,
			source TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, err
	}

	var version string
	switch err := db.QueryRow(`SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&version); {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec(`INSERT INTO metadata (key, value) VALUES ('schema_version', ?)`, schemaVersion)
		if err != nil {
			db.Close()
			return nil, err
		}
	case err != nil:
		db.Close()
		return nil, err
	case version != schemaVersion:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version %q in %v", version, path)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var src string
	err := s.db.QueryRow(`SELECT source FROM programs WHERE name = ?`, name).Scan(&src)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return src, err
}

func (s *SQLite) Put(name, src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO programs (name, source) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET source = excluded.source
	`, name, src)
	return err
}

func (s *SQLite) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM programs WHERE name = ?`, name)
	return err
}

func (s *SQLite) Names() (names []string, rerr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`SELECT name FROM programs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); rerr == nil {
			rerr = cerr
		}
	}()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
