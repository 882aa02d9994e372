// Package cache stores previously computed solutions in a SQLite database
// keyed by the puzzle's fingerprint and the solving method, so that a
// repeated puzzle skips the search entirely.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/pourbot/pourbot/layout"
	"github.com/pourbot/pourbot/solver"
)

const schema = `
CREATE TABLE IF NOT EXISTS solutions (
	fingerprint INTEGER NOT NULL,
	capacity    INTEGER NOT NULL,
	method      TEXT    NOT NULL,
	extra_tubes INTEGER NOT NULL,
	pours       TEXT    NOT NULL,
	PRIMARY KEY (fingerprint, capacity, method)
);`

// Store is a solution cache backed by a SQLite file. It is safe for
// concurrent use; writes are serialized through a mutex because the
// modernc driver allows only one writer at a time.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating solutions table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get looks up a cached solution. A miss returns (nil, nil). The capacity
// is part of the key: the fingerprint hashes layer contents only, so the
// same matrix at a different capacity is a different puzzle.
func (s *Store) Get(fp uint64, capacity int, method solver.Method) (*solver.Solution, error) {
	var extra int
	var pourStr string
	row := s.db.QueryRow(
		`SELECT extra_tubes, pours FROM solutions
		 WHERE fingerprint = ? AND capacity = ? AND method = ?`,
		int64(fp), capacity, method.String())
	err := row.Scan(&extra, &pourStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	pours, err := decodePours(pourStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt cache entry for %x/%s: %w", fp, method, err)
	}
	log.Debug().Uint64("fingerprint", fp).Stringer("method", method).
		Int("moves", len(pours)).Msg("cache hit")
	return &solver.Solution{Pours: pours, ExtraTubes: extra}, nil
}

// Put stores a solution, replacing any previous entry for the same key.
func (s *Store) Put(fp uint64, capacity int, method solver.Method, sol *solver.Solution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO solutions (fingerprint, capacity, method, extra_tubes, pours)
		 VALUES (?, ?, ?, ?, ?)`,
		int64(fp), capacity, method.String(), sol.ExtraTubes, encodePours(sol.Pours))
	return err
}

// encodePours renders a pour list as space-separated "from->to" pairs.
func encodePours(pours []layout.Pour) string {
	strs := make([]string, len(pours))
	for i, p := range pours {
		strs[i] = p.String()
	}
	return strings.Join(strs, " ")
}

func decodePours(s string) ([]layout.Pour, error) {
	if s == "" {
		return []layout.Pour{}, nil
	}
	fields := strings.Fields(s)
	pours := make([]layout.Pour, len(fields))
	for i, f := range fields {
		from, to, ok := strings.Cut(f, "->")
		if !ok {
			return nil, fmt.Errorf("bad pour %q", f)
		}
		var err error
		if pours[i].From, err = strconv.Atoi(from); err != nil {
			return nil, fmt.Errorf("bad pour %q", f)
		}
		if pours[i].To, err = strconv.Atoi(to); err != nil {
			return nil, fmt.Errorf("bad pour %q", f)
		}
	}
	return pours, nil
}
