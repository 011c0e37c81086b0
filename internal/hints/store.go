package hints

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS words (
	word   TEXT PRIMARY KEY,
	length INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_words_length ON words(length);

CREATE TABLE IF NOT EXISTS clues (
	word   TEXT NOT NULL REFERENCES words(word) ON DELETE CASCADE,
	clue   TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	year   TEXT NOT NULL DEFAULT '',
	UNIQUE (word, clue, source)
);

CREATE INDEX IF NOT EXISTS idx_clues_word ON clues(word);
`

// DefaultLimit caps lookups that pass a non-positive limit.
const DefaultLimit = 50

// Store is a SQLite-backed clue corpus.
type Store struct {
	db *sql.DB
}

// Open opens or creates the corpus at path. An empty path or ":memory:"
// opens a private in-memory corpus.
func Open(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open hints db: %w", err)
	}
	// One connection: SQLite has a single writer, and an in-memory
	// database exists per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect hints db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init hints schema: %w", err)
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records word with the given clues. Known words and duplicate clues
// are left as they are.
func (s *Store) Add(ctx context.Context, word string, clues ...Clue) error {
	w, err := NormalizeWord(word)
	if err != nil {
		return err
	}
	for _, c := range clues {
		if err := c.validate(); err != nil {
			return fmt.Errorf("word %s: %w", w, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO words (word, length) VALUES (?, ?)", w, len(w)); err != nil {
		return fmt.Errorf("insert word %s: %w", w, err)
	}
	for _, c := range clues {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO clues (word, clue, source, year) VALUES (?, ?, ?, ?)",
			w, strings.TrimSpace(c.Text), c.Source, c.Year); err != nil {
			return fmt.Errorf("insert clue for %s: %w", w, err)
		}
	}
	return tx.Commit()
}

// Lookup returns words matching pattern, '?' standing for any letter,
// in alphabetical order with their clues, most recent first.
func (s *Store) Lookup(ctx context.Context, pattern string, limit int) ([]Hint, error) {
	like, err := likePattern(pattern)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT word FROM words WHERE length = ? AND word LIKE ? ORDER BY word LIMIT ?",
		len(like), like, limit)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", pattern, err)
	}
	var hints []Hint
	for rows.Next() {
		var h Hint
		if err := rows.Scan(&h.Word); err != nil {
			rows.Close()
			return nil, err
		}
		hints = append(hints, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range hints {
		if hints[i].Clues, err = s.clues(ctx, hints[i].Word); err != nil {
			return nil, err
		}
	}
	return hints, nil
}

func (s *Store) clues(ctx context.Context, word string) ([]Clue, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT clue, source, year FROM clues WHERE word = ? ORDER BY year DESC, clue", word)
	if err != nil {
		return nil, fmt.Errorf("clues for %s: %w", word, err)
	}
	defer rows.Close()

	var clues []Clue
	for rows.Next() {
		var c Clue
		if err := rows.Scan(&c.Text, &c.Source, &c.Year); err != nil {
			return nil, err
		}
		clues = append(clues, c)
	}
	return clues, rows.Err()
}

// Count returns the number of words in the corpus.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM words").Scan(&n)
	return n, err
}

// Name identifies the store as a hint source.
func (s *Store) Name() string { return "corpus" }
