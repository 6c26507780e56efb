// Package store is the local sqlite cache of the question pool.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/pavelanni/examterm/internal/bank"
	"github.com/pavelanni/examterm/internal/loader"
	"github.com/pavelanni/examterm/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL,
		prompt TEXT NOT NULL,
		options TEXT NOT NULL DEFAULT '[]',
		answer TEXT NOT NULL DEFAULT '',
		points INTEGER NOT NULL DEFAULT 0,
		blanks TEXT NOT NULL DEFAULT '[]',
		source TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS questions_category ON questions(category);

	CREATE TABLE IF NOT EXISTS imported_files (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pool_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertQuestion stores a question. Responses are never stored.
func (s *Store) InsertQuestion(q model.Question, source string) (int64, error) {
	return insertQuestion(s.db, q, source)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertQuestion(db execer, q model.Question, source string) (int64, error) {
	options, err := json.Marshal(nonNil(q.Options))
	if err != nil {
		return 0, err
	}
	blanks, err := json.Marshal(q.Blanks)
	if err != nil {
		return 0, err
	}
	res, err := db.Exec(
		`INSERT INTO questions (uid, category, prompt, options, answer, points, blanks, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Category.String(), q.Text, string(options), q.Answer, q.Points, string(blanks), source,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ListQuestions returns the questions of one category in insertion order.
func (s *Store) ListQuestions(ctx context.Context, c model.Category) ([]model.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, category, prompt, options, answer, points, blanks FROM questions
		 WHERE category = ? ORDER BY id`, c.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func scanQuestion(rows *sql.Rows) (model.Question, error) {
	var (
		q               model.Question
		category        string
		options, blanks string
	)
	if err := rows.Scan(&q.ID, &category, &q.Text, &options, &q.Answer, &q.Points, &blanks); err != nil {
		return q, err
	}
	cat, err := model.ParseCategory(category)
	if err != nil {
		return q, fmt.Errorf("question %s: %w", q.ID, err)
	}
	q.Category = cat
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return q, fmt.Errorf("question %s options: %w", q.ID, err)
	}
	if len(q.Options) == 0 {
		q.Options = nil
	}
	if err := json.Unmarshal([]byte(blanks), &q.Blanks); err != nil {
		return q, fmt.Errorf("question %s blanks: %w", q.ID, err)
	}
	if len(q.Blanks) == 0 {
		q.Blanks = nil
	}
	return q, nil
}

// QuestionCount returns the number of questions in the database.
func (s *Store) QuestionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&count)
	return count, err
}

// CountByCategory returns how many questions each category holds.
func (s *Store) CountByCategory() (map[model.Category]int, error) {
	rows, err := s.db.Query(`SELECT category, COUNT(*) FROM questions GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[model.Category]int, len(model.Categories()))
	for _, c := range model.Categories() {
		counts[c] = 0
	}
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		c, err := model.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		counts[c] = n
	}
	return counts, rows.Err()
}

// Pool implements bank.Source.
func (s *Store) Pool(ctx context.Context) (bank.Pool, error) {
	pool := make(bank.Pool, len(model.Categories()))
	for _, c := range model.Categories() {
		qs, err := s.ListQuestions(ctx, c)
		if err != nil {
			return nil, &bank.LoadError{Source: "database", Err: fmt.Errorf("list %s: %w", c, err)}
		}
		pool[c] = qs
	}
	return pool, nil
}

// GetImportedFileHash returns the stored hash for path, or "" if the file was
// never imported.
func (s *Store) GetImportedFileHash(path string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT hash FROM imported_files WHERE path = ?`, path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// SetImportedFileHash records the hash of an imported file.
func (s *Store) SetImportedFileHash(path, hash string) error {
	_, err := s.db.Exec(
		`INSERT INTO imported_files (path, hash) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = ?`,
		path, hash, hash,
	)
	return err
}

// ImportResult describes what ImportFile did with one file.
type ImportResult int

const (
	Imported ImportResult = iota
	Unchanged
	ChangedSkipped
)

func (r ImportResult) String() string {
	switch r {
	case Imported:
		return "imported"
	case Unchanged:
		return "unchanged"
	default:
		return "changed_skipped"
	}
}

// ImportFile loads a pool file into the database once. A file whose content
// is unchanged is skipped; a file that changed since its import is skipped
// with a warning so earlier imports stay stable.
func (s *Store) ImportFile(path string) (ImportResult, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", path, err)
	}

	hash := sha256sum(data)
	storedHash, err := s.GetImportedFileHash(path)
	if err != nil {
		return 0, 0, fmt.Errorf("check import status for %s: %w", path, err)
	}
	if storedHash == hash {
		slog.Info("questions file unchanged, skipping", "path", path)
		return Unchanged, 0, nil
	}
	if storedHash != "" {
		slog.Warn("questions file changed since last import, skipping", "path", path)
		return ChangedSkipped, 0, nil
	}

	questions, err := loader.Parse(data)
	if err != nil {
		return 0, 0, &bank.LoadError{Source: path, Err: err}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()
	for _, q := range questions {
		if _, err := insertQuestion(tx, q, path); err != nil {
			return 0, 0, fmt.Errorf("insert question from %s: %w", path, err)
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO imported_files (path, hash) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = ?`,
		path, hash, hash,
	); err != nil {
		return 0, 0, fmt.Errorf("record import for %s: %w", path, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	slog.Info("imported questions", "path", path, "count", len(questions))
	return Imported, len(questions), nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
