// Package store persists interview sessions to SQLite so interrupted
// interviews can be resumed. Only the flow controller writes here; the
// flow engine itself never touches storage.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"docsmith/internal/flow"
	"docsmith/internal/session"
)

// SessionStore is a SQLite-backed session repository.
type SessionStore struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// Open initializes the SQLite database at the given path, creating the
// parent directory and schema as needed.
func Open(path string) (*SessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SessionStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SessionStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		tags TEXT,
		triggered TEXT
	);
	CREATE TABLE IF NOT EXISTS answers (
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		field TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (session_id, field)
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Save upserts a session and all of its answers.
func (s *SessionStore) Save(sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags, err := json.Marshal(sess.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	triggered, err := json.Marshal(sess.Triggered)
	if err != nil {
		return fmt.Errorf("encode triggered set: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sessions (id, created_at, updated_at, tags, triggered)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			updated_at = excluded.updated_at,
			tags = excluded.tags,
			triggered = excluded.triggered`,
		sess.ID, sess.CreatedAt.UTC().Format(time.RFC3339Nano),
		sess.UpdatedAt.UTC().Format(time.RFC3339Nano), string(tags), string(triggered))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM answers WHERE session_id = ?`, sess.ID); err != nil {
		return fmt.Errorf("clear answers: %w", err)
	}
	for field, value := range sess.Answers {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode answer %s: %w", field, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO answers (session_id, field, value) VALUES (?, ?, ?)`,
			sess.ID, field, string(encoded)); err != nil {
			return fmt.Errorf("save answer %s: %w", field, err)
		}
	}

	return tx.Commit()
}

// Load fetches a session by ID.
func (s *SessionStore) Load(id string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &session.Session{ID: id, Answers: flow.AnswerMap{}}
	var created, updated, tags, triggered string
	err := s.db.QueryRow(
		`SELECT created_at, updated_at, tags, triggered FROM sessions WHERE id = ?`, id).
		Scan(&created, &updated, &tags, &triggered)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	if sess.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("decode updated_at: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &sess.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(triggered), &sess.Triggered); err != nil {
		return nil, fmt.Errorf("decode triggered set: %w", err)
	}

	rows, err := s.db.Query(`SELECT field, value FROM answers WHERE session_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var field, encoded string
		if err := rows.Scan(&field, &encoded); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		var value interface{}
		if err := json.Unmarshal([]byte(encoded), &value); err != nil {
			return nil, fmt.Errorf("decode answer %s: %w", field, err)
		}
		sess.Answers[field] = value
	}
	return sess, rows.Err()
}

// SessionInfo is a listing row.
type SessionInfo struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Answered  int
}

// List returns all stored sessions, most recently updated first.
func (s *SessionStore) List() ([]SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT s.id, s.created_at, s.updated_at, COUNT(a.field)
		FROM sessions s LEFT JOIN answers a ON a.session_id = s.id
		GROUP BY s.id ORDER BY s.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var created, updated string
		if err := rows.Scan(&info.ID, &created, &updated, &info.Answered); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("decode created_at: %w", err)
		}
		if info.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("decode updated_at: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a session and its answers.
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM answers WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("delete answers: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
