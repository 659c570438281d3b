package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GOHANX1234/Aibot/internal/domain"
	_ "modernc.org/sqlite"
)

// collectionKey is the single row under which the serialized session
// collection lives. The whole collection is overwritten on every save.
const collectionKey = "sessions"

// SQLitePersister stores the session collection as one JSON blob in a
// SQLite database.
type SQLitePersister struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-backed persister at dbPath.
func NewSQLite(dbPath string) (*SQLitePersister, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for better concurrency between a reader and the writer.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	p := &SQLitePersister{db: db}
	if err := p.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return p, nil
}

func (p *SQLitePersister) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS session_state (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := p.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Load reads the serialized collection. An absent row yields an empty
// collection, not an error.
func (p *SQLitePersister) Load() ([]domain.ChatSession, error) {
	row := p.db.QueryRow(`SELECT payload FROM session_state WHERE key = ?`, collectionKey)

	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session payload: %w", err)
	}

	var sessions []domain.ChatSession
	if err := json.Unmarshal([]byte(payload), &sessions); err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}

	return sessions, nil
}

// Save overwrites the stored collection wholesale. Retries a few times
// on SQLite concurrency errors before giving up.
func (p *SQLitePersister) Save(sessions []domain.ChatSession) error {
	payload, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode session payload: %w", err)
	}

	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		err = p.saveOnce(string(payload))
		if err == nil {
			return nil
		}

		if isSQLiteConflict(err) && i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i)
			slog.Debug("session save hit SQLITE_BUSY, retrying", "attempt", i+1, "delay", delay)
			time.Sleep(delay)
			continue
		}
		break
	}

	return fmt.Errorf("save sessions after retries: %w", err)
}

func (p *SQLitePersister) saveOnce(payload string) error {
	query := `
	INSERT INTO session_state (key, payload, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		payload = excluded.payload,
		updated_at = excluded.updated_at`

	if _, err := p.db.Exec(query, collectionKey, payload, time.Now().Unix()); err != nil {
		return fmt.Errorf("upsert session payload: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (p *SQLitePersister) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// isSQLiteConflict checks for the SQLITE_BUSY and "database is locked"
// concurrency errors that warrant a retry.
func isSQLiteConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
