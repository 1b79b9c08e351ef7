// Package store provides the durable SQLite backend. LocalStore implements
// both the task collection (tasks.Store) and the session history mirror
// (session.TurnSink), replacing the in-memory defaults when persistence is
// enabled.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Fasscorp/FassimoV3/internal/logging"
	"github.com/Fasscorp/FassimoV3/internal/session"
	"github.com/Fasscorp/FassimoV3/internal/tasks"
)

// LocalStore is a single-file SQLite store for tasks and session history.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewLocalStore initializes the SQLite database at the given path.
func NewLocalStore(path string) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewLocalStore")
	defer timer.Stop()

	logging.Store("Initializing LocalStore at path: %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &LocalStore{db: db, dbPath: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logging.StoreDebug("Database schema initialized")
	return s, nil
}

func (s *LocalStore) ensureSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			priority TEXT NOT NULL,
			due_date TEXT,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS session_history (
			session_id TEXT NOT NULL,
			turn_number INTEGER NOT NULL,
			speaker TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (session_id, turn_number)
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// TASK STORE (tasks.Store)
// =============================================================================

// Add creates a task with a fresh opaque id and completed=false.
func (s *LocalStore) Add(description string, priority tasks.Priority, due *time.Time) (tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := tasks.Task{
		ID:          uuid.NewString(),
		Description: description,
		Priority:    priority,
		DueDate:     due,
	}

	var dueStr sql.NullString
	if due != nil {
		dueStr = sql.NullString{String: due.Format(time.RFC3339Nano), Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO tasks (id, description, priority, due_date, completed) VALUES (?, ?, ?, ?, 0)`,
		t.ID, t.Description, string(t.Priority), dueStr,
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to insert task: %v", err)
		return tasks.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}
	logging.Store("Added task %s: %q priority=%s", t.ID, description, priority)
	return t, nil
}

// List returns all tasks in insertion order.
func (s *LocalStore) List() ([]tasks.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, description, priority, due_date, completed FROM tasks ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var out []tasks.Task
	for rows.Next() {
		var t tasks.Task
		var priority string
		var dueStr sql.NullString
		var completed int
		if err := rows.Scan(&t.ID, &t.Description, &priority, &dueStr, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Priority = tasks.Priority(priority)
		t.Completed = completed != 0
		if dueStr.Valid {
			due, err := time.Parse(time.RFC3339Nano, dueStr.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt due date on task %s: %w", t.ID, err)
			}
			t.DueDate = &due
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update applies a partial update. Returns false if the id is unknown.
func (s *LocalStore) Update(id string, p tasks.Patch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*p.Priority))
	}
	if p.ClearDue {
		sets = append(sets, "due_date = NULL")
	} else if p.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, p.DueDate.Format(time.RFC3339Nano))
	}
	if p.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolToInt(*p.Completed))
	}
	if len(sets) == 0 {
		// Nothing to change; still report whether the id exists.
		var one int
		err := s.db.QueryRow(`SELECT 1 FROM tasks WHERE id = ?`, id).Scan(&one)
		if err == sql.ErrNoRows {
			return false, nil
		}
		return err == nil, err
	}

	args = append(args, id)
	res, err := s.db.Exec(`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		logging.Get(logging.CategoryStore).Warn("Update for unknown task id %s", id)
		return false, nil
	}
	logging.Store("Updated task %s", id)
	return true, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// SESSION HISTORY MIRROR (session.TurnSink)
// =============================================================================

// AppendTurn records a conversation turn for a session.
func (s *LocalStore) AppendTurn(sessionID string, t session.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO session_history (session_id, turn_number, speaker, text)
		 VALUES (?, (SELECT COALESCE(MAX(turn_number), -1) + 1 FROM session_history WHERE session_id = ?), ?, ?)`,
		sessionID, sessionID, string(t.Speaker), t.Text,
	)
	if err != nil {
		return fmt.Errorf("failed to store turn: %w", err)
	}
	logging.StoreDebug("Stored turn for session %s (%s)", sessionID, t.Speaker)
	return nil
}

// Turns retrieves a session's history in conversational order.
func (s *LocalStore) Turns(sessionID string) ([]session.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT speaker, text FROM session_history WHERE session_id = ? ORDER BY turn_number`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []session.Turn
	for rows.Next() {
		var speaker, text string
		if err := rows.Scan(&speaker, &text); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		out = append(out, session.Turn{Speaker: session.Speaker(speaker), Text: text})
	}
	return out, rows.Err()
}

// ClearTurns drops a session's mirrored history.
func (s *LocalStore) ClearTurns(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM session_history WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
