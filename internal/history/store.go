// Package history persists per-run warning counts so trend queries can
// tell whether a script base is getting cleaner or noisier over time.
package history

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
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Run is one completed analysis pass over the configured paths.
type Run struct {
	RunID             string
	ProjectKey        string
	Timestamp         time.Time
	FileCount         int
	WarningCount      int
	UndefinedCount    int
	RedefinitionCount int
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun records one run. Missing run ids and timestamps are filled in.
func (s *Store) SaveRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.ProjectKey == "" {
		run.ProjectKey = "default"
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	query := `
INSERT INTO runs (
  run_id, project_key, ts_utc, file_count, warning_count, undefined_count, redefinition_count
) VALUES (?, ?, ?, ?, ?, ?, ?)
`
	return s.withRetry("save run", func() error {
		_, err := s.db.Exec(
			query,
			run.RunID,
			run.ProjectKey,
			run.Timestamp.UTC().Format(time.RFC3339Nano),
			run.FileCount,
			run.WarningCount,
			run.UndefinedCount,
			run.RedefinitionCount,
		)
		return err
	})
}

// LoadRuns returns runs for a project ordered by timestamp, optionally
// restricted to those at or after since.
func (s *Store) LoadRuns(projectKey string, since time.Time) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(projectKey) == "" {
		projectKey = "default"
	}

	query := `
SELECT run_id, project_key, ts_utc, file_count, warning_count, undefined_count, redefinition_count
FROM runs
WHERE project_key = ?`
	args := []any{projectKey}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC"

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			tsRaw string
			run   Run
		)
		if err := rows.Scan(
			&run.RunID,
			&run.ProjectKey,
			&tsRaw,
			&run.FileCount,
			&run.WarningCount,
			&run.UndefinedCount,
			&run.RedefinitionCount,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
