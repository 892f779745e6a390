// Package history persists finished runs to a local SQLite database so past
// sessions can be listed and summarized.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"humantype/internal/engine"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at_ns   INTEGER NOT NULL,
    preset          TEXT NOT NULL,
    dry_run         INTEGER NOT NULL,
    completed       INTEGER NOT NULL,
    source_chars    INTEGER NOT NULL,
    keystrokes      INTEGER NOT NULL,
    backspaces      INTEGER NOT NULL,
    typos           INTEGER NOT NULL,
    revised         INTEGER NOT NULL,
    total_ms        INTEGER NOT NULL,
    paused_ms       INTEGER NOT NULL,
    avg_delay_ms    REAL NOT NULL,
    min_delay_ms    REAL NOT NULL,
    max_delay_ms    REAL NOT NULL,
    cpm             REAL NOT NULL,
    wpm             REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at_ns);
CREATE INDEX IF NOT EXISTS idx_runs_preset ON runs(preset);
`

// Run is one persisted typing session.
type Run struct {
	ID        int64
	StartedAt time.Time
	Preset    string
	DryRun    bool
	Completed bool

	SourceChars int
	Keystrokes  int
	Backspaces  int
	Typos       int
	Revised     int

	TotalTime  time.Duration
	PausedTime time.Duration
	AvgDelayMS float64
	MinDelayMS float64
	MaxDelayMS float64
	CPM        float64
	WPM        float64
}

// Summary aggregates across stored runs.
type Summary struct {
	Runs        int
	Completed   int
	SourceChars int
	Keystrokes  int
	Typos       int
	AvgCPM      float64
	BestCPM     float64
}

// Store is the run history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts a finished run and returns its ID.
func (s *Store) Record(startedAt time.Time, presetName string, stats engine.RunStats) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO runs (started_at_ns, preset, dry_run, completed,
		                  source_chars, keystrokes, backspaces, typos, revised,
		                  total_ms, paused_ms, avg_delay_ms, min_delay_ms, max_delay_ms,
		                  cpm, wpm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		startedAt.UnixNano(), presetName, boolInt(stats.DryRun), boolInt(stats.Completed),
		stats.SourceChars, stats.Keystrokes, stats.Backspaces, stats.Typos.Typos, stats.Typos.Revised,
		stats.TotalTime.Milliseconds(), stats.PausedTime.Milliseconds(),
		stats.AvgDelayMS, stats.MinDelayMS, stats.MaxDelayMS,
		stats.CPM, stats.WPM,
	)
	if err != nil {
		return 0, fmt.Errorf("history: insert run: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, started_at_ns, preset, dry_run, completed,
		       source_chars, keystrokes, backspaces, typos, revised,
		       total_ms, paused_ms, avg_delay_ms, min_delay_ms, max_delay_ms,
		       cpm, wpm
		FROM runs ORDER BY started_at_ns DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedNS, totalMS, pausedMS int64
		var dry, completed int
		if err := rows.Scan(&r.ID, &startedNS, &r.Preset, &dry, &completed,
			&r.SourceChars, &r.Keystrokes, &r.Backspaces, &r.Typos, &r.Revised,
			&totalMS, &pausedMS, &r.AvgDelayMS, &r.MinDelayMS, &r.MaxDelayMS,
			&r.CPM, &r.WPM); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.StartedAt = time.Unix(0, startedNS)
		r.DryRun = dry != 0
		r.Completed = completed != 0
		r.TotalTime = time.Duration(totalMS) * time.Millisecond
		r.PausedTime = time.Duration(pausedMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Summarize aggregates all stored real (non-dry) runs.
func (s *Store) Summarize() (Summary, error) {
	var sum Summary
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(completed), 0),
		       COALESCE(SUM(source_chars), 0),
		       COALESCE(SUM(keystrokes), 0),
		       COALESCE(SUM(typos), 0),
		       COALESCE(AVG(cpm), 0),
		       COALESCE(MAX(cpm), 0)
		FROM runs WHERE dry_run = 0`).Scan(
		&sum.Runs, &sum.Completed, &sum.SourceChars, &sum.Keystrokes,
		&sum.Typos, &sum.AvgCPM, &sum.BestCPM)
	if err != nil {
		return Summary{}, fmt.Errorf("history: summarize: %w", err)
	}
	return sum, nil
}

// Prune deletes runs older than the cutoff. Returns the number removed.
func (s *Store) Prune(olderThan time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM runs WHERE started_at_ns < ?`, olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("history: prune: %w", err)
	}
	return res.RowsAffected()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
