// Package storage provides SQLite-based session history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// It records which puzzles were played and how they ended; puzzle state
// itself is never persisted.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Outcome is how a session ended.
type Outcome string

const (
	OutcomePlaying   Outcome = "playing"
	OutcomeSolved    Outcome = "solved"
	OutcomeAbandoned Outcome = "abandoned"
)

// ErrNoSession is returned when a session ID is unknown.
var ErrNoSession = errors.New("storage: no such session")

// Store manages the SQLite database connection for session history.
type Store struct {
	db *sql.DB
}

// SessionStart describes a newly started puzzle.
type SessionStart struct {
	Level        string
	Rows         int
	Cols         int
	Provider     string
	ShuffleMoves int
	StartedAt    time.Time
}

// SessionRecord is one row of history.
type SessionRecord struct {
	ID           string
	Level        string
	Rows         int
	Cols         int
	Provider     string
	ShuffleMoves int
	Outcome      Outcome
	Failure      string // Source failure reason, empty if the source worked
	StartedAt    time.Time
	EndedAt      time.Time // Zero while playing
}

// Duration returns how long the session lasted, or zero while playing.
func (r SessionRecord) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// LevelStats aggregates history for one level.
type LevelStats struct {
	Level      string
	Sessions   int
	Solved     int
	Abandoned  int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SQLite allows one writer; SSH sessions share the store.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
// Timestamps are unix milliseconds.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			level_id TEXT NOT NULL,
			grid_rows INTEGER NOT NULL,
			grid_cols INTEGER NOT NULL,
			provider TEXT NOT NULL,
			shuffle_moves INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL DEFAULT 'playing',
			failure TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			ended_at INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_level ON sessions(level_id, outcome);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartSession records a new session and returns its ID.
func (s *Store) StartSession(start SessionStart) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, level_id, grid_rows, grid_cols, provider, shuffle_moves, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, start.Level, start.Rows, start.Cols, start.Provider, start.ShuffleMoves,
		start.StartedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot start session: %w", err)
	}
	return id, nil
}

// SetFailure records why the session's image source could not be acquired.
func (s *Store) SetFailure(id, reason string) error {
	res, err := s.db.Exec("UPDATE sessions SET failure = ? WHERE id = ?", reason, id)
	if err != nil {
		return fmt.Errorf("storage: cannot record failure: %w", err)
	}
	return expectOne(res, id)
}

// FinishSession closes a session with the given outcome. A session that has
// already finished keeps its first outcome; finishing it again is a no-op.
func (s *Store) FinishSession(id string, outcome Outcome, endedAt time.Time) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET outcome = ?, ended_at = ?
		 WHERE id = ? AND outcome = ?`,
		string(outcome), endedAt.UnixMilli(), id, string(OutcomePlaying),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish session: %w", err)
	}
	return nil
}

// Session retrieves one session by ID.
func (s *Store) Session(id string) (SessionRecord, error) {
	row := s.db.QueryRow(selectSessions+" WHERE id = ?", id)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, fmt.Errorf("%w: %s", ErrNoSession, id)
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return rec, nil
}

// RecentSessions retrieves the most recent sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(selectSessions+" ORDER BY started_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// LevelStats retrieves aggregated history per level, ordered by level ID.
func (s *Store) LevelStats() ([]LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id,
		        COUNT(*),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        MAX(started_at)
		 FROM sessions
		 GROUP BY level_id
		 ORDER BY level_id`,
		string(OutcomeSolved), string(OutcomeAbandoned),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	var stats []LevelStats
	for rows.Next() {
		var st LevelStats
		var last int64
		if err := rows.Scan(&st.Level, &st.Sessions, &st.Solved, &st.Abandoned, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = time.UnixMilli(last)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearSessions deletes all history.
func (s *Store) ClearSessions() error {
	if _, err := s.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

const selectSessions = `SELECT id, level_id, grid_rows, grid_cols, provider, shuffle_moves,
	outcome, failure, started_at, ended_at FROM sessions`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (SessionRecord, error) {
	var rec SessionRecord
	var outcome string
	var started int64
	var ended sql.NullInt64

	err := row.Scan(
		&rec.ID,
		&rec.Level,
		&rec.Rows,
		&rec.Cols,
		&rec.Provider,
		&rec.ShuffleMoves,
		&outcome,
		&rec.Failure,
		&started,
		&ended,
	)
	if err != nil {
		return SessionRecord{}, err
	}

	rec.Outcome = Outcome(outcome)
	rec.StartedAt = time.UnixMilli(started)
	if ended.Valid {
		rec.EndedAt = time.UnixMilli(ended.Int64)
	}
	return rec, nil
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNoSession, id)
	}
	return nil
}
