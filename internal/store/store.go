// Package store persists analysis runs in sqlite so results survive the
// CLI process and can be served by the read-only API.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stellarlinkco/cot-bench/internal/analysis"
)

const defaultLimit = 50

// ErrNotFound is returned when no run matches the query.
var ErrNotFound = errors.New("store: run not found")

type Store struct {
	db *sql.DB
}

// Run is one persisted analysis pass. Result carries the full metric set;
// the remaining fields are denormalized for listing without decoding it.
type Run struct {
	ID         int64            `json:"id"`
	Model      string           `json:"model"`
	Conditions []string         `json:"conditions"`
	Problems   int              `json:"problems"`
	CreatedAt  time.Time        `json:"created_at"`
	Result     *analysis.Result `json:"result,omitempty"`
}

func NewStore(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("store: empty db path")
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping db: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("store: nil db")
	}

	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model TEXT NOT NULL,
			conditions TEXT NOT NULL,
			problems INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			metrics TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_runs_model ON analysis_runs(model)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save persists a run and backfills its ID and timestamp.
func (s *Store) Save(ctx context.Context, run *Run) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if run == nil {
		return errors.New("store: nil run")
	}
	if run.Result == nil {
		return errors.New("store: run without result")
	}

	model := strings.TrimSpace(run.Model)
	if model == "" {
		model = strings.TrimSpace(run.Result.Model)
	}
	conditions := run.Conditions
	if len(conditions) == 0 {
		conditions = run.Result.Conditions
	}
	if len(conditions) == 0 {
		return errors.New("store: run without conditions")
	}
	problems := run.Problems
	if problems == 0 {
		problems = run.Result.Problems
	}

	metrics, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("store: encode metrics: %w", err)
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (model, conditions, problems, created_at, metrics)
		VALUES (?, ?, ?, ?, ?)
	`, model, strings.Join(conditions, ","), problems, createdAt.UTC().UnixMilli(), string(metrics))
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		run.ID = id
	}
	run.Model = model
	run.Conditions = conditions
	run.Problems = problems
	run.CreatedAt = createdAt
	return nil
}

// Get loads one run, result included.
func (s *Store) Get(ctx context.Context, id int64) (*Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, model, conditions, problems, created_at, metrics
		FROM analysis_runs
		WHERE id = ?
	`, id)
	return scanRun(row)
}

// Latest loads the most recent run, result included.
func (s *Store) Latest(ctx context.Context) (*Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, model, conditions, problems, created_at, metrics
		FROM analysis_runs
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`)
	return scanRun(row)
}

// List returns run summaries newest first, without decoded results.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, conditions, problems, created_at
		FROM analysis_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var conditions string
		var createdMS int64
		if err := rows.Scan(&r.ID, &r.Model, &conditions, &r.Problems, &createdMS); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		r.Conditions = splitConditions(conditions)
		r.CreatedAt = time.UnixMilli(createdMS).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: scan rows: %w", err)
	}
	return out, nil
}

func scanRun(row *sql.Row) (*Run, error) {
	var r Run
	var conditions, metrics string
	var createdMS int64
	err := row.Scan(&r.ID, &r.Model, &conditions, &r.Problems, &createdMS, &metrics)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan run: %w", err)
	}

	r.Conditions = splitConditions(conditions)
	r.CreatedAt = time.UnixMilli(createdMS).UTC()

	var result analysis.Result
	if err := json.Unmarshal([]byte(metrics), &result); err != nil {
		return nil, fmt.Errorf("store: decode metrics: %w", err)
	}
	r.Result = &result
	return &r, nil
}

func splitConditions(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
