package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/terrareport/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "terrareport.db"

// ErrTaskNotFound is returned when no export task matches the lookup.
var ErrTaskNotFound = errors.New("export task not found")

// TaskDB is the local ledger of submitted export jobs and computed region
// statistics. Remote state is only ever copied in when asked for; nothing
// here polls.
type TaskDB struct {
	db     *sql.DB
	dbPath string

	// now is stubbed by tests.
	now func() time.Time
}

// Options configures TaskDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a TaskDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*TaskDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run an export first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	tdb := &TaskDB{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := tdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return tdb, nil
}

// Close closes the database connection.
func (tdb *TaskDB) Close() error {
	return tdb.db.Close()
}

// Path returns the database file path.
func (tdb *TaskDB) Path() string {
	return tdb.dbPath
}

func (tdb *TaskDB) createTables() error {
	schema := `
	-- One row per submitted export job
	CREATE TABLE IF NOT EXISTS export_tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		operation TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		analysis TEXT NOT NULL,
		year INTEGER NOT NULL,
		state TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		submitted_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_analysis ON export_tasks(analysis);
	CREATE INDEX IF NOT EXISTS idx_tasks_state ON export_tasks(state);

	-- Latest min/max per analysis, year and band
	CREATE TABLE IF NOT EXISTS region_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis TEXT NOT NULL,
		year INTEGER NOT NULL,
		band TEXT NOT NULL,
		min REAL NOT NULL,
		max REAL NOT NULL,
		computed_at TEXT NOT NULL,
		UNIQUE(analysis, year, band)
	);
	`

	_, err := tdb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertTask records a newly submitted export job. SubmittedAt and
// UpdatedAt default to now when zero. The assigned row id is stored in
// task.ID.
func (tdb *TaskDB) InsertTask(ctx context.Context, task *model.ExportTask) error {
	now := tdb.now().UTC()
	if task.SubmittedAt.IsZero() {
		task.SubmittedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.SubmittedAt
	}
	if task.State == "" {
		task.State = model.TaskPending
	}

	query := `
	INSERT INTO export_tasks (operation, description, asset_id, analysis, year, state, error, submitted_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tdb.db.ExecContext(ctx, query,
		task.Operation,
		task.Description,
		task.AssetID,
		task.Analysis,
		task.Year,
		string(task.State),
		task.Error,
		formatTimestamp(task.SubmittedAt),
		formatTimestamp(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert export task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read export task id: %w", err)
	}
	task.ID = id
	return nil
}

// UpdateTaskState stores a state observed from the service.
func (tdb *TaskDB) UpdateTaskState(ctx context.Context, operation string, state model.TaskState, message string) error {
	query := `
	UPDATE export_tasks SET state = ?, error = ?, updated_at = ?
	WHERE operation = ?
	`

	result, err := tdb.db.ExecContext(ctx, query,
		string(state),
		message,
		formatTimestamp(tdb.now().UTC()),
		operation,
	)
	if err != nil {
		return fmt.Errorf("failed to update export task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update export task: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, operation)
	}
	return nil
}

const taskColumns = `id, operation, description, asset_id, analysis, year, state, error, submitted_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.ExportTask, error) {
	var task model.ExportTask
	var state, submitted, updated string

	err := row.Scan(
		&task.ID,
		&task.Operation,
		&task.Description,
		&task.AssetID,
		&task.Analysis,
		&task.Year,
		&state,
		&task.Error,
		&submitted,
		&updated,
	)
	if err != nil {
		return nil, err
	}
	task.State = model.ParseTaskState(state)
	task.SubmittedAt = parseTimestamp(submitted)
	task.UpdatedAt = parseTimestamp(updated)
	return &task, nil
}

// GetTask retrieves an export task by operation name.
func (tdb *TaskDB) GetTask(ctx context.Context, operation string) (*model.ExportTask, error) {
	query := `SELECT ` + taskColumns + ` FROM export_tasks WHERE operation = ?`

	task, err := scanTask(tdb.db.QueryRowContext(ctx, query, operation))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, operation)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export task: %w", err)
	}
	return task, nil
}

// ListTasks returns recorded export tasks, oldest first. An empty
// analysis lists every task.
func (tdb *TaskDB) ListTasks(ctx context.Context, analysis string) ([]model.ExportTask, error) {
	query := `SELECT ` + taskColumns + ` FROM export_tasks WHERE 1=1`
	args := make([]any, 0, 1)

	if analysis != "" {
		query += " AND analysis = ?"
		args = append(args, analysis)
	}
	query += " ORDER BY id ASC"

	rows, err := tdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list export tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.ExportTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// SaveStats upserts region statistics; a rerun replaces the previous value.
func (tdb *TaskDB) SaveStats(ctx context.Context, stats []model.RegionStats) error {
	tx, err := tdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO region_stats (analysis, year, band, min, max, computed_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(analysis, year, band) DO UPDATE SET
		min = excluded.min,
		max = excluded.max,
		computed_at = excluded.computed_at
	`
	now := formatTimestamp(tdb.now().UTC())
	for _, s := range stats {
		if _, err := tx.ExecContext(ctx, query, s.Analysis, s.Year, s.Band, s.Min, s.Max, now); err != nil {
			return fmt.Errorf("failed to save region stats: %w", err)
		}
	}
	return tx.Commit()
}

// ListStats returns stored statistics ordered by year then band. An
// empty analysis lists everything.
func (tdb *TaskDB) ListStats(ctx context.Context, analysis string) ([]model.RegionStats, error) {
	query := `SELECT analysis, year, band, min, max FROM region_stats WHERE 1=1`
	args := make([]any, 0, 1)

	if analysis != "" {
		query += " AND analysis = ?"
		args = append(args, analysis)
	}
	query += " ORDER BY analysis, year, band"

	rows, err := tdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list region stats: %w", err)
	}
	defer rows.Close()

	var results []model.RegionStats
	for rows.Next() {
		var s model.RegionStats
		if err := rows.Scan(&s.Analysis, &s.Year, &s.Band, &s.Min, &s.Max); err != nil {
			return nil, fmt.Errorf("failed to scan region stats: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite CURRENT_TIMESTAMP
	"2006-01-02T15:04:05",
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
