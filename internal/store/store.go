package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"rrlfit/internal/config"
	"rrlfit/internal/correction"
)

// timeLayout keeps a fixed-width fraction so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DatabaseFileName is the run history database inside the state directory.
const DatabaseFileName = "rrlfit.db"

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, DatabaseFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// SaveResult records a correction result and its subsets in one transaction.
func (s *Store) SaveResult(ctx context.Context, res *correction.Result) (*Run, error) {
	if res == nil {
		return nil, errors.New("result is nil")
	}
	run := &Run{
		ID:               uuid.NewString(),
		Source:           res.Source,
		Band:             res.Band.String(),
		Policy:           res.Policy.String(),
		Rows:             res.Rows,
		Subsets:          len(res.Entries),
		SeriesMismatches: res.SeriesMismatches,
		CreatedAt:        time.Now().UTC(),
	}
	if res.Fault != nil {
		run.Fault = res.Fault.Error()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, band, policy, row_count, subset_count, series_mismatches, fault, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Band, run.Policy, run.Rows, run.Subsets,
		run.SeriesMismatches, nullableString(run.Fault), run.CreatedAt.Format(timeLayout),
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO lines (run_id, element, row_index, species, upper, lower, delta_n, freq_mhz, tpeak)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare line insert: %w", err)
	}
	defer stmt.Close()

	for _, key := range res.Entries.Keys() {
		for _, row := range res.Entries[key].Rows {
			if _, err := stmt.ExecContext(ctx,
				run.ID, key.Element, row.Index, row.Species, row.Upper, row.Lower,
				row.DeltaN, row.FreqMHz, row.Tpeak,
			); err != nil {
				return nil, fmt.Errorf("insert line %s[%d]: %w", key, row.Index, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

const runColumns = "id, source, band, policy, row_count, subset_count, series_mismatches, fault, created_at"

// GetRun fetches a run by identifier. A missing run returns nil, nil.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ResolveRun accepts a full identifier or a unique prefix.
func (s *Store) ResolveRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, errors.New("run id is empty")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id LIKE ? ESCAPE '\' ORDER BY created_at LIMIT 2`,
		escapeLike(idOrPrefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("resolve run: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", idOrPrefix)
	}
}

// ListRuns returns runs newest first, restricted to source when non-empty.
func (s *Store) ListRuns(ctx context.Context, source string) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if source = strings.TrimSpace(source); source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Lines returns the stored rows of a run, restricted to element when non-empty.
func (s *Store) Lines(ctx context.Context, runID, element string) ([]Line, error) {
	query := `SELECT run_id, element, row_index, species, upper, lower, delta_n, freq_mhz, tpeak
              FROM lines WHERE run_id = ?`
	args := []any{runID}
	if element = strings.TrimSpace(element); element != "" {
		query += ` AND element = ?`
		args = append(args, element)
	}
	query += ` ORDER BY element, row_index`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.RunID, &line.Element, &line.Index, &line.Species,
			&line.Upper, &line.Lower, &line.DeltaN, &line.FreqMHz, &line.Tpeak); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Clear removes every run and its lines, returning the number of runs deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

// CheckHealth reports database location and contents for diagnostics.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path, SchemaVersion: schemaVersion}
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM runs`).Scan(&health.Runs); err != nil {
		return health, fmt.Errorf("count runs: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM lines`).Scan(&health.Lines); err != nil {
		return health, fmt.Errorf("count lines: %w", err)
	}
	return health, nil
}
