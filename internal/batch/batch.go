package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"rrlfit/internal/config"
	"rrlfit/internal/correction"
	"rrlfit/internal/fileutil"
	"rrlfit/internal/fittable"
	"rrlfit/internal/logging"
	"rrlfit/internal/store"
	"rrlfit/internal/textutil"
)

// LockFileName is the run lock inside the state directory.
const LockFileName = "rrlfit.lock"

var (
	// ErrLocked is returned when another run holds the state directory lock.
	ErrLocked = errors.New("another rrlfit run is in progress")
	// ErrNoSources is returned when neither arguments nor configuration name a source.
	ErrNoSources = errors.New("no sources to correct")
	// ErrExportCollision is returned when two keys of one run sanitize to the
	// same export file.
	ErrExportCollision = errors.New("export file name collision")
)

// SourceReport describes what happened to one source.
type SourceReport struct {
	Source   string
	Result   *correction.Result
	Run      *store.Run
	Exported []string
	Err      error
}

// Summary aggregates a run.
type Summary struct {
	Sources []SourceReport
	// Missing lists requested sources without a catalog file.
	Missing []string
}

// Failed counts sources that produced an error or a division fault.
func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.Sources {
		if r.Err != nil || (r.Result != nil && r.Result.Fault != nil) {
			n++
		}
	}
	return n
}

// Runner executes correction runs.
type Runner struct {
	cfg       *config.Config
	store     *store.Store
	logger    *slog.Logger
	corrector *correction.Corrector
}

// New constructs a Runner. store may be nil to skip run history.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		store:  st,
		logger: logging.NewComponentLogger(logger, "batch"),
		corrector: correction.New(correction.Options{
			Policy:      cfg.Policy(),
			FluxDensity: cfg.Correction.FluxDensity,
		}, logger),
	}
}

// Run corrects sources, falling back to the configured list when empty.
func (r *Runner) Run(ctx context.Context, sources []string) (*Summary, error) {
	if len(sources) == 0 {
		sources = r.cfg.Correction.Sources
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	lockPath := filepath.Join(r.cfg.Paths.StateDir, LockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	tables, err := fittable.LoadSources(sources, r.cfg.Paths.DataDir, r.logger)
	if err != nil {
		return nil, err
	}
	summary := &Summary{}
	for _, source := range sources {
		if _, ok := tables[source]; !ok {
			summary.Missing = append(summary.Missing, source)
		}
	}
	sort.Strings(summary.Missing)

	r.logger.Info("correction run started",
		logging.Int("sources", len(tables)),
		logging.Int("missing", len(summary.Missing)),
		logging.String("policy", r.cfg.Policy().String()),
	)

	outcomes := r.corrector.ApplyAll(ctx, tables, r.cfg.Correction.Elements, r.cfg.Correction.Workers)
	claimed := make(map[string]correction.Key)
	for _, outcome := range outcomes {
		summary.Sources = append(summary.Sources, r.finish(ctx, outcome, claimed))
	}

	r.logger.Info("correction run finished",
		logging.Int("sources", len(summary.Sources)),
		logging.Int("failed", summary.Failed()),
	)
	return summary, nil
}

func (r *Runner) finish(ctx context.Context, outcome correction.Outcome, claimed map[string]correction.Key) SourceReport {
	report := SourceReport{Source: outcome.Source, Result: outcome.Result, Err: outcome.Err}
	logger := r.logger.With(logging.String(logging.FieldSource, outcome.Source))
	if outcome.Err != nil {
		logging.ErrorWithContext(logger, "source correction failed", "correction_failed",
			logging.Error(outcome.Err),
			logging.String(logging.FieldErrorHint, "check the catalog frequencies or the band_policy setting"),
		)
		return report
	}

	if r.store != nil {
		run, err := r.store.SaveResult(ctx, outcome.Result)
		if err != nil {
			report.Err = fmt.Errorf("save run: %w", err)
			return report
		}
		report.Run = run
		logger = logger.With(logging.String(logging.FieldRunID, run.ID))
	}

	if !r.cfg.Export.Enabled {
		return report
	}
	exported, err := r.export(outcome.Result.Entries, claimed)
	report.Exported = exported
	if err != nil {
		report.Err = err
		logging.WarnWithContext(logger, "export incomplete", "export_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "set export.overwrite = true or clear the output directory"),
		)
		return report
	}
	if len(exported) > 0 {
		logger.Info("corrected tables exported", logging.Int("files", len(exported)))
	}
	return report
}

// export writes every subset; it continues past individual failures and
// returns them joined. claimed maps paths already taken in this run to the
// key that took them; a second key on the same path is not written.
func (r *Runner) export(entries correction.Set, claimed map[string]correction.Key) ([]string, error) {
	var (
		written []string
		errs    []error
	)
	for _, key := range entries.Keys() {
		path := ExportPath(r.cfg.Paths.OutputDir, key)
		if owner, taken := claimed[path]; taken && owner != key {
			errs = append(errs, fmt.Errorf("export %s: %w: %s already written for %s", key, ErrExportCollision, filepath.Base(path), owner))
			continue
		}
		claimed[path] = key
		table := entries[key]
		err := fileutil.WriteAtomic(path, 0o644, r.cfg.Export.Overwrite, func(w io.Writer) error {
			return fittable.Write(w, table)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("export %s: %w", key, err))
			continue
		}
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

// ExportPath returns {dir}/{source}_{element}.csv for key.
func ExportPath(dir string, key correction.Key) string {
	return filepath.Join(dir, textutil.ExportStem(key.Source, key.Element)+".csv")
}

// Describe renders a one-line status for a report.
func (s SourceReport) Describe() string {
	switch {
	case s.Err != nil:
		return "failed: " + s.Err.Error()
	case s.Result == nil:
		return "skipped"
	case s.Result.Fault != nil:
		return "division fault: " + s.Result.Fault.Error()
	default:
		parts := []string{fmt.Sprintf("%d rows", s.Result.Rows), s.Result.Band.String()}
		if len(s.Exported) > 0 {
			parts = append(parts, fmt.Sprintf("%d files", len(s.Exported)))
		}
		return strings.Join(parts, ", ")
	}
}
