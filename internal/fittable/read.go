package fittable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"rrlfit/internal/logging"
)

// FileSuffix is appended to the source name to form the catalog file name.
const FileSuffix = "_rrls_fit.csv"

var (
	// ErrFileNotFound reports a missing catalog file.
	ErrFileNotFound = errors.New("fit file not found")
	// ErrMissingColumn reports a catalog without one of the required columns.
	ErrMissingColumn = errors.New("missing required column")
)

// SourcePath returns {dir}{source}_rrls_fit.csv. A dir without a trailing
// separator gets one.
func SourcePath(dir, source string) string {
	name := source + FileSuffix
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + name
	}
	return filepath.Join(dir, name)
}

// ReadSource loads the catalog of one source from dir.
func ReadSource(source, dir string) (*Table, error) {
	path := SourcePath(dir, source)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: file '%s' not found in path '%s'", ErrFileNotFound, filepath.Base(path), dir)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	table, err := Read(file, source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return table, nil
}

// LoadSources reads every source from dir. Missing files are logged and
// skipped; any other failure aborts the load.
func LoadSources(sources []string, dir string, logger *slog.Logger) (map[string]*Table, error) {
	logger = logging.NewComponentLogger(logger, "fittable")
	tables := make(map[string]*Table, len(sources))
	for _, source := range sources {
		table, err := ReadSource(source, dir)
		if errors.Is(err, ErrFileNotFound) {
			logging.WarnWithContext(logger, "fit file missing; source skipped", "fit_file_missing",
				logging.String(logging.FieldSource, source),
				logging.String("path", SourcePath(dir, source)),
				logging.String(logging.FieldImpact, "source omitted from results"),
				logging.String(logging.FieldErrorHint, "check paths.data_dir and the source name"),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		logger.Info("fit file read",
			logging.String(logging.FieldSource, source),
			logging.Int("rows", table.Len()),
		)
		tables[source] = table
	}
	return tables, nil
}

// Read parses a comma-separated catalog with a header row.
func Read(r io.Reader, source string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file: header row required")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > MaxColumns {
		header = header[:MaxColumns]
	}
	columns := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[i] = norm.NFC.String(strings.TrimSpace(name))
	}

	idx, err := locateColumns(columns)
	if err != nil {
		return nil, err
	}

	table := &Table{Source: source, Columns: columns}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}
		values := make([]string, len(columns))
		copy(values, record)

		row, err := parseRow(values, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row.Index = len(table.Rows)
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

type columnIndex struct {
	upper, lower, freq, tpeak, species int
}

func locateColumns(columns []string) (columnIndex, error) {
	positions := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}
	lookup := func(name string) (int, error) {
		i, ok := positions[name]
		if !ok {
			return -1, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		return i, nil
	}

	var (
		idx columnIndex
		err error
	)
	if idx.upper, err = lookup(ColumnUpper); err != nil {
		return idx, err
	}
	if idx.lower, err = lookup(ColumnLower); err != nil {
		return idx, err
	}
	if idx.freq, err = lookup(ColumnFreq); err != nil {
		return idx, err
	}
	if idx.tpeak, err = lookup(ColumnTpeak); err != nil {
		return idx, err
	}
	if idx.species, err = lookup(ColumnSpecies); err != nil {
		return idx, err
	}
	return idx, nil
}

func parseRow(values []string, idx columnIndex) (Row, error) {
	var (
		row Row
		err error
	)
	if row.Upper, err = parseInt(values[idx.upper]); err != nil {
		return row, fmt.Errorf("%s: %w", ColumnUpper, err)
	}
	if row.Lower, err = parseInt(values[idx.lower]); err != nil {
		return row, fmt.Errorf("%s: %w", ColumnLower, err)
	}
	if row.FreqMHz, err = parseFloat(values[idx.freq]); err != nil {
		return row, fmt.Errorf("%s: %w", ColumnFreq, err)
	}
	if row.Tpeak, err = parseFloat(values[idx.tpeak]); err != nil {
		return row, fmt.Errorf("%s: %w", ColumnTpeak, err)
	}
	row.Species = norm.NFC.String(strings.TrimSpace(values[idx.species]))
	values[idx.species] = row.Species
	row.DeltaN = row.Upper - row.Lower
	row.Values = values
	return row, nil
}

func parseInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	// pandas exports integer columns as 42.0 once a NaN has been seen
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse integer %q: %w", raw, err)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parse integer %q: not integral", raw)
	}
	return int(f), nil
}

// parseFloat reads a blank cell as NaN, the way a pandas export would.
func parseFloat(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", raw, err)
	}
	return f, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
