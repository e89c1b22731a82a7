package fittable_test

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"rrlfit/internal/fittable"
	"rrlfit/internal/logging"
	"rrlfit/internal/testsupport"
)

func TestReadDerivesDeltaN(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFitFile(t, dir, "W3",
		testsupport.FitLine{Species: "H42a", Upper: 42, Lower: 41, FreqMHz: 85688.39, Tpeak: 0.12},
		testsupport.FitLine{Species: "H41a", Upper: 41, Lower: 40, FreqMHz: 92034.43, Tpeak: 0.15},
		testsupport.FitLine{Species: "H52b", Upper: 52, Lower: 50, FreqMHz: 88405.69, Tpeak: 0.03},
	)

	table, err := fittable.ReadSource("W3", dir)
	if err != nil {
		t.Fatalf("ReadSource returned error: %v", err)
	}
	if table.Source != "W3" {
		t.Fatalf("unexpected source %q", table.Source)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.Len())
	}
	for i, row := range table.Rows {
		if row.Index != i {
			t.Fatalf("row %d has index %d", i, row.Index)
		}
		if row.DeltaN != row.Upper-row.Lower {
			t.Fatalf("row %d: Delta_n %d != %d-%d", i, row.DeltaN, row.Upper, row.Lower)
		}
	}
	if got := table.Rows[2].DeltaN; got != 2 {
		t.Fatalf("expected Delta_n 2 for beta line, got %d", got)
	}
	if len(table.Columns) != fittable.MaxColumns {
		t.Fatalf("expected %d columns, got %d", fittable.MaxColumns, len(table.Columns))
	}
	for _, col := range table.Columns {
		if col == "Comment" {
			t.Fatal("columns beyond the first 14 must be dropped")
		}
	}
	if maxFreq, ok := table.MaxFrequency(); !ok || maxFreq != 92034.43 {
		t.Fatalf("unexpected max frequency %v (%v)", maxFreq, ok)
	}
}

func TestReadBlankNumericCellsAreNaN(t *testing.T) {
	input := "Upper,Lower,Freq[MHz],Tpeak,Species\n" +
		"42,41,85688.39,,H42a\n" +
		"41,40, ,0.15,H41a\n"
	table, err := fittable.Read(strings.NewReader(input), "W3")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	if !math.IsNaN(table.Rows[0].Tpeak) {
		t.Fatalf("expected NaN Tpeak, got %v", table.Rows[0].Tpeak)
	}
	if !math.IsNaN(table.Rows[1].FreqMHz) {
		t.Fatalf("expected NaN frequency, got %v", table.Rows[1].FreqMHz)
	}

	_, err = fittable.Read(strings.NewReader("Upper,Lower,Freq[MHz],Tpeak,Species\n,41,90000,1,H42a\n"), "W3")
	if err == nil || !strings.Contains(err.Error(), "Upper") {
		t.Fatalf("expected Upper parse error, got %v", err)
	}
}

func TestReadMissingColumn(t *testing.T) {
	input := "Upper,Lower,Freq[MHz],Species\n42,41,90000,H42a\n"
	_, err := fittable.Read(strings.NewReader(input), "src")
	if !errors.Is(err, fittable.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "Tpeak") {
		t.Fatalf("expected error to name Tpeak, got %q", err)
	}
}

func TestReadStripsBOMAndAcceptsFloatIntegers(t *testing.T) {
	input := "\ufeffUpper, Lower ,Freq[MHz],Tpeak,Species\n42.0,41.0,90000,1.5, H42a \n\n"
	table, err := fittable.Read(strings.NewReader(input), "src")
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("expected blank lines to be skipped, got %d rows", table.Len())
	}
	row := table.Rows[0]
	if row.Upper != 42 || row.Lower != 41 || row.DeltaN != 1 {
		t.Fatalf("unexpected quantum numbers: %+v", row)
	}
	if row.Species != "H42a" {
		t.Fatalf("expected trimmed species, got %q", row.Species)
	}
}

func TestReadRejectsFractionalQuantumNumber(t *testing.T) {
	input := "Upper,Lower,Freq[MHz],Tpeak,Species\n42.5,41,90000,1.5,H42a\n"
	if _, err := fittable.Read(strings.NewReader(input), "src"); err == nil {
		t.Fatal("expected error for fractional Upper")
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	_, err := fittable.ReadSource("Orion", t.TempDir())
	if !errors.Is(err, fittable.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "Orion_rrls_fit.csv") {
		t.Fatalf("expected file name in error, got %q", err)
	}
}

func TestSourcePath(t *testing.T) {
	if got := fittable.SourcePath("data/", "W3"); got != "data/W3_rrls_fit.csv" {
		t.Fatalf("unexpected path %q", got)
	}
	if got := fittable.SourcePath("data", "W3"); got != filepath.Join("data", "W3_rrls_fit.csv") {
		t.Fatalf("unexpected path %q", got)
	}
	if got := fittable.SourcePath("", "W3"); got != "W3_rrls_fit.csv" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestLoadSourcesSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFitFile(t, dir, "W3",
		testsupport.FitLine{Species: "H42a", Upper: 42, Lower: 41, FreqMHz: 85688.39, Tpeak: 0.12},
	)

	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	tables, err := fittable.LoadSources([]string{"W3", "Orion"}, dir, logger)
	if err != nil {
		t.Fatalf("LoadSources returned error: %v", err)
	}
	if len(tables) != 1 || tables["W3"] == nil {
		t.Fatalf("expected only W3 to load, got %v", tables)
	}
	if _, ok := tables["Orion"]; ok {
		t.Fatal("missing source must be absent from the result")
	}
	if !strings.Contains(buf.String(), "fit file missing") || !strings.Contains(buf.String(), "source=Orion") {
		t.Fatalf("expected warning for missing source, got %q", buf.String())
	}
}

func TestLoadSourcesAbortsOnMalformedFile(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteCSV(t, filepath.Join(dir, "Bad_rrls_fit.csv"), [][]string{{"Upper", "Lower"}, {"1", "2"}})
	if _, err := fittable.LoadSources([]string{"Bad"}, dir, logging.NewNop()); err == nil {
		t.Fatal("expected malformed file to abort the load")
	}
}
