package correction_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"rrlfit/internal/calibration"
	"rrlfit/internal/correction"
	"rrlfit/internal/fittable"
	"rrlfit/internal/logging"
	"rrlfit/internal/testsupport"
)

var elements = []string{"H", "He", "C"}

func loadTable(t *testing.T, source string, lines ...testsupport.FitLine) *fittable.Table {
	t.Helper()
	dir := t.TempDir()
	testsupport.WriteFitFile(t, dir, source, lines...)
	table, err := fittable.ReadSource(source, dir)
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	return table
}

func mixedRangeTable(t *testing.T) *fittable.Table {
	return loadTable(t, "Orion",
		testsupport.FitLine{Species: "H42a", Upper: 42, Lower: 41, FreqMHz: 90000, Tpeak: 1},
		testsupport.FitLine{Species: "H41a", Upper: 41, Lower: 40, FreqMHz: 60000, Tpeak: 1},
		testsupport.FitLine{Species: "He43b", Upper: 43, Lower: 41, FreqMHz: 95000, Tpeak: 1},
	)
}

func TestApplyDatasetPolicyRejectsRowOutsideBand(t *testing.T) {
	table := mixedRangeTable(t)
	for i, want := range []int{1, 1, 2} {
		if table.Rows[i].DeltaN != want {
			t.Fatalf("row %d: expected Delta_n %d, got %d", i, want, table.Rows[i].DeltaN)
		}
	}

	c := correction.New(correction.Options{Policy: calibration.PolicyDataset}, logging.NewNop())
	res, err := c.Apply(table, "Orion", elements)
	if !errors.Is(err, calibration.ErrUnsupportedFrequencyRange) {
		t.Fatalf("expected ErrUnsupportedFrequencyRange, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected no result, got %+v", res)
	}
	if !strings.Contains(err.Error(), "row 1") {
		t.Fatalf("expected offending row in error, got %v", err)
	}
	for i, row := range table.Rows {
		if row.Tpeak != 1 {
			t.Fatalf("row %d modified on failure: %v", i, row.Tpeak)
		}
	}
}

func TestApplyAnyPolicyUsesInferredBandForEveryRow(t *testing.T) {
	table := mixedRangeTable(t)
	freqs := table.Frequencies()

	c := correction.New(correction.Options{Policy: calibration.PolicyAny}, logging.NewNop())
	res, err := c.Apply(table, "Orion", elements)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Band != calibration.BandA {
		t.Fatalf("expected Band A, got %s", res.Band)
	}
	if res.Policy != calibration.PolicyAny {
		t.Fatalf("expected policy recorded, got %s", res.Policy)
	}
	for i, row := range table.Rows {
		testsupport.RequireRelClose(t, row.Tpeak, 1/calibration.BandA.Factor(freqs[i]), 1e-12)
	}

	h := res.Entries[correction.Key{Source: "Orion", Element: "H"}]
	if h == nil || h.Len() != 3 {
		t.Fatalf("expected 3 H rows (He43b contains H), got %+v", h)
	}
	he := res.Entries[correction.Key{Source: "Orion", Element: "He"}]
	if he == nil || he.Len() != 1 || he.Rows[0].Species != "He43b" {
		t.Fatalf("unexpected He subset: %+v", he)
	}
	if c := res.Entries[correction.Key{Source: "Orion", Element: "C"}]; c == nil || c.Len() != 0 {
		t.Fatalf("expected empty C subset, got %+v", c)
	}
	if res.SeriesMismatches != 0 {
		t.Fatalf("expected consistent series, got %d mismatches", res.SeriesMismatches)
	}
}

func TestApplyIsNotIdempotent(t *testing.T) {
	table := loadTable(t, "W3",
		testsupport.FitLine{Species: "H40a", Upper: 40, Lower: 39, FreqMHz: 99000, Tpeak: 2},
	)
	c := correction.New(correction.Options{}, logging.NewNop())

	if _, err := c.Apply(table, "W3", elements); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	once := table.Rows[0].Tpeak
	if _, err := c.Apply(table, "W3", elements); err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	twice := table.Rows[0].Tpeak
	if once == twice {
		t.Fatalf("expected second correction to change Tpeak, still %v", twice)
	}
	factor := calibration.BandA.Factor(99000)
	testsupport.RequireRelClose(t, twice, 2/factor/factor, 1e-12)
}

func TestApplyBandBUpdatesExportCells(t *testing.T) {
	table := loadTable(t, "DR21",
		testsupport.FitLine{Species: "H58a", Upper: 58, Lower: 57, FreqMHz: 32852.2, Tpeak: 0.5},
		testsupport.FitLine{Species: "CII58a", Upper: 58, Lower: 57, FreqMHz: 32868.6, Tpeak: 0.05},
	)
	c := correction.New(correction.Options{}, logging.NewNop())
	res, err := c.Apply(table, "DR21", elements)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Band != calibration.BandB {
		t.Fatalf("expected Band B, got %s", res.Band)
	}
	want := 0.5 / calibration.BandB.Factor(32852.2)
	testsupport.RequireRelClose(t, table.Rows[0].Tpeak, want, 1e-12)

	col := table.ColumnIndex(fittable.ColumnTpeak)
	if table.Rows[0].Values[col] == "0.5" {
		t.Fatal("expected the raw Tpeak cell to be rewritten")
	}
	if c := res.Entries[correction.Key{Source: "DR21", Element: "C"}]; c.Len() != 0 {
		t.Fatalf("CII58a must not match C, got %d rows", c.Len())
	}
}

func TestApplyFluxDensity(t *testing.T) {
	table := loadTable(t, "W51",
		testsupport.FitLine{Species: "H41a", Upper: 41, Lower: 40, FreqMHz: 92034.43, Tpeak: 1},
	)
	c := correction.New(correction.Options{FluxDensity: true}, logging.NewNop())
	if _, err := c.Apply(table, "W51", elements); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := 1 / calibration.BandA.Factor(92034.43) * calibration.BandA.FluxFactor(92034.43)
	testsupport.RequireRelClose(t, table.Rows[0].Tpeak, want, 1e-12)
}

func TestApplyInferenceFailureProducesNothing(t *testing.T) {
	table := loadTable(t, "Sgr",
		testsupport.FitLine{Species: "H50a", Upper: 50, Lower: 49, FreqMHz: 60000, Tpeak: 1},
		testsupport.FitLine{Species: "H60a", Upper: 60, Lower: 59, FreqMHz: 20000, Tpeak: 1},
	)
	c := correction.New(correction.Options{Policy: calibration.PolicyAny}, logging.NewNop())
	res, err := c.Apply(table, "Sgr", elements)
	if !errors.Is(err, calibration.ErrUnsupportedTelescopeType) {
		t.Fatalf("expected ErrUnsupportedTelescopeType, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil result, got %+v", res)
	}
	if table.Rows[0].Tpeak != 1 {
		t.Fatalf("table modified: %v", table.Rows[0].Tpeak)
	}
}

func TestApplyDivisionFaultReturnsEmptySet(t *testing.T) {
	// A NaN frequency yields a NaN factor; the any policy lets it through.
	table := loadTable(t, "Orion",
		testsupport.FitLine{Species: "H42a", Upper: 42, Lower: 41, FreqMHz: 85688.39, Tpeak: 0.3},
		testsupport.FitLine{Species: "H41a", Upper: 41, Lower: 40, FreqMHz: math.NaN(), Tpeak: 0.2},
	)
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	res, err := correction.New(correction.Options{Policy: calibration.PolicyAny}, logger).Apply(table, "Orion", elements)
	if err != nil {
		t.Fatalf("expected nil error on division fault, got %v", err)
	}
	if !errors.Is(res.Fault, calibration.ErrDivisionFault) {
		t.Fatalf("expected ErrDivisionFault, got %v", res.Fault)
	}
	if len(res.Entries) != 0 {
		t.Fatalf("expected empty set, got %d entries", len(res.Entries))
	}
	if table.Rows[0].Tpeak != 0.3 {
		t.Fatalf("table modified on fault: %v", table.Rows[0].Tpeak)
	}
	out := buf.String()
	if !strings.Contains(out, "dividing by zero") || !strings.Contains(out, "source=Orion") {
		t.Fatalf("expected warning in log, got %q", out)
	}
}

func TestApplyKeepsNonFiniteTpeakRows(t *testing.T) {
	table := loadTable(t, "Orion",
		testsupport.FitLine{Species: "H42a", Upper: 42, Lower: 41, FreqMHz: 85688.39, Tpeak: 0.3},
		testsupport.FitLine{Species: "H41a", Upper: 41, Lower: 40, FreqMHz: 92034.43, Tpeak: math.NaN()},
	)
	res, err := correction.New(correction.Options{}, logging.NewNop()).Apply(table, "Orion", []string{"H"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Fault != nil {
		t.Fatalf("expected no fault for a NaN Tpeak, got %v", res.Fault)
	}
	sub := res.Entries[correction.Key{Source: "Orion", Element: "H"}]
	if sub == nil || sub.Len() != 2 {
		t.Fatalf("expected both H rows in the partition, got %+v", sub)
	}
	testsupport.RequireRelClose(t, sub.Rows[0].Tpeak, 0.3/calibration.BandA.Factor(85688.39), 1e-12)
	if !math.IsNaN(sub.Rows[1].Tpeak) {
		t.Fatalf("expected NaN to pass through, got %v", sub.Rows[1].Tpeak)
	}
}

func TestApplyCountsSeriesMismatches(t *testing.T) {
	table := loadTable(t, "W3",
		testsupport.FitLine{Species: "H42a", Upper: 42, Lower: 40, FreqMHz: 85688.39, Tpeak: 1},
		testsupport.FitLine{Species: "H41b", Upper: 43, Lower: 41, FreqMHz: 92034.43, Tpeak: 1},
	)
	res, err := correction.New(correction.Options{}, logging.NewNop()).Apply(table, "W3", elements)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.SeriesMismatches != 1 {
		t.Fatalf("expected 1 mismatch, got %d", res.SeriesMismatches)
	}
}

func TestApplyAllCollectsPerSourceErrors(t *testing.T) {
	tables := map[string]*fittable.Table{
		"W3": loadTable(t, "W3",
			testsupport.FitLine{Species: "H42a", Upper: 42, Lower: 41, FreqMHz: 85688.39, Tpeak: 1}),
		"Bad": loadTable(t, "Bad",
			testsupport.FitLine{Species: "H50a", Upper: 50, Lower: 49, FreqMHz: 60000, Tpeak: 1}),
		"DR21": loadTable(t, "DR21",
			testsupport.FitLine{Species: "H58a", Upper: 58, Lower: 57, FreqMHz: 32852.2, Tpeak: 1}),
	}
	c := correction.New(correction.Options{}, logging.NewNop())
	outcomes := c.ApplyAll(context.Background(), tables, elements, 4)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	order := []string{outcomes[0].Source, outcomes[1].Source, outcomes[2].Source}
	if strings.Join(order, ",") != "Bad,DR21,W3" {
		t.Fatalf("expected sorted outcomes, got %v", order)
	}
	if !errors.Is(outcomes[0].Err, calibration.ErrUnsupportedTelescopeType) {
		t.Fatalf("expected Bad to fail inference, got %v", outcomes[0].Err)
	}
	if outcomes[1].Err != nil || outcomes[2].Err != nil {
		t.Fatalf("unexpected errors: %v / %v", outcomes[1].Err, outcomes[2].Err)
	}

	merged := correction.Entries(outcomes)
	if len(merged) != 6 {
		t.Fatalf("expected 6 merged entries, got %d", len(merged))
	}
	keys := merged.Keys()
	if keys[0].String() != "DR21_C" || keys[len(keys)-1].String() != "W3_He" {
		t.Fatalf("unexpected key order: %v", keys)
	}
}

func TestApplyAllHonorsCancellation(t *testing.T) {
	tables := map[string]*fittable.Table{
		"W3": loadTable(t, "W3",
			testsupport.FitLine{Species: "H42a", Upper: 42, Lower: 41, FreqMHz: 85688.39, Tpeak: 1}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes := correction.New(correction.Options{}, logging.NewNop()).ApplyAll(ctx, tables, elements, 1)
	if !errors.Is(outcomes[0].Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", outcomes[0].Err)
	}
	if tables["W3"].Rows[0].Tpeak != 1 {
		t.Fatal("cancelled source must not be corrected")
	}
}

func TestKeyString(t *testing.T) {
	if got := (correction.Key{Source: "Orion", Element: "He"}).String(); got != "Orion_He" {
		t.Fatalf("unexpected key string %q", got)
	}
}
