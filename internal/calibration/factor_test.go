package calibration_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"rrlfit/internal/calibration"
	"rrlfit/internal/testsupport"
)

func referenceBandA(f float64) float64 {
	num := 1000 * (94*(f/1000/211.024589551445843+1) +
		(-94-0.102592852137351087*(f/1000-211.024589551445843))*f/1000/211.024589551445843)
	den := -2.556567478886569763e-4*math.Pow(f/1000, 2) -
		7.226368939203042796e-2*(f/1000) +
		89.2508073876328893
	return num / den
}

func referenceBandB(f float64) float64 {
	return 1000 * (1.4913789244107469 - 1.2925792303656232e-2*(f/1000) + 5.0941757966556876e-4*math.Pow(f/1000, 2))
}

func TestFactorBandAMatchesReference(t *testing.T) {
	for _, f := range []float64{70000.001, 72000, 86000, 90000, 100123.5, 115999, 116000, 150000} {
		got, err := calibration.Factor(f)
		if err != nil {
			t.Fatalf("Factor(%v) returned error: %v", f, err)
		}
		testsupport.RequireRelClose(t, got, referenceBandA(f), 1e-9)
	}
}

func TestFactorBandBMatchesReference(t *testing.T) {
	for _, f := range []float64{30000, 31000.25, 40000, 45678.9, 50000} {
		got, err := calibration.Factor(f)
		if err != nil {
			t.Fatalf("Factor(%v) returned error: %v", f, err)
		}
		testsupport.RequireRelClose(t, got, referenceBandB(f), 1e-9)
	}
}

func TestFactorRejectsUnsupportedFrequencies(t *testing.T) {
	for _, f := range []float64{0, 29999.999, 50000.001, 60000, 70000, -40000} {
		_, err := calibration.Factor(f)
		if !errors.Is(err, calibration.ErrUnsupportedFrequencyRange) {
			t.Fatalf("Factor(%v): expected ErrUnsupportedFrequencyRange, got %v", f, err)
		}
		if !strings.Contains(err.Error(), "30-50 GHz") || !strings.Contains(err.Error(), "70-116 GHz") {
			t.Fatalf("error should name both supported ranges, got %q", err)
		}
	}
}

func TestFactorsDatasetPolicyValidatesEveryElement(t *testing.T) {
	freqs := []float64{90000, 85000.5, 110000}
	got, err := calibration.Factors(freqs, calibration.PolicyDataset)
	if err != nil {
		t.Fatalf("Factors returned error: %v", err)
	}
	want := []float64{referenceBandA(90000), referenceBandA(85000.5), referenceBandA(110000)}
	testsupport.RequireSliceRelClose(t, got, want, 1e-9)

	_, err = calibration.Factors([]float64{90000, 60000}, calibration.PolicyDataset)
	if !errors.Is(err, calibration.ErrUnsupportedFrequencyRange) {
		t.Fatalf("expected mixed vector to fail, got %v", err)
	}
	if !strings.Contains(err.Error(), "row 1") {
		t.Fatalf("expected error to name the offending row, got %q", err)
	}
}

func TestFactorsDatasetPolicyRejectsUnsupportedMaximum(t *testing.T) {
	_, err := calibration.Factors([]float64{40000, 60000}, calibration.PolicyDataset)
	if !errors.Is(err, calibration.ErrUnsupportedFrequencyRange) {
		t.Fatalf("expected ErrUnsupportedFrequencyRange, got %v", err)
	}
	if !errors.Is(err, calibration.ErrUnsupportedTelescopeType) {
		t.Fatalf("expected the inference failure to stay visible, got %v", err)
	}
}

func TestFactorsAnyPolicyAppliesFirstMatchingBranchToAll(t *testing.T) {
	freqs := []float64{90000, 60000, 40000}
	got, err := calibration.Factors(freqs, calibration.PolicyAny)
	if err != nil {
		t.Fatalf("Factors returned error: %v", err)
	}
	want := []float64{referenceBandA(90000), referenceBandA(60000), referenceBandA(40000)}
	testsupport.RequireSliceRelClose(t, got, want, 1e-9)

	got, err = calibration.Factors([]float64{20000, 45000}, calibration.PolicyAny)
	if err != nil {
		t.Fatalf("Factors returned error: %v", err)
	}
	want = []float64{referenceBandB(20000), referenceBandB(45000)}
	testsupport.RequireSliceRelClose(t, got, want, 1e-9)

	if _, err := calibration.Factors([]float64{20000, 60000}, calibration.PolicyAny); !errors.Is(err, calibration.ErrUnsupportedFrequencyRange) {
		t.Fatalf("expected ErrUnsupportedFrequencyRange, got %v", err)
	}
}

func TestFactorsPreservesLength(t *testing.T) {
	got, err := calibration.Factors([]float64{31000, 32000, 33000, 34000}, calibration.PolicyDataset)
	if err != nil {
		t.Fatalf("Factors returned error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 factors, got %d", len(got))
	}
	testsupport.RequireFinite(t, got)
}

func TestFluxFactorMatchesReference(t *testing.T) {
	f := 90000.0
	wantA := 1000 * (5.760273113762687692e-05*math.Pow(f/1000, 2) - 5.015712414552293830e-03*(f/1000) + 5.91822560841985812)
	testsupport.RequireRelClose(t, calibration.BandA.FluxFactor(f), wantA, 1e-9)

	f = 40000
	wantB := 1000 * (4.0660553594502913 - 6.6879469816527315e-002*(f/1000) + 1.6408850177347977e-003*math.Pow(f/1000, 2))
	testsupport.RequireRelClose(t, calibration.BandB.FluxFactor(f), wantB, 1e-9)

	if calibration.BandUnsupported.FluxFactor(f) != 0 {
		t.Fatal("unsupported band should have a zero flux factor")
	}
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]calibration.Policy{
		"":        calibration.PolicyDataset,
		"dataset": calibration.PolicyDataset,
		" ANY ":   calibration.PolicyAny,
		"legacy":  calibration.PolicyAny,
	}
	for input, want := range cases {
		got, err := calibration.ParsePolicy(input)
		if err != nil {
			t.Fatalf("ParsePolicy(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParsePolicy(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := calibration.ParsePolicy("per-row"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
