package testsupport

import (
	"math"
	"testing"
)

// RequireRelClose fails t when got and want differ by more than rel times the
// magnitude of want. Values near zero fall back to an absolute comparison.
func RequireRelClose(t testing.TB, got, want, rel float64) {
	t.Helper()
	if !relClose(got, want, rel) {
		t.Fatalf("got %.17g, want %.17g (rel tol %g)", got, want, rel)
	}
}

// RequireSliceRelClose applies RequireRelClose element-wise.
func RequireSliceRelClose(t testing.TB, got, want []float64, rel float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if !relClose(got[i], want[i], rel) {
			t.Fatalf("index %d: got %.17g, want %.17g (rel tol %g)", i, got[i], want[i], rel)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

func relClose(got, want, rel float64) bool {
	diff := math.Abs(got - want)
	scale := math.Abs(want)
	if scale < 1 {
		scale = 1
	}
	return diff <= rel*scale
}
