package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// FitHeader is a 15-column GILDAS-CLASS export header. The last column sits
// beyond the 14 that readers keep.
var FitHeader = []string{
	"Species", "Upper", "Lower", "Freq[MHz]", "Tpeak", "Tpeak_err",
	"Vlsr", "Vlsr_err", "FWHM", "FWHM_err", "Area", "Area_err",
	"rms", "SNR", "Comment",
}

// FitLine describes the typed fields of one catalog row; the rest are filled
// with placeholder values.
type FitLine struct {
	Species string
	Upper   int
	Lower   int
	FreqMHz float64
	Tpeak   float64
}

// FitRecord renders a FitLine in FitHeader order.
func FitRecord(line FitLine) []string {
	return []string{
		line.Species,
		strconv.Itoa(line.Upper),
		strconv.Itoa(line.Lower),
		strconv.FormatFloat(line.FreqMHz, 'f', -1, 64),
		strconv.FormatFloat(line.Tpeak, 'g', -1, 64),
		"0.001", "-40.5", "0.3", "25.1", "0.7", "0.12", "0.004", "0.002", "12.5", "extra",
	}
}

// WriteFitFile writes {dir}/{source}_rrls_fit.csv with FitHeader and lines and
// returns the file path.
func WriteFitFile(t testing.TB, dir, source string, lines ...FitLine) string {
	t.Helper()

	records := make([][]string, 0, len(lines)+1)
	records = append(records, FitHeader)
	for _, line := range lines {
		records = append(records, FitRecord(line))
	}
	return WriteCSV(t, filepath.Join(dir, source+"_rrls_fit.csv"), records)
}

// WriteCSV writes raw records to path, creating parent directories.
func WriteCSV(t testing.TB, path string, records [][]string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
