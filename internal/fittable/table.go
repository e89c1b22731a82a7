package fittable

import (
	"math"
	"strconv"
)

// Column names recognized in fit catalogs.
const (
	ColumnUpper   = "Upper"
	ColumnLower   = "Lower"
	ColumnFreq    = "Freq[MHz]"
	ColumnTpeak   = "Tpeak"
	ColumnSpecies = "Species"
	ColumnDeltaN  = "Delta_n"
)

// MaxColumns is the number of leading columns read from a catalog.
const MaxColumns = 14

// Row is one Gaussian fit.
type Row struct {
	Index   int
	Upper   int
	Lower   int
	DeltaN  int
	FreqMHz float64
	Tpeak   float64
	Species string
	// Values holds the raw cells in header order.
	Values []string
}

// Table is an ordered set of fits for one source.
type Table struct {
	Source  string
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Frequencies returns the Freq[MHz] column.
func (t *Table) Frequencies() []float64 {
	out := make([]float64, t.Len())
	for i := range out {
		out[i] = t.Rows[i].FreqMHz
	}
	return out
}

// MaxFrequency returns the largest non-NaN frequency, or false when there is none.
func (t *Table) MaxFrequency() (float64, bool) {
	maxFreq, found := 0.0, false
	for _, row := range t.Rows {
		if math.IsNaN(row.FreqMHz) {
			continue
		}
		if !found || row.FreqMHz > maxFreq {
			maxFreq, found = row.FreqMHz, true
		}
	}
	return maxFreq, found
}

// SetTpeak updates a row's peak temperature and its raw cell.
func (t *Table) SetTpeak(i int, value float64) {
	row := &t.Rows[i]
	row.Tpeak = value
	if col := t.ColumnIndex(ColumnTpeak); col >= 0 && col < len(row.Values) {
		row.Values[col] = strconv.FormatFloat(value, 'g', -1, 64)
	}
}

// ColumnIndex returns the position of a header column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	clone := &Table{
		Source:  t.Source,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		row.Values = append([]string(nil), row.Values...)
		clone.Rows[i] = row
	}
	return clone
}

// Filter returns a new table holding the rows accepted by keep, re-indexed
// contiguously from zero.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{
		Source:  t.Source,
		Columns: append([]string(nil), t.Columns...),
	}
	for _, row := range t.Rows {
		if !keep(row) {
			continue
		}
		row.Values = append([]string(nil), row.Values...)
		row.Index = len(out.Rows)
		out.Rows = append(out.Rows, row)
	}
	return out
}
