package fittable

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Write emits the table as CSV with its original header followed by Delta_n.
func Write(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	header := append([]string(nil), t.Columns...)
	deltaCol := t.ColumnIndex(ColumnDeltaN)
	if deltaCol < 0 {
		deltaCol = len(header)
		header = append(header, ColumnDeltaN)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range t.Rows {
		n := copy(record, row.Values)
		for i := n; i < len(t.Columns); i++ {
			record[i] = ""
		}
		record[deltaCol] = strconv.Itoa(row.DeltaN)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", row.Index, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
