package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

const (
	mhzDecimals   = 3
	valueDecimals = 6
)

// column is one table column. Numeric columns align right; float64 cells in
// a column with decimals > 0 are printed in fixed notation.
type column struct {
	title    string
	numeric  bool
	decimals int
}

func labelColumn(title string) column { return column{title: title} }

func countColumn(title string) column { return column{title: title, numeric: true} }

func mhzColumn(title string) column {
	return column{title: title, numeric: true, decimals: mhzDecimals}
}

func valueColumn(title string) column {
	return column{title: title, numeric: true, decimals: valueDecimals}
}

// renderTable lays rows out under columns; short rows are padded with blanks.
func renderTable(columns []column, rows []table.Row) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		}
		if col.numeric {
			configs[i].Align = text.AlignRight
		}
		if col.decimals > 0 {
			configs[i].Transformer = fixedTransformer(col.decimals)
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		padded := make(table.Row, len(columns))
		for i := range padded {
			if i < len(row) {
				padded[i] = row[i]
			} else {
				padded[i] = ""
			}
		}
		tw.AppendRow(padded)
	}
	return tw.Render() + "\n"
}

// renderFields prints label/value pairs as a two-column table.
func renderFields(fields [][2]string) string {
	rows := make([]table.Row, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, table.Row{f[0], f[1]})
	}
	return renderTable([]column{labelColumn("Field"), labelColumn("Value")}, rows)
}

func fixedTransformer(decimals int) text.Transformer {
	return func(val any) string {
		if f, ok := val.(float64); ok {
			return strconv.FormatFloat(f, 'f', decimals, 64)
		}
		return fmt.Sprint(val)
	}
}

func formatMHz(v float64) string {
	return strconv.FormatFloat(v, 'f', mhzDecimals, 64)
}

// writeJSON encodes v as indented JSON on stdout. Species labels and paths
// are written without HTML escaping.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
