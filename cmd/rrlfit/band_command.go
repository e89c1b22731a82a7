package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rrlfit/internal/calibration"
	"rrlfit/internal/config"
	"rrlfit/internal/failure"
	"rrlfit/internal/fittable"
)

type bandOutput struct {
	Source       string  `json:"source"`
	Rows         int     `json:"rows"`
	MaxFreqMHz   float64 `json:"max_freq_mhz"`
	Band         string  `json:"band"`
	Range        string  `json:"range,omitempty"`
	Error        string  `json:"error,omitempty"`
	OutsideRows  []int   `json:"outside_rows,omitempty"`
	DatasetValid bool    `json:"dataset_valid"`
}

func newBandCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "band <source|file>",
		Short: "Show the telescope inferred for a catalog",
		Long: "Classifies a catalog by its maximum frequency and lists the rows that\n" +
			"fall outside the inferred band. The argument is a CSV path or a source\n" +
			"name resolved against data_dir.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			table, err := loadBandTable(cfg, args[0])
			if err != nil {
				return err
			}

			output := describeBand(table)
			if jsonOut {
				return writeJSON(cmd, output)
			}

			out := cmd.OutOrStdout()
			fields := [][2]string{
				{"Source", output.Source},
				{"Rows", strconv.Itoa(output.Rows)},
				{"Max frequency", formatMHz(output.MaxFreqMHz) + " MHz"},
				{"Telescope", output.Band},
			}
			if output.Range != "" {
				fields = append(fields, [2]string{"Range", output.Range})
			}
			if output.Error != "" {
				fields = append(fields, [2]string{"Error", output.Error})
			} else {
				fields = append(fields, [2]string{"Dataset policy", validLabel(output)})
			}
			fmt.Fprint(out, renderFields(fields))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func loadBandTable(cfg *config.Config, arg string) (*fittable.Table, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		f, err := os.Open(arg)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		source := strings.TrimSuffix(filepath.Base(arg), fittable.FileSuffix)
		return fittable.Read(f, strings.TrimSuffix(source, ".csv"))
	}
	table, err := fittable.ReadSource(arg, cfg.Paths.DataDir)
	if errors.Is(err, fittable.ErrFileNotFound) {
		return nil, failure.Wrap(failure.ErrNotFound, "band", "", "", err)
	}
	return table, err
}

func describeBand(table *fittable.Table) bandOutput {
	output := bandOutput{Source: table.Source, Rows: table.Len()}
	output.MaxFreqMHz, _ = table.MaxFrequency()

	freqs := table.Frequencies()
	band, err := calibration.InferBand(freqs)
	output.Band = band.String()
	if err != nil {
		output.Error = err.Error()
		return output
	}
	output.Range = band.Range()
	for i, f := range freqs {
		if !band.Contains(f) {
			output.OutsideRows = append(output.OutsideRows, i)
		}
	}
	output.DatasetValid = len(output.OutsideRows) == 0
	return output
}

func validLabel(output bandOutput) string {
	if output.DatasetValid {
		return "all rows inside band"
	}
	return fmt.Sprintf("%d rows outside band (use --policy any to correct anyway)", len(output.OutsideRows))
}
