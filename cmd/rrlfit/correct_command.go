package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"rrlfit/internal/batch"
	"rrlfit/internal/calibration"
	"rrlfit/internal/failure"
	"rrlfit/internal/preflight"
	"rrlfit/internal/store"
)

type correctReport struct {
	Source           string   `json:"source"`
	Band             string   `json:"band,omitempty"`
	Rows             int      `json:"rows"`
	Subsets          int      `json:"subsets"`
	SeriesMismatches int      `json:"series_mismatches"`
	RunID            string   `json:"run_id,omitempty"`
	Exported         []string `json:"exported,omitempty"`
	Fault            string   `json:"fault,omitempty"`
	Error            string   `json:"error,omitempty"`
}

type correctOutput struct {
	Policy  string          `json:"policy"`
	Sources []correctReport `json:"sources"`
	Missing []string        `json:"missing,omitempty"`
}

func newCorrectCommand(ctx *commandContext) *cobra.Command {
	var (
		policyFlag  string
		workers     int
		noExport    bool
		overwrite   bool
		fluxDensity bool
		noHistory   bool
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "correct [source...]",
		Short: "Rescale Tpeak to Tmb and split catalogs by element",
		Long: "Reads {data_dir}/{source}_rrls_fit.csv for each source (or the configured\n" +
			"sources), converts Tpeak with the calibration curve of the inferred\n" +
			"telescope, and writes {output_dir}/{source}_{element}.csv per element.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("policy") {
				if _, err := calibration.ParsePolicy(policyFlag); err != nil {
					return failure.Wrap(failure.ErrValidation, "correct", "policy", "", err)
				}
				cfg.Correction.BandPolicy = policyFlag
			}
			if cmd.Flags().Changed("workers") {
				cfg.Correction.Workers = workers
			}
			if noExport {
				cfg.Export.Enabled = false
			}
			if overwrite {
				cfg.Export.Overwrite = true
			}
			if fluxDensity {
				cfg.Correction.FluxDensity = true
			}

			if blocking := preflight.Blocking(preflight.RunAll(cfg)); len(blocking) > 0 {
				return failure.Wrap(failure.ErrConfiguration, "correct", "preflight",
					fmt.Sprintf("%s: %s", blocking[0].Name, blocking[0].Detail), nil)
			}

			logger, closeLog, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			var st *store.Store
			if !noHistory {
				st, err = store.Open(cfg)
				if err != nil {
					return err
				}
				defer st.Close()
			}

			summary, err := batch.New(cfg, st, logger).Run(cmd.Context(), args)
			if err != nil {
				if errors.Is(err, batch.ErrNoSources) {
					return failure.Wrap(failure.ErrValidation, "correct", "", "no sources given and none configured", err)
				}
				return err
			}

			output := buildCorrectOutput(cfg.Policy(), summary)
			if jsonOut {
				if err := writeJSON(cmd, output); err != nil {
					return err
				}
			} else {
				printCorrectOutput(cmd, output)
			}

			if failed := summary.Failed(); failed > 0 {
				return failure.Wrap(failure.ErrData, "correct", "",
					fmt.Sprintf("%d of %d sources failed", failed, len(summary.Sources)), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&policyFlag, "policy", "", "Band policy: dataset or any")
	cmd.Flags().IntVar(&workers, "workers", 0, "Sources corrected in parallel")
	cmd.Flags().BoolVar(&noExport, "no-export", false, "Skip writing corrected CSV files")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing corrected CSV files")
	cmd.Flags().BoolVar(&fluxDensity, "flux-density", false, "Convert corrected peaks to mJy")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history database")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func buildCorrectOutput(policy calibration.Policy, summary *batch.Summary) correctOutput {
	out := correctOutput{Policy: policy.String(), Missing: summary.Missing}
	for _, r := range summary.Sources {
		report := correctReport{Source: r.Source, Exported: r.Exported}
		if r.Result != nil {
			report.Band = r.Result.Band.String()
			report.Rows = r.Result.Rows
			report.Subsets = len(r.Result.Entries)
			report.SeriesMismatches = r.Result.SeriesMismatches
			if r.Result.Fault != nil {
				report.Fault = r.Result.Fault.Error()
			}
		}
		if r.Run != nil {
			report.RunID = r.Run.ID
		}
		if r.Err != nil {
			report.Error = r.Err.Error()
		}
		out.Sources = append(out.Sources, report)
	}
	return out
}

func printCorrectOutput(cmd *cobra.Command, output correctOutput) {
	out := cmd.OutOrStdout()
	rows := make([]table.Row, 0, len(output.Sources))
	for _, r := range output.Sources {
		status := "ok"
		switch {
		case r.Error != "":
			status = r.Error
		case r.Fault != "":
			status = "division fault"
		}
		band := r.Band
		if band == "" {
			band = "-"
		}
		rows = append(rows, table.Row{
			r.Source, band, r.Rows, r.Subsets, len(r.Exported), shortID(r.RunID), status,
		})
	}
	fmt.Fprint(out, renderTable([]column{
		labelColumn("Source"),
		labelColumn("Band"),
		countColumn("Rows"),
		countColumn("Subsets"),
		countColumn("Files"),
		labelColumn("Run"),
		labelColumn("Status"),
	}, rows))
	fmt.Fprintf(out, "Policy: %s\n", output.Policy)
	for _, source := range output.Missing {
		fmt.Fprintf(out, "Skipped %s: catalog not found\n", source)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}
