package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"rrlfit/internal/failure"
	"rrlfit/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var (
		source  string
		jsonOut bool
	)

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded correction runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				runs, err := st.ListRuns(cmd.Context(), source)
				if err != nil {
					return err
				}
				if jsonOut {
					if runs == nil {
						runs = []store.Run{}
					}
					return writeJSON(cmd, runs)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				rows := make([]table.Row, 0, len(runs))
				for _, run := range runs {
					status := "ok"
					if run.Faulted() {
						status = "division fault"
					}
					rows = append(rows, table.Row{
						shortID(run.ID),
						run.Source,
						run.Band,
						run.Policy,
						run.Rows,
						run.Subsets,
						run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
						status,
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable([]column{
					labelColumn("Run"),
					labelColumn("Source"),
					labelColumn("Band"),
					labelColumn("Policy"),
					countColumn("Rows"),
					countColumn("Subsets"),
					labelColumn("Created"),
					labelColumn("Status"),
				}, rows))
				return nil
			})
		},
	}
	runsCmd.Flags().StringVar(&source, "source", "", "Only list runs for this source")
	runsCmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsClearCommand(ctx))
	return runsCmd
}

type runDetail struct {
	Run   *store.Run   `json:"run"`
	Lines []store.Line `json:"lines"`
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var (
		element string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the corrected lines of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				run, err := st.ResolveRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return failure.Wrap(failure.ErrNotFound, "runs", "show", fmt.Sprintf("run %s", args[0]), nil)
				}
				lines, err := st.Lines(cmd.Context(), run.ID, element)
				if err != nil {
					return err
				}
				if jsonOut {
					if lines == nil {
						lines = []store.Line{}
					}
					return writeJSON(cmd, runDetail{Run: run, Lines: lines})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:       %s\n", run.ID)
				fmt.Fprintf(out, "Source:    %s\n", run.Source)
				fmt.Fprintf(out, "Telescope: %s (%s policy)\n", run.Band, run.Policy)
				fmt.Fprintf(out, "Rows:      %d\n", run.Rows)
				if run.Faulted() {
					fmt.Fprintf(out, "Fault:     %s\n", run.Fault)
				}
				if run.SeriesMismatches > 0 {
					fmt.Fprintf(out, "Series:    %d rows disagree with their label\n", run.SeriesMismatches)
				}
				if len(lines) == 0 {
					fmt.Fprintln(out, "No corrected lines")
					return nil
				}
				rows := make([]table.Row, 0, len(lines))
				for _, line := range lines {
					rows = append(rows, table.Row{
						line.Element,
						line.Index,
						line.Species,
						line.Upper,
						line.Lower,
						line.DeltaN,
						line.FreqMHz,
						line.Tpeak,
					})
				}
				fmt.Fprint(out, renderTable([]column{
					labelColumn("Element"),
					countColumn("#"),
					labelColumn("Species"),
					countColumn("Upper"),
					countColumn("Lower"),
					countColumn("Delta_n"),
					mhzColumn("Freq [MHz]"),
					valueColumn("Tpeak"),
				}, rows))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&element, "element", "", "Only show lines of this element")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newRunsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				removed, err := st.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
				return nil
			})
		},
	}
}
