package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rrlfit/internal/failure"
	"rrlfit/internal/preflight"
	"rrlfit/internal/store"
)

type doctorOutput struct {
	ConfigPath   string                `json:"config_path"`
	ConfigExists bool                  `json:"config_exists"`
	Policy       string                `json:"policy"`
	Elements     []string              `json:"elements"`
	Checks       []preflight.Result    `json:"checks"`
	Database     *store.DatabaseHealth `json:"database,omitempty"`
	DatabaseErr  string                `json:"database_error,omitempty"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, catalogs, and the run history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			output := doctorOutput{
				ConfigPath:   ctx.configPath,
				ConfigExists: ctx.configExists,
				Policy:       cfg.Policy().String(),
				Elements:     cfg.Correction.Elements,
				Checks:       preflight.RunAll(cfg),
			}
			if err := ctx.withStore(func(st *store.Store) error {
				health, err := st.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				output.Database = &health
				return nil
			}); err != nil {
				output.DatabaseErr = err.Error()
			}

			if jsonOut {
				if err := writeJSON(cmd, output); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, line := range renderDoctor(output, shouldColorize(out)) {
					fmt.Fprintln(out, line)
				}
			}

			if blocking := preflight.Blocking(output.Checks); len(blocking) > 0 || output.DatabaseErr != "" {
				return failure.Wrap(failure.ErrConfiguration, "doctor", "", "one or more checks failed", nil)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
