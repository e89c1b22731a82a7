package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rrlfit/internal/config"
	"rrlfit/internal/failure"
	"rrlfit/internal/fileutil"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveConfigTarget(targetPath)
			if err != nil {
				return failure.Wrap(failure.ErrConfiguration, "config", "init", "resolve path", err)
			}
			err = config.CreateSample(target, overwrite)
			switch {
			case errors.Is(err, fileutil.ErrExists):
				return failure.Wrap(failure.ErrValidation, "config", "init",
					fmt.Sprintf("%s already exists (use --overwrite to replace it)", target), nil)
			case err != nil:
				return failure.Wrap(failure.ErrConfiguration, "config", "init", "", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set [paths] data_dir and [correction] sources, then run: rrlfit doctor")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func resolveConfigTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		return config.ExpandPath(target)
	}
	return config.DefaultConfigPath()
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and print the resolved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			file := ctx.configPath
			if !ctx.configExists {
				file += " (not found, defaults in use)"
			}
			sources := "none"
			if len(cfg.Correction.Sources) > 0 {
				sources = strings.Join(cfg.Correction.Sources, ", ")
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderFields([][2]string{
				{"Config file", file},
				{"Data directory", cfg.Paths.DataDir},
				{"Output directory", cfg.Paths.OutputDir},
				{"State directory", cfg.Paths.StateDir},
				{"Sources", sources},
				{"Elements", strings.Join(cfg.Correction.Elements, ", ")},
				{"Band policy", cfg.Policy().String()},
				{"Flux density", yesNo(cfg.Correction.FluxDensity)},
				{"Workers", strconv.Itoa(cfg.Correction.Workers)},
				{"Export", yesNo(cfg.Export.Enabled)},
			}))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
