package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"rrlfit/internal/calibration"
	"rrlfit/internal/failure"
)

type factorRow struct {
	FreqMHz    float64 `json:"freq_mhz"`
	Band       string  `json:"band"`
	Factor     float64 `json:"factor"`
	FluxFactor float64 `json:"flux_factor"`
}

func newFactorCommand() *cobra.Command {
	var (
		bandFlag string
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:         "factor <freq-mhz>...",
		Short:       "Print Ta to Tmb conversion factors",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			forced := calibration.BandUnsupported
			if strings.TrimSpace(bandFlag) != "" {
				band, err := calibration.ParseBand(bandFlag)
				if err != nil {
					return failure.Wrap(failure.ErrValidation, "factor", "band", "", err)
				}
				forced = band
			}

			rows := make([]factorRow, 0, len(args))
			for _, arg := range args {
				freq, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
				if err != nil {
					return failure.Wrap(failure.ErrValidation, "factor", "parse", fmt.Sprintf("frequency %q", arg), err)
				}
				band := forced
				if band == calibration.BandUnsupported {
					band = calibration.BandFor(freq)
				}
				if band == calibration.BandUnsupported {
					_, err := calibration.Factor(freq)
					return failure.Wrap(failure.ErrData, "factor", "", "", err)
				}
				rows = append(rows, factorRow{
					FreqMHz:    freq,
					Band:       band.String(),
					Factor:     band.Factor(freq),
					FluxFactor: band.FluxFactor(freq),
				})
			}

			if jsonOut {
				return writeJSON(cmd, rows)
			}
			tableRows := make([]table.Row, 0, len(rows))
			for _, r := range rows {
				tableRows = append(tableRows, table.Row{r.FreqMHz, r.Band, r.Factor, r.FluxFactor})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]column{
				mhzColumn("Freq [MHz]"),
				labelColumn("Telescope"),
				valueColumn("Ta/Tmb factor"),
				valueColumn("mJy/K factor"),
			}, tableRows))
			return nil
		},
	}

	cmd.Flags().StringVar(&bandFlag, "band", "", "Force a band (a/iram or b/yebes) instead of classifying each frequency")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
