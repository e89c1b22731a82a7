package correction

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"rrlfit/internal/calibration"
	"rrlfit/internal/fittable"
	"rrlfit/internal/logging"
	"rrlfit/internal/species"
)

// Options tunes the pipeline.
type Options struct {
	Policy calibration.Policy
	// FluxDensity multiplies the corrected peak by the band's mJy/K factor.
	FluxDensity bool
}

// Result describes one source's correction.
type Result struct {
	Source  string
	Band    calibration.Band
	Policy  calibration.Policy
	Rows    int
	Entries Set
	// Fault is set, wrapping calibration.ErrDivisionFault, when the rescale
	// was abandoned.
	Fault error
	// SeriesMismatches counts rows whose Delta_n disagrees with the series
	// letter of the species label.
	SeriesMismatches int
}

// Corrector applies the correction pipeline.
type Corrector struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a Corrector.
func New(opts Options, logger *slog.Logger) *Corrector {
	return &Corrector{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "correction"),
	}
}

// Apply corrects t in place and partitions it into one entry per element.
func (c *Corrector) Apply(t *fittable.Table, source string, elements []string) (*Result, error) {
	if t == nil {
		return nil, errors.New("correction: nil table")
	}
	logger := c.logger.With(logging.String(logging.FieldSource, source))
	result := &Result{Source: source, Policy: c.opts.Policy, Rows: t.Len(), Entries: Set{}}

	band, err := calibration.InferBand(t.Frequencies())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	result.Band = band

	factors, err := c.factors(band, t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	corrected, err := c.rescale(band, t, factors)
	if err != nil {
		result.Fault = err
		logging.WarnWithContext(logger, "error in source data: dividing by zero", "division_fault",
			logging.String(logging.FieldBand, band.String()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "source left uncorrected; no subsets produced"),
			logging.String(logging.FieldErrorHint, "check Freq[MHz] values for this source"),
		)
		return result, nil
	}
	for i, v := range corrected {
		t.SetTpeak(i, v)
	}
	logger.Info("temperature correction applied",
		logging.String(logging.FieldBand, band.String()),
		logging.Int("rows", t.Len()),
		logging.Bool("flux_density", c.opts.FluxDensity),
	)

	for elem, sub := range species.Partition(t, elements) {
		result.Entries[Key{Source: source, Element: elem}] = sub
	}
	result.SeriesMismatches = seriesMismatches(t)
	if result.SeriesMismatches > 0 {
		logger.Debug("rows with Delta_n inconsistent with species series",
			logging.Int("count", result.SeriesMismatches),
		)
	}
	logger.Info("data classified by species", logging.Int("subsets", len(result.Entries)))
	return result, nil
}

// factors restricts the calibration to the inferred band. Under PolicyDataset
// every row must lie inside it.
func (c *Corrector) factors(band calibration.Band, t *fittable.Table) ([]float64, error) {
	freqs := t.Frequencies()
	if c.opts.Policy == calibration.PolicyDataset {
		if err := band.Validate(freqs); err != nil {
			return nil, err
		}
	}
	return band.Factors(freqs), nil
}

// rescale computes the corrected peaks without touching t, so a fault
// leaves the table as it was.
func (c *Corrector) rescale(band calibration.Band, t *fittable.Table, factors []float64) ([]float64, error) {
	out := make([]float64, t.Len())
	for i, row := range t.Rows {
		factor := factors[i]
		switch {
		case factor == 0:
			return nil, fmt.Errorf("%w: zero conversion factor at row %d (%.3f MHz)", calibration.ErrDivisionFault, i, row.FreqMHz)
		case math.IsInf(factor, 0) || math.IsNaN(factor):
			return nil, fmt.Errorf("%w: invalid conversion factor at row %d (%.3f MHz)", calibration.ErrDivisionFault, i, row.FreqMHz)
		}
		// A non-finite Tpeak stays non-finite; the row is still classified.
		v := row.Tpeak / factor
		if c.opts.FluxDensity {
			v *= band.FluxFactor(row.FreqMHz)
		}
		out[i] = v
	}
	return out, nil
}

func seriesMismatches(t *fittable.Table) int {
	count := 0
	for _, row := range t.Rows {
		label, err := species.ParseLabel(row.Species)
		if err != nil {
			continue
		}
		if delta, ok := label.DeltaN(); ok && delta != row.DeltaN {
			count++
		}
	}
	return count
}
