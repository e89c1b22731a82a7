package calibration

import "errors"

var (
	// ErrUnsupportedFrequencyRange reports a frequency outside every calibrated band.
	ErrUnsupportedFrequencyRange = errors.New("invalid frequency range. Supported ranges: 30-50 GHz, 70-116 GHz")
	// ErrUnsupportedTelescopeType reports a dataset whose maximum frequency maps to no telescope.
	ErrUnsupportedTelescopeType = errors.New("unable to determine telescope type based on frequency. Supported ranges: 30-50 GHz, 70-116 GHz")
	// ErrDivisionFault reports a zero or non-finite conversion factor.
	ErrDivisionFault = errors.New("division fault")
)
