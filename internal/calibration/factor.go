package calibration

import (
	"fmt"
	"strings"
)

// Policy selects how a vector of frequencies picks its calibration branch.
type Policy int

const (
	// PolicyDataset infers the band from the maximum frequency and requires
	// every element to fall inside it.
	PolicyDataset Policy = iota
	// PolicyAny picks the branch when any element satisfies it and applies that
	// formula to every element unchecked. Kept for parity with older catalogs.
	PolicyAny
)

// String returns the configuration spelling of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyAny:
		return "any"
	default:
		return "dataset"
	}
}

// ParsePolicy maps a configuration value onto a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "dataset", "max":
		return PolicyDataset, nil
	case "any", "legacy":
		return PolicyAny, nil
	default:
		return PolicyDataset, fmt.Errorf("unknown band policy %q", value)
	}
}

const (
	bandAPivotGHz = 211.024589551445843
	bandASlope    = 0.102592852137351087
	bandAQuad     = -2.556567478886569763e-04
	bandALinear   = -7.226368939203042796e-02
	bandAConst    = 89.2508073876328893

	bandBConst  = 1.4913789244107469
	bandBLinear = -1.2925792303656232e-002
	bandBQuad   = 5.0941757966556876e-004
)

// Factor returns the Ta to Tmb conversion factor of the band at freqMHz.
// The band's range is not checked.
//
// The float64 conversions keep each product rounded on its own so that no
// platform fuses them into multiply-adds; results match the reference curves
// bit for bit.
func (b Band) Factor(freqMHz float64) float64 {
	ghz := freqMHz / 1000
	sq := float64(ghz * ghz)
	switch b {
	case BandA:
		tail := -94 - float64(bandASlope*(ghz-bandAPivotGHz))
		num := 1000 * (float64(94*(ghz/bandAPivotGHz+1)) + float64(tail*freqMHz)/1000/bandAPivotGHz)
		den := float64(bandAQuad*sq) + float64(bandALinear*ghz) + bandAConst
		return num / den
	case BandB:
		return 1000 * (bandBConst + float64(bandBLinear*ghz) + float64(bandBQuad*sq))
	default:
		return 0
	}
}

// Factor classifies freqMHz and returns its conversion factor.
func Factor(freqMHz float64) (float64, error) {
	band := BandFor(freqMHz)
	if band == BandUnsupported {
		return 0, fmt.Errorf("%w: %.3f MHz", ErrUnsupportedFrequencyRange, freqMHz)
	}
	return band.Factor(freqMHz), nil
}

// Factors converts a vector of frequencies element-wise, picking the branch
// according to policy.
func Factors(freqsMHz []float64, policy Policy) ([]float64, error) {
	if policy == PolicyAny {
		band := anyBand(freqsMHz)
		if band == BandUnsupported {
			return nil, ErrUnsupportedFrequencyRange
		}
		return band.Factors(freqsMHz), nil
	}

	band, err := InferBand(freqsMHz)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFrequencyRange, err)
	}
	if err := band.Validate(freqsMHz); err != nil {
		return nil, err
	}
	return band.Factors(freqsMHz), nil
}

// Factors applies the band's formula to every element.
func (b Band) Factors(freqsMHz []float64) []float64 {
	out := make([]float64, len(freqsMHz))
	for i, f := range freqsMHz {
		out[i] = b.Factor(f)
	}
	return out
}

// Validate returns ErrUnsupportedFrequencyRange for the first element outside the band.
func (b Band) Validate(freqsMHz []float64) error {
	for i, f := range freqsMHz {
		if !b.Contains(f) {
			return fmt.Errorf("%w: row %d at %.3f MHz is outside %s (%s)", ErrUnsupportedFrequencyRange, i, f, b, b.Range())
		}
	}
	return nil
}

func anyBand(freqsMHz []float64) Band {
	for _, f := range freqsMHz {
		if BandA.Contains(f) {
			return BandA
		}
	}
	for _, f := range freqsMHz {
		if BandB.Contains(f) {
			return BandB
		}
	}
	return BandUnsupported
}
