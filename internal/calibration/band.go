package calibration

import (
	"fmt"
	"math"
	"strings"
)

// Frequency limits in MHz.
const (
	BandAMinMHz = 70000.0
	BandBMinMHz = 30000.0
	BandBMaxMHz = 50000.0
)

// Band identifies the telescope whose calibration curve applies.
type Band int

const (
	BandUnsupported Band = iota
	BandA
	BandB
)

// String returns the telescope name associated with the band.
func (b Band) String() string {
	switch b {
	case BandA:
		return "IRAM-30m"
	case BandB:
		return "Yebes-40m"
	default:
		return "unsupported"
	}
}

// Range returns the human-readable frequency coverage.
func (b Band) Range() string {
	switch b {
	case BandA:
		return "70-116 GHz"
	case BandB:
		return "30-50 GHz"
	default:
		return "none"
	}
}

// Contains reports whether a frequency in MHz falls inside the band.
// Band A has no upper bound; 116 GHz is the receiver limit, not a test.
func (b Band) Contains(freqMHz float64) bool {
	switch b {
	case BandA:
		return freqMHz > BandAMinMHz
	case BandB:
		return freqMHz >= BandBMinMHz && freqMHz <= BandBMaxMHz
	default:
		return false
	}
}

// ParseBand accepts a telescope name or band letter.
func ParseBand(value string) (Band, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "a", "band-a", "iram", "iram-30m", "iram30m":
		return BandA, nil
	case "b", "band-b", "yebes", "yebes-40m", "yebes40m":
		return BandB, nil
	default:
		return BandUnsupported, fmt.Errorf("unknown band %q", value)
	}
}

// BandFor classifies a single frequency.
func BandFor(freqMHz float64) Band {
	switch {
	case BandA.Contains(freqMHz):
		return BandA
	case BandB.Contains(freqMHz):
		return BandB
	default:
		return BandUnsupported
	}
}

// InferBand classifies a whole dataset from its maximum frequency, ignoring
// NaN. The result applies to every row regardless of the row's own frequency.
func InferBand(freqsMHz []float64) (Band, error) {
	maxFreq, found := 0.0, false
	for _, f := range freqsMHz {
		if math.IsNaN(f) {
			continue
		}
		if !found || f > maxFreq {
			maxFreq, found = f, true
		}
	}
	if !found {
		return BandUnsupported, fmt.Errorf("%w: no frequencies", ErrUnsupportedTelescopeType)
	}
	band := BandFor(maxFreq)
	if band == BandUnsupported {
		return BandUnsupported, fmt.Errorf("%w: max frequency %.3f MHz", ErrUnsupportedTelescopeType, maxFreq)
	}
	return band, nil
}
