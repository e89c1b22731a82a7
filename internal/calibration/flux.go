package calibration

const (
	fluxAQuad   = 5.760273113762687692e-05
	fluxALinear = -5.015712414552293830e-03
	fluxAConst  = 5.91822560841985812

	fluxBConst  = 4.0660553594502913
	fluxBLinear = -6.6879469816527315e-002
	fluxBQuad   = 1.6408850177347977e-003
)

// FluxFactor returns the antenna temperature to flux density factor (mJy/K)
// for the band at freqMHz.
func (b Band) FluxFactor(freqMHz float64) float64 {
	ghz := freqMHz / 1000
	sq := float64(ghz * ghz)
	switch b {
	case BandA:
		return 1000 * (float64(fluxAQuad*sq) + float64(fluxALinear*ghz) + fluxAConst)
	case BandB:
		return 1000 * (fluxBConst + float64(fluxBLinear*ghz) + float64(fluxBQuad*sq))
	default:
		return 0
	}
}
