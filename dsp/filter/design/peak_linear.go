package design

import (
	"math"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
)

// PeakLinearGain designs a peaking-EQ biquad at freq (Hz) with gain in dB and
// quality factor q.
//
// Unlike the RBJ cookbook peak, which uses A = 10^(gain/40), this variant
// scales alpha by the full linear gain 10^(gain/20) in both numerator and
// denominator. The boost at freq is therefore twice gainDB in dB. At 0 dB
// the numerator equals the denominator exactly and the section is an exact
// identity.
//
// Inputs are not validated: q <= 0 or freq outside (0, sampleRate/2) yield
// non-finite or unstable coefficients.
func PeakLinearGain(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	g := core.DBToLinear(gainDB)
	w0 := 2 * math.Pi * freq / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	cw := math.Cos(w0)

	b0 := 1 + alpha*g
	b1 := -2 * cw
	b2 := 1 - alpha*g
	a0 := 1 + alpha/g
	a1 := -2 * cw
	a2 := 1 - alpha/g

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
