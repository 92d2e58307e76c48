package eq

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-eq/dsp/core"
)

const (
	// DefaultGridPoints is the size of the default response grid.
	DefaultGridPoints = 1000
	// DefaultGridMinHz is the lowest frequency of the default grid.
	DefaultGridMinHz = 10.0
)

// Response holds parallel arrays describing a frequency response.
type Response struct {
	Frequencies []float64 // Hz
	MagnitudeDB []float64
	Phase       []float64 // radians, principal value
}

// Len returns the number of grid points.
func (r Response) Len() int { return len(r.Frequencies) }

// DefaultGrid returns DefaultGridPoints log-spaced frequencies from
// DefaultGridMinHz to sampleRate/2.
func DefaultGrid(sampleRate float64) []float64 {
	return core.LogSpace(DefaultGridMinHz, sampleRate/2, DefaultGridPoints)
}

// Evaluate computes the combined response of bands at each frequency in freqs
// (nil selects DefaultGrid). Cascaded sections multiply in the frequency
// domain; with no bands the response is 1 (0 dB, zero phase) everywhere.
func Evaluate(bands []Band, sampleRate float64, freqs []float64) Response {
	if freqs == nil {
		freqs = DefaultGrid(sampleRate)
	}

	resp := Response{
		Frequencies: append([]float64(nil), freqs...),
		MagnitudeDB: make([]float64, len(freqs)),
		Phase:       make([]float64, len(freqs)),
	}

	total := make([]complex128, len(freqs))
	for i := range total {
		total[i] = 1
	}

	for _, b := range bands {
		coeffs := b.Coefficients(sampleRate)
		for i, f := range freqs {
			total[i] *= coeffs.Response(f, sampleRate)
		}
	}

	for i, h := range total {
		resp.MagnitudeDB[i] = core.LinearToDB(cmplx.Abs(h))
		resp.Phase[i] = math.Atan2(imag(h), real(h))
	}

	return resp
}

// Response evaluates the chain's current bands over freqs (nil selects the
// default grid). Filter memory is not involved.
func (c *Chain) Response(freqs []float64) Response {
	return Evaluate(c.bands, c.sampleRate, freqs)
}
